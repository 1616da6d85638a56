// Package jsonstore keeps the whole tracker state in memory and mirrors it to
// a single pretty-printed JSON file.
//
// A Store is safe for concurrent use: one mutex serialises every operation,
// and each successful mutation rewrites the file through a temp file and a
// rename, so readers of the file never see a partial write.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"finance-tracker/internal/models"
)

// Store is the JSON file store.
type Store struct {
	mu   sync.Mutex
	path string
	data models.Data
	log  *slog.Logger
	now  func() time.Time
}

// Open loads the store at path, creating the directory and a default file
// when they do not exist. A file that cannot be parsed is an error; nothing
// is recovered from it.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{
		path: path,
		log:  logger.With("component", "jsonstore"),
		now:  time.Now,
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.data = models.NewData()
		if err := s.save(); err != nil {
			return nil, err
		}
		s.log.Info("created store file", "path", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}

	data, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("parse store file %s: %w", path, err)
	}
	s.data = data
	s.log.Info("loaded store file", "path", path,
		"users", len(data.Users), "budgets", len(data.Budgets), "transactions", len(data.Transactions))
	return s, nil
}

// decode parses raw and fills in any top-level field the file lacks.
func decode(raw []byte) (models.Data, error) {
	var d models.Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return d, err
	}
	if d.Users == nil {
		d.Users = []models.User{}
	}
	if d.Budgets == nil {
		d.Budgets = []models.Budget{}
	}
	if d.Transactions == nil {
		d.Transactions = []models.Transaction{}
	}
	if d.Seq == nil {
		d.Seq = models.DefaultSeq()
		// Counters start past any id already on disk so ids stay unique.
		for _, u := range d.Users {
			raise(d.Seq, models.CollectionUsers, u.ID)
		}
		for _, b := range d.Budgets {
			raise(d.Seq, models.CollectionBudgets, b.ID)
		}
		for _, t := range d.Transactions {
			raise(d.Seq, models.CollectionTransactions, t.ID)
		}
	}
	return d, nil
}

func raise(seq map[string]int64, collection string, id int64) {
	if seq[collection] <= id {
		seq[collection] = id + 1
	}
}

// Close is a no-op; every mutation is already on disk.
func (s *Store) Close() error { return nil }

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// save writes the whole state to disk. Callers hold s.mu.
func (s *Store) save() error {
	raw, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

// commit persists the state. If that fails, undo puts memory back in line
// with the file and the error is returned.
func (s *Store) commit(undo func()) error {
	if err := s.save(); err != nil {
		undo()
		s.log.Error("persist failed", "path", s.path, "error", err)
		return err
	}
	return nil
}

// nextID hands out the current counter of collection and advances it.
// Counters are never rolled back, even when the write that used them fails.
func (s *Store) nextID(collection string) int64 {
	id := s.data.Seq[collection]
	if id == 0 {
		id = 1
	}
	s.data.Seq[collection] = id + 1
	return id
}

func (s *Store) timestamp() string {
	return models.Timestamp(s.now())
}
