package jsonstore

import (
	"context"
	"slices"
	"sort"

	"finance-tracker/internal/models"
	"finance-tracker/internal/store"
)

// ListTransactions returns the user's transactions, latest date first.
func (s *Store) ListTransactions(_ context.Context, userID int64) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Transaction{}
	for _, t := range s.data.Transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, userID, id int64) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.transactionIndex(userID, id)
	if idx < 0 {
		return nil, store.ErrNotFound
	}
	t := s.data.Transactions[idx]
	return &t, nil
}

func (s *Store) CreateTransaction(_ context.Context, userID int64, in models.TransactionInput) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := models.NewTransaction(s.nextID(models.CollectionTransactions), userID, in, s.timestamp())
	prev := s.data.Transactions
	s.data.Transactions = append(s.data.Transactions, t)
	if err := s.commit(func() { s.data.Transactions = prev }); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, userID, id int64, patch models.TransactionPatch) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.transactionIndex(userID, id)
	if idx < 0 {
		return nil, store.ErrNotFound
	}
	old := s.data.Transactions[idx]
	updated := old
	updated.Apply(patch)
	s.data.Transactions[idx] = updated
	if err := s.commit(func() { s.data.Transactions[idx] = old }); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.transactionIndex(userID, id)
	if idx < 0 {
		return false, nil
	}
	prev := s.data.Transactions
	s.data.Transactions = slices.Delete(slices.Clone(prev), idx, idx+1)
	if err := s.commit(func() { s.data.Transactions = prev }); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) transactionIndex(userID, id int64) int {
	return slices.IndexFunc(s.data.Transactions, func(t models.Transaction) bool {
		return t.ID == id && t.UserID == userID
	})
}
