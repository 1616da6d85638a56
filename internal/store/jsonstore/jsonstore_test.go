package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/store"
	"finance-tracker/internal/store/storetest"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "db.json"), quietLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return openTemp(t) })
}

func TestDurability(t *testing.T) {
	storetest.RunDurability(t, func(t *testing.T, dir string) store.Store {
		s, err := Open(filepath.Join(dir, "db.json"), quietLogger())
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		return s
	})
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return raw
}

func TestOpenCreatesDefaultFile(t *testing.T) {
	s := openTemp(t)

	var d models.Data
	if err := json.Unmarshal(readFile(t, s.Path()), &d); err != nil {
		t.Fatalf("default file is not JSON: %v", err)
	}
	if len(d.Users) != 0 || len(d.Budgets) != 0 || len(d.Transactions) != 0 {
		t.Fatalf("default collections not empty: %+v", d)
	}
	for _, c := range []string{models.CollectionUsers, models.CollectionBudgets, models.CollectionTransactions} {
		if d.Seq[c] != 1 {
			t.Fatalf("seq[%s] = %d, want 1", c, d.Seq[c])
		}
	}
}

func TestFileIsPrettyPrinted(t *testing.T) {
	s := openTemp(t)
	if _, err := s.CreateUser(context.Background(), models.NewUser{Email: "a@x", PasswordHash: "h"}); err != nil {
		t.Fatal(err)
	}
	raw := readFile(t, s.Path())
	if !bytes.Contains(raw, []byte("\n  \"users\": [")) {
		t.Fatalf("file not indented with two spaces:\n%s", raw)
	}
}

func TestReadsAndMissesDoNotWrite(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	u, err := s.CreateUser(ctx, models.NewUser{Email: "a@x", PasswordHash: "h"})
	if err != nil {
		t.Fatal(err)
	}
	amt := models.NewAmount(10)
	b, err := s.CreateBudget(ctx, u.ID, models.BudgetInput{Name: "n", Category: "c", Amount: amt})
	if err != nil {
		t.Fatal(err)
	}

	before := readFile(t, s.Path())
	info, _ := os.Stat(s.Path())

	_, _ = s.ListBudgets(ctx, u.ID)
	_, _ = s.ListTransactions(ctx, u.ID)
	_, _ = s.GetBudget(ctx, u.ID, b.ID)
	_, _ = s.FindUserByEmail(ctx, "a@x")
	if ok, _ := s.DeleteBudget(ctx, u.ID, 99); ok {
		t.Fatal("deleted a missing budget")
	}
	if ok, _ := s.DeleteTransaction(ctx, u.ID+1, 1); ok {
		t.Fatal("deleted a missing transaction")
	}
	if _, err := s.UpdateBudget(ctx, u.ID+1, b.ID, models.BudgetPatch{Amount: &amt}); err != store.ErrNotFound {
		t.Fatalf("update by non-owner err = %v", err)
	}

	after := readFile(t, s.Path())
	if !bytes.Equal(before, after) {
		t.Fatal("file changed without a successful mutation")
	}
	info2, _ := os.Stat(s.Path())
	if !info.ModTime().Equal(info2.ModTime()) {
		t.Fatal("file rewritten without a successful mutation")
	}
}

func TestStateSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")
	s, err := Open(path, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	u, _ := s.CreateUser(ctx, models.NewUser{Email: "a@x", PasswordHash: "h"})
	amt, _ := models.ParseAmount("12.34")
	if _, err := s.CreateTransaction(ctx, u.ID, models.TransactionInput{Category: "Food", Amount: amt, Date: "2024-03-01"}); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path, quietLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	txs, _ := s2.ListTransactions(ctx, u.ID)
	if len(txs) != 1 || txs[0].Amount.String() != "12.34" {
		t.Fatalf("after reopen: %+v", txs)
	}
	trx, _ := s2.CreateTransaction(ctx, u.ID, models.TransactionInput{Category: "Food", Amount: amt, Date: "2024-03-02"})
	if trx.ID != 2 {
		t.Fatalf("id after reopen = %d, want 2", trx.ID)
	}
}

func TestOpenFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	legacy := `{"users":[{"id":3,"email":"a@x","name":null,"password_hash":"h","created_at":"2024-01-01T00:00:00.000Z"}],
"budgets":[{"id":7,"user_id":3,"name":"Rent","category":"Housing","amount":1500,"period":"monthly","start_date":null,"end_date":null,"created_at":"2024-01-01T00:00:00.000Z"}]}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path, quietLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx := context.Background()

	txs, err := s.ListTransactions(ctx, 3)
	if err != nil || len(txs) != 0 {
		t.Fatalf("missing transactions field: %+v, %v", txs, err)
	}

	u, err := s.CreateUser(ctx, models.NewUser{Email: "b@x", PasswordHash: "h"})
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != 4 {
		t.Fatalf("new user id = %d, want 4", u.ID)
	}
	b, _ := s.CreateBudget(ctx, 3, models.BudgetInput{Name: "n", Category: "c", Amount: models.NewAmount(1)})
	if b.ID != 8 {
		t.Fatalf("new budget id = %d, want 8", b.ID)
	}
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path, quietLogger()); err == nil || !strings.Contains(err.Error(), "parse store file") {
		t.Fatalf("Open err = %v, want parse error", err)
	}
	if string(readFile(t, path)) != "{not json" {
		t.Fatal("corrupt file was overwritten")
	}
}

func TestFailedPersistLeavesMemoryUnchanged(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	u, _ := s.CreateUser(ctx, models.NewUser{Email: "a@x", PasswordHash: "h"})

	// a directory in place of the temp file makes the write fail
	if err := os.Mkdir(s.Path()+".tmp", 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateBudget(ctx, u.ID, models.BudgetInput{Name: "n", Category: "c", Amount: models.NewAmount(1)}); err == nil {
		t.Fatal("CreateBudget succeeded with an unwritable file")
	}
	if list, _ := s.ListBudgets(ctx, u.ID); len(list) != 0 {
		t.Fatalf("memory kept %d budgets after failed persist", len(list))
	}

	if err := os.Remove(s.Path() + ".tmp"); err != nil {
		t.Fatal(err)
	}
	b, err := s.CreateBudget(ctx, u.ID, models.BudgetInput{Name: "n", Category: "c", Amount: models.NewAmount(1)})
	if err != nil {
		t.Fatal(err)
	}
	// the id consumed by the failed write is not handed out again
	if b.ID != 2 {
		t.Fatalf("id = %d, want 2", b.ID)
	}
}

func TestTimestampsAreUTCMillis(t *testing.T) {
	s := openTemp(t)
	s.now = func() time.Time { return time.Date(2024, 3, 5, 11, 0, 0, 0, time.FixedZone("CET", 3600)) }
	u, _ := s.CreateUser(context.Background(), models.NewUser{Email: "a@x", PasswordHash: "h"})
	if u.CreatedAt != "2024-03-05T10:00:00.000Z" {
		t.Fatalf("created_at = %q", u.CreatedAt)
	}
}

func TestBudgetsSortedByCreatedAtDesc(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	stamps := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, ts := range stamps {
		ts := ts
		s.now = func() time.Time { return ts }
		name := string(rune('a' + i))
		if _, err := s.CreateBudget(ctx, 1, models.BudgetInput{Name: name, Category: "c", Amount: models.NewAmount(1)}); err != nil {
			t.Fatal(err)
		}
	}
	list, _ := s.ListBudgets(ctx, 1)
	got := list[0].Name + list[1].Name + list[2].Name
	if got != "bca" {
		t.Fatalf("order = %s, want bca", got)
	}
}
