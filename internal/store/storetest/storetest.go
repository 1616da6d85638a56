// Package storetest is a conformance suite run against every store.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"finance-tracker/internal/models"
	"finance-tracker/internal/store"
)

// Opener returns a fresh, empty store for one subtest.
type Opener func(t *testing.T) store.Store

// Run executes every conformance check against stores from open.
func Run(t *testing.T, open Opener) {
	cases := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"Users", testUsers},
		{"BudgetDefaults", testBudgetDefaults},
		{"BudgetMerge", testBudgetMerge},
		{"TransactionDefaults", testTransactionDefaults},
		{"TransactionMerge", testTransactionMerge},
		{"NullClearsNullableFields", testNullClears},
		{"Isolation", testIsolation},
		{"DeleteMissing", testDeleteMissing},
		{"IDsNeverReused", testIDsNeverReused},
		{"Ordering", testOrdering},
		{"Restore", testRestore},
		{"ConcurrentRegistration", testConcurrentRegistration},
		{"ConcurrentCreates", testConcurrentCreates},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() { _ = s.Close() })
			tc.fn(t, s)
		})
	}
}

func amount(t *testing.T, s string) models.Amount {
	t.Helper()
	a, err := models.ParseAmount(s)
	if err != nil {
		t.Fatalf("ParseAmount(%q): %v", s, err)
	}
	return a
}

func mustUser(t *testing.T, s store.Store, email string) *models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), models.NewUser{Email: email, PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return u
}

func mustBudget(t *testing.T, s store.Store, uid int64, name, category, amt string) *models.Budget {
	t.Helper()
	b, err := s.CreateBudget(context.Background(), uid, models.BudgetInput{
		Name: name, Category: category, Amount: amount(t, amt),
	})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	return b
}

func mustTransaction(t *testing.T, s store.Store, uid int64, in models.TransactionInput) *models.Transaction {
	t.Helper()
	trx, err := s.CreateTransaction(context.Background(), uid, in)
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	return trx
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()

	u, err := s.CreateUser(ctx, models.NewUser{Email: "a@x", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID != 1 {
		t.Fatalf("first user id = %d, want 1", u.ID)
	}
	if u.Name != nil {
		t.Fatalf("name = %q, want nil", *u.Name)
	}
	if u.CreatedAt == "" {
		t.Fatal("created_at not set")
	}

	named, err := s.CreateUser(ctx, models.NewUser{Email: "b@x", Name: "Bea", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if named.ID != 2 || named.Name == nil || *named.Name != "Bea" {
		t.Fatalf("unexpected user %+v", named)
	}

	if _, err := s.CreateUser(ctx, models.NewUser{Email: "a@x", PasswordHash: "h"}); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("duplicate email err = %v, want ErrConflict", err)
	}

	got, err := s.FindUserByEmail(ctx, "a@x")
	if err != nil || got.ID != u.ID || got.PasswordHash != "h" {
		t.Fatalf("FindUserByEmail = %+v, %v", got, err)
	}
	if _, err := s.FindUserByEmail(ctx, "A@x"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("email lookup must be exact, err = %v", err)
	}
	got, err = s.FindUserByID(ctx, named.ID)
	if err != nil || got.Email != "b@x" {
		t.Fatalf("FindUserByID = %+v, %v", got, err)
	}
	if _, err := s.FindUserByID(ctx, 99); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("FindUserByID(99) err = %v", err)
	}
}

func testBudgetDefaults(t *testing.T, s store.Store) {
	u := mustUser(t, s, "a@x")
	b := mustBudget(t, s, u.ID, "Rent", "Housing", "1500")

	if b.ID != 1 || b.UserID != u.ID {
		t.Fatalf("id/owner = %d/%d", b.ID, b.UserID)
	}
	if b.Period != models.DefaultPeriod {
		t.Fatalf("period = %q, want %q", b.Period, models.DefaultPeriod)
	}
	if b.StartDate != nil || b.EndDate != nil {
		t.Fatal("empty dates must be stored as null")
	}

	got, err := s.GetBudget(context.Background(), u.ID, b.ID)
	if err != nil {
		t.Fatalf("GetBudget: %v", err)
	}
	if got.Name != "Rent" || got.Category != "Housing" || !got.Amount.Equal(amount(t, "1500").Decimal) {
		t.Fatalf("GetBudget = %+v", got)
	}
}

func testBudgetMerge(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "a@x")
	b := mustBudget(t, s, u.ID, "Rent", "Housing", "1500")

	newAmount := amount(t, "1600")
	updated, err := s.UpdateBudget(ctx, u.ID, b.ID, models.BudgetPatch{Amount: &newAmount})
	if err != nil {
		t.Fatalf("UpdateBudget: %v", err)
	}
	if updated.Name != "Rent" || updated.Category != "Housing" || updated.Period != models.DefaultPeriod {
		t.Fatalf("unsupplied fields changed: %+v", updated)
	}
	if !updated.Amount.Equal(newAmount.Decimal) {
		t.Fatalf("amount = %s, want 1600", updated.Amount)
	}
	if updated.ID != b.ID || updated.UserID != u.ID || updated.CreatedAt != b.CreatedAt {
		t.Fatalf("identity fields changed: %+v", updated)
	}

	got, err := s.GetBudget(ctx, u.ID, b.ID)
	if err != nil || !got.Amount.Equal(newAmount.Decimal) {
		t.Fatalf("update not persisted: %+v, %v", got, err)
	}

	if _, err := s.UpdateBudget(ctx, u.ID, 42, models.BudgetPatch{Amount: &newAmount}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update of missing budget err = %v", err)
	}
}

func testTransactionDefaults(t *testing.T, s store.Store) {
	u := mustUser(t, s, "a@x")
	trx := mustTransaction(t, s, u.ID, models.TransactionInput{
		Category: "Food", Amount: amount(t, "12.5"), Date: "2024-03-02",
	})
	if trx.BudgetID != nil || trx.Description != nil {
		t.Fatalf("budget_id/description must default to null: %+v", trx)
	}

	// budget_id is a free reference
	linked := mustTransaction(t, s, u.ID, models.TransactionInput{
		BudgetID: 777, Category: "Food", Description: "lunch", Amount: amount(t, "3"), Date: "2024-03-03",
	})
	if linked.BudgetID == nil || *linked.BudgetID != 777 {
		t.Fatalf("budget_id = %v, want 777", linked.BudgetID)
	}
	if linked.Description == nil || *linked.Description != "lunch" {
		t.Fatalf("description = %v", linked.Description)
	}
}

func testTransactionMerge(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "a@x")
	trx := mustTransaction(t, s, u.ID, models.TransactionInput{
		Category: "Food", Description: "groceries", Amount: amount(t, "40"), Date: "2024-03-02",
	})

	date := "2024-03-09"
	updated, err := s.UpdateTransaction(ctx, u.ID, trx.ID, models.TransactionPatch{Date: &date})
	if err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	if updated.Date != date || updated.Category != "Food" || *updated.Description != "groceries" {
		t.Fatalf("merge result = %+v", updated)
	}
	if !updated.Amount.Equal(amount(t, "40").Decimal) {
		t.Fatalf("amount changed: %s", updated.Amount)
	}

	if _, err := s.UpdateTransaction(ctx, u.ID+1, trx.ID, models.TransactionPatch{Date: &date}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update by non-owner err = %v", err)
	}
}

func testIsolation(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := mustUser(t, s, "a@x")
	b := mustUser(t, s, "b@x")
	budget := mustBudget(t, s, a.ID, "Rent", "Housing", "1500")
	trx := mustTransaction(t, s, a.ID, models.TransactionInput{Category: "Housing", Amount: amount(t, "1500"), Date: "2024-03-01"})

	if list, _ := s.ListBudgets(ctx, b.ID); len(list) != 0 {
		t.Fatalf("B sees %d budgets of A", len(list))
	}
	if list, _ := s.ListTransactions(ctx, b.ID); len(list) != 0 {
		t.Fatalf("B sees %d transactions of A", len(list))
	}
	if _, err := s.GetBudget(ctx, b.ID, budget.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetBudget by B err = %v", err)
	}
	if _, err := s.GetTransaction(ctx, b.ID, trx.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetTransaction by B err = %v", err)
	}

	name := "Hijacked"
	if _, err := s.UpdateBudget(ctx, b.ID, budget.ID, models.BudgetPatch{Name: &name}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("UpdateBudget by B err = %v", err)
	}
	if ok, err := s.DeleteBudget(ctx, b.ID, budget.ID); ok || err != nil {
		t.Fatalf("DeleteBudget by B = %v, %v", ok, err)
	}
	if ok, err := s.DeleteTransaction(ctx, b.ID, trx.ID); ok || err != nil {
		t.Fatalf("DeleteTransaction by B = %v, %v", ok, err)
	}

	got, err := s.GetBudget(ctx, a.ID, budget.ID)
	if err != nil || got.Name != "Rent" {
		t.Fatalf("A's budget changed: %+v, %v", got, err)
	}
	if _, err := s.GetTransaction(ctx, a.ID, trx.ID); err != nil {
		t.Fatalf("A's transaction gone: %v", err)
	}
}

func testDeleteMissing(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "a@x")
	b := mustBudget(t, s, u.ID, "Rent", "Housing", "1500")

	if ok, err := s.DeleteBudget(ctx, u.ID, b.ID); !ok || err != nil {
		t.Fatalf("first delete = %v, %v", ok, err)
	}
	if ok, err := s.DeleteBudget(ctx, u.ID, b.ID); ok || err != nil {
		t.Fatalf("second delete = %v, %v", ok, err)
	}
	if ok, err := s.DeleteTransaction(ctx, u.ID, 5); ok || err != nil {
		t.Fatalf("delete missing transaction = %v, %v", ok, err)
	}
}

func testIDsNeverReused(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "a@x")

	var last int64
	for i := 0; i < 3; i++ {
		b := mustBudget(t, s, u.ID, "B", "C", "1")
		if b.ID <= last {
			t.Fatalf("id %d not above previous %d", b.ID, last)
		}
		last = b.ID
		if _, err := s.DeleteBudget(ctx, u.ID, b.ID); err != nil {
			t.Fatalf("DeleteBudget: %v", err)
		}
	}
	if b := mustBudget(t, s, u.ID, "B", "C", "1"); b.ID != 4 {
		t.Fatalf("id after three deleted budgets = %d, want 4", b.ID)
	}
}

func testOrdering(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "a@x")

	for _, d := range []string{"2024-03-02", "2024-03-15", "2024-02-28", "2024-03-15T08:00"} {
		mustTransaction(t, s, u.ID, models.TransactionInput{Category: "X", Amount: amount(t, "1"), Date: d})
	}
	txs, err := s.ListTransactions(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	want := []string{"2024-03-15T08:00", "2024-03-15", "2024-03-02", "2024-02-28"}
	if len(txs) != len(want) {
		t.Fatalf("got %d transactions", len(txs))
	}
	for i, d := range want {
		if txs[i].Date != d {
			t.Fatalf("txs[%d].Date = %q, want %q", i, txs[i].Date, d)
		}
	}

	for i := 0; i < 3; i++ {
		mustBudget(t, s, u.ID, "B", "C", "1")
	}
	budgets, err := s.ListBudgets(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListBudgets: %v", err)
	}
	for i := 1; i < len(budgets); i++ {
		prev, cur := budgets[i-1], budgets[i]
		if prev.CreatedAt < cur.CreatedAt {
			t.Fatalf("budgets not sorted by created_at desc: %q before %q", prev.CreatedAt, cur.CreatedAt)
		}
		if prev.CreatedAt == cur.CreatedAt && prev.ID > cur.ID {
			t.Fatalf("tie on created_at must keep insertion order: %d before %d", prev.ID, cur.ID)
		}
	}
}

func testRestore(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := mustUser(t, s, "a@x")
	b := mustUser(t, s, "b@x")

	rent := mustBudget(t, s, a.ID, "Rent", "Housing", "1500")
	mustTransaction(t, s, a.ID, models.TransactionInput{BudgetID: rent.ID, Category: "Housing", Amount: amount(t, "1500"), Date: "2024-03-01"})
	mustTransaction(t, s, a.ID, models.TransactionInput{BudgetID: 999, Category: "Misc", Amount: amount(t, "2"), Date: "2024-03-02"})
	other := mustBudget(t, s, b.ID, "Food", "Food", "300")

	budgets, _ := s.ListBudgets(ctx, a.ID)
	txs, _ := s.ListTransactions(ctx, a.ID)

	// A changes things after the snapshot; restore must discard them.
	mustBudget(t, s, a.ID, "Later", "Later", "1")

	if err := s.RestoreUserData(ctx, a.ID, budgets, txs); err != nil {
		t.Fatalf("RestoreUserData: %v", err)
	}

	gotB, _ := s.ListBudgets(ctx, a.ID)
	if len(gotB) != 1 || gotB[0].Name != "Rent" {
		t.Fatalf("restored budgets = %+v", gotB)
	}
	if gotB[0].ID == rent.ID {
		t.Fatal("restored budget must get a fresh id")
	}
	gotT, _ := s.ListTransactions(ctx, a.ID)
	if len(gotT) != 2 {
		t.Fatalf("restored %d transactions, want 2", len(gotT))
	}
	for _, trx := range gotT {
		if trx.UserID != a.ID {
			t.Fatalf("owner = %d", trx.UserID)
		}
		switch trx.Category {
		case "Housing":
			if trx.BudgetID == nil || *trx.BudgetID != gotB[0].ID {
				t.Fatalf("budget link not remapped: %v", trx.BudgetID)
			}
		case "Misc":
			if trx.BudgetID == nil || *trx.BudgetID != 999 {
				t.Fatalf("foreign budget link changed: %v", trx.BudgetID)
			}
		}
	}

	if _, err := s.GetBudget(ctx, b.ID, other.ID); err != nil {
		t.Fatalf("other user's data touched by restore: %v", err)
	}
}

func testNullClears(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "a@x")

	b, err := s.CreateBudget(ctx, u.ID, models.BudgetInput{
		Name: "Rent", Category: "Rent", Amount: amount(t, "1"), StartDate: "2024-01-01", EndDate: "2024-12-31",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpdateBudget(ctx, u.ID, b.ID, models.BudgetPatch{StartDate: models.Null[string]()}); err != nil {
		t.Fatalf("UpdateBudget: %v", err)
	}
	gotB, err := s.GetBudget(ctx, u.ID, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotB.StartDate != nil {
		t.Fatalf("start_date = %q, want null", *gotB.StartDate)
	}
	if gotB.EndDate == nil || *gotB.EndDate != "2024-12-31" {
		t.Fatalf("end_date = %v, want kept", gotB.EndDate)
	}

	trx := mustTransaction(t, s, u.ID, models.TransactionInput{
		BudgetID: b.ID, Category: "Rent", Description: "march", Amount: amount(t, "5000"), Date: "2024-03-05",
	})
	patch := models.TransactionPatch{BudgetID: models.Null[int64](), Description: models.Null[string]()}
	if _, err := s.UpdateTransaction(ctx, u.ID, trx.ID, patch); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	gotT, err := s.GetTransaction(ctx, u.ID, trx.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotT.BudgetID != nil || gotT.Description != nil {
		t.Fatalf("budget_id/description not cleared: %v %v", gotT.BudgetID, gotT.Description)
	}
	if gotT.Category != "Rent" || gotT.Date != "2024-03-05" {
		t.Fatalf("other fields changed: %+v", gotT)
	}
}

const parallelism = 16

func testConcurrentRegistration(t *testing.T, s store.Store) {
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		created = make(chan *models.User, parallelism)
		errs    = make(chan error, parallelism)
	)
	for i := 0; i < parallelism; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := s.CreateUser(ctx, models.NewUser{Email: "same@x", PasswordHash: "h"})
			if err != nil {
				errs <- err
				return
			}
			created <- u
		}()
	}
	wg.Wait()
	close(created)
	close(errs)

	if len(created) != 1 {
		t.Fatalf("%d registrations of one email succeeded, want 1", len(created))
	}
	for err := range errs {
		if !errors.Is(err, store.ErrConflict) {
			t.Fatalf("losing registration err = %v, want ErrConflict", err)
		}
	}
	winner := <-created
	got, err := s.FindUserByEmail(ctx, "same@x")
	if err != nil || got.ID != winner.ID {
		t.Fatalf("stored user = %+v, %v; want id %d", got, err, winner.ID)
	}
}

func testConcurrentCreates(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "a@x")

	ids, err := createBudgetsInParallel(ctx, s, u.ID, parallelism)
	if err != nil {
		t.Fatal(err)
	}
	list, err := s.ListBudgets(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != parallelism {
		t.Fatalf("listed %d budgets, want %d", len(list), parallelism)
	}
	for _, b := range list {
		if !ids[b.ID] {
			t.Fatalf("listed budget %d was not returned by any create", b.ID)
		}
	}
}

// createBudgetsInParallel creates n budgets for userID from n goroutines and
// returns the set of ids handed out. Duplicate ids are an error.
func createBudgetsInParallel(ctx context.Context, s store.Store, userID int64, n int) (map[int64]bool, error) {
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[int64]bool, n)
		bad []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, _ := models.ParseAmount(fmt.Sprint(i + 1))
			b, err := s.CreateBudget(ctx, userID, models.BudgetInput{Name: fmt.Sprintf("b%d", i), Category: "c", Amount: a})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				bad = append(bad, err)
			case ids[b.ID]:
				bad = append(bad, fmt.Errorf("id %d handed out twice", b.ID))
			default:
				ids[b.ID] = true
			}
		}(i)
	}
	wg.Wait()
	if len(bad) > 0 {
		return nil, errors.Join(bad...)
	}
	return ids, nil
}

// DirOpener opens the store kept in dir. Opening the same dir twice must
// see the same data.
type DirOpener func(t *testing.T, dir string) store.Store

// RunDurability checks that records written concurrently are all there
// after the store is closed and opened again.
func RunDurability(t *testing.T, open DirOpener) {
	ctx := context.Background()
	dir := t.TempDir()

	s := open(t, dir)
	u := mustUser(t, s, "a@x")
	ids, err := createBudgetsInParallel(ctx, s, u.ID, parallelism)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s = open(t, dir)
	defer s.Close()
	list, err := s.ListBudgets(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != parallelism {
		t.Fatalf("reloaded %d budgets, want %d", len(list), parallelism)
	}
	for _, b := range list {
		if !ids[b.ID] {
			t.Fatalf("reloaded unknown budget id %d", b.ID)
		}
	}

	next := mustBudget(t, s, u.ID, "after", "c", "1")
	if ids[next.ID] || next.ID != int64(parallelism+1) {
		t.Fatalf("id after reload = %d, want %d", next.ID, parallelism+1)
	}
}
