package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"finance-tracker/internal/config"
	"finance-tracker/internal/models"
	"finance-tracker/internal/store"
	"finance-tracker/internal/store/storetest"
)

func openTemp(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(config.StoreConfig{Driver: config.DriverSQLite, Path: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return openTemp(t, filepath.Join(t.TempDir(), "tracker.db"))
	})
}

func TestDurability(t *testing.T) {
	storetest.RunDurability(t, func(t *testing.T, dir string) store.Store {
		return openTemp(t, filepath.Join(dir, "tracker.db"))
	})
}

func TestSequencesSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tracker.db")

	s := openTemp(t, path)
	u, err := s.CreateUser(ctx, models.NewUser{Email: "a@x", PasswordHash: "h"})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := s.CreateBudget(ctx, u.ID, models.BudgetInput{Name: "n", Category: "c", Amount: models.NewAmount(1)})
	if _, err := s.DeleteBudget(ctx, u.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s = openTemp(t, path)
	defer s.Close()
	b2, err := s.CreateBudget(ctx, u.ID, models.BudgetInput{Name: "n", Category: "c", Amount: models.NewAmount(2.5)})
	if err != nil {
		t.Fatal(err)
	}
	if b2.ID != 2 {
		t.Fatalf("id after reopen = %d, want 2", b2.ID)
	}
	got, err := s.GetBudget(ctx, u.ID, b2.ID)
	if err != nil || got.Amount.String() != "2.5" {
		t.Fatalf("amount round trip: %+v, %v", got, err)
	}
}
