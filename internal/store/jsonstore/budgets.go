package jsonstore

import (
	"context"
	"slices"
	"sort"

	"finance-tracker/internal/models"
	"finance-tracker/internal/store"
)

// ListBudgets returns the user's budgets, newest created_at first.
func (s *Store) ListBudgets(_ context.Context, userID int64) ([]models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Budget{}
	for _, b := range s.data.Budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out, nil
}

func (s *Store) GetBudget(_ context.Context, userID, id int64) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.budgetIndex(userID, id)
	if idx < 0 {
		return nil, store.ErrNotFound
	}
	b := s.data.Budgets[idx]
	return &b, nil
}

func (s *Store) CreateBudget(_ context.Context, userID int64, in models.BudgetInput) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := models.NewBudget(s.nextID(models.CollectionBudgets), userID, in, s.timestamp())
	prev := s.data.Budgets
	s.data.Budgets = append(s.data.Budgets, b)
	if err := s.commit(func() { s.data.Budgets = prev }); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) UpdateBudget(_ context.Context, userID, id int64, patch models.BudgetPatch) (*models.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.budgetIndex(userID, id)
	if idx < 0 {
		return nil, store.ErrNotFound
	}
	old := s.data.Budgets[idx]
	updated := old
	updated.Apply(patch)
	s.data.Budgets[idx] = updated
	if err := s.commit(func() { s.data.Budgets[idx] = old }); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteBudget reports whether a budget was removed. Nothing is written
// when there was nothing to remove.
func (s *Store) DeleteBudget(_ context.Context, userID, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.budgetIndex(userID, id)
	if idx < 0 {
		return false, nil
	}
	prev := s.data.Budgets
	s.data.Budgets = slices.Delete(slices.Clone(prev), idx, idx+1)
	if err := s.commit(func() { s.data.Budgets = prev }); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) budgetIndex(userID, id int64) int {
	return slices.IndexFunc(s.data.Budgets, func(b models.Budget) bool {
		return b.ID == id && b.UserID == userID
	})
}
