package jsonstore

import (
	"context"

	"finance-tracker/internal/models"
	"finance-tracker/internal/store"
)

func (s *Store) RestoreUserData(_ context.Context, userID int64, budgets []models.Budget, txs []models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	newB, newT, err := store.Renumber(userID, budgets, txs, func(collection string) (int64, error) {
		return s.nextID(collection), nil
	})
	if err != nil {
		return err
	}

	prevB, prevT := s.data.Budgets, s.data.Transactions

	keptB := make([]models.Budget, 0, len(prevB)+len(newB))
	for _, b := range prevB {
		if b.UserID != userID {
			keptB = append(keptB, b)
		}
	}
	keptT := make([]models.Transaction, 0, len(prevT)+len(newT))
	for _, t := range prevT {
		if t.UserID != userID {
			keptT = append(keptT, t)
		}
	}

	s.data.Budgets = append(keptB, newB...)
	s.data.Transactions = append(keptT, newT...)
	return s.commit(func() {
		s.data.Budgets, s.data.Transactions = prevB, prevT
	})
}
