// Package store defines the scoped data access contract shared by the JSON
// file store and the SQLite store.
//
// Every budget and transaction operation takes the caller's user id, and a
// record whose owner differs is reported exactly like a missing one.
package store

import (
	"context"
	"errors"

	"finance-tracker/internal/models"
)

var (
	// ErrNotFound is returned when no record matches both id and owner.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when creating a user whose email is taken.
	ErrConflict = errors.New("email already registered")
)

// Store is implemented by jsonstore.Store and sqlstore.Store.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, in models.NewUser) (*models.User, error)

	ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error)
	GetBudget(ctx context.Context, userID, id int64) (*models.Budget, error)
	CreateBudget(ctx context.Context, userID int64, in models.BudgetInput) (*models.Budget, error)
	UpdateBudget(ctx context.Context, userID, id int64, patch models.BudgetPatch) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, id int64) (bool, error)

	ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error)
	CreateTransaction(ctx context.Context, userID int64, in models.TransactionInput) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, id int64, patch models.TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id int64) (bool, error)

	// RestoreUserData replaces all budgets and transactions of userID with
	// the given ones. Records get fresh ids; transaction budget references
	// that point at a restored budget are rewritten to its new id.
	RestoreUserData(ctx context.Context, userID int64, budgets []models.Budget, txs []models.Transaction) error

	Close() error
}
