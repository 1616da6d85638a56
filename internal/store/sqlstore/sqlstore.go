// Package sqlstore implements store.Store on SQLite through gorm. Each
// mutation runs in one database transaction, including the id sequence
// bump, so ids are never handed out twice.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/database"
	"finance-tracker/internal/models"
	"finance-tracker/internal/store"

	"gorm.io/gorm"
)

type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open connects to the database at cfg.Path and migrates it.
func Open(cfg config.StoreConfig) (*Store, error) {
	db, err := database.Init(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// nextID reads and advances the sequence of collection inside tx.
func nextID(tx *gorm.DB, collection string) (int64, error) {
	var seq models.Sequence
	if err := tx.Where(models.Sequence{Collection: collection}).
		Attrs(models.Sequence{Next: 1}).
		FirstOrCreate(&seq).Error; err != nil {
		return 0, fmt.Errorf("read sequence %s: %w", collection, err)
	}
	id := seq.Next
	if id <= 0 {
		id = 1
	}
	if err := tx.Model(&models.Sequence{}).
		Where("collection = ?", collection).
		Update("next", id+1).Error; err != nil {
		return 0, fmt.Errorf("advance sequence %s: %w", collection, err)
	}
	return id, nil
}

func (s *Store) timestamp() string {
	return models.Timestamp(s.now())
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

// ---------- users ----------

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, in models.NewUser) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return store.ErrConflict
		}
		id, err := nextID(tx, models.CollectionUsers)
		if err != nil {
			return err
		}
		u = models.User{
			ID:           id,
			Email:        in.Email,
			PasswordHash: in.PasswordHash,
			CreatedAt:    s.timestamp(),
		}
		if in.Name != "" {
			name := in.Name
			u.Name = &name
		}
		return tx.Create(&u).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ---------- budgets ----------

func (s *Store) ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	out := []models.Budget{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Budget{}
	}
	return out, nil
}

func (s *Store) GetBudget(ctx context.Context, userID, id int64) (*models.Budget, error) {
	var b models.Budget
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&b).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (s *Store) CreateBudget(ctx context.Context, userID int64, in models.BudgetInput) (*models.Budget, error) {
	var b models.Budget
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := nextID(tx, models.CollectionBudgets)
		if err != nil {
			return err
		}
		b = models.NewBudget(id, userID, in, s.timestamp())
		return tx.Create(&b).Error
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) UpdateBudget(ctx context.Context, userID, id int64, patch models.BudgetPatch) (*models.Budget, error) {
	var b models.Budget
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&b).Error; err != nil {
			return notFound(err)
		}
		b.Apply(patch)
		return tx.Save(&b).Error
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) DeleteBudget(ctx context.Context, userID, id int64) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Budget{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ---------- transactions ----------

func (s *Store) ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	out := []models.Transaction{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Transaction{}
	}
	return out, nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	var t models.Transaction
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *Store) CreateTransaction(ctx context.Context, userID int64, in models.TransactionInput) (*models.Transaction, error) {
	var t models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := nextID(tx, models.CollectionTransactions)
		if err != nil {
			return err
		}
		t = models.NewTransaction(id, userID, in, s.timestamp())
		return tx.Create(&t).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, userID, id int64, patch models.TransactionPatch) (*models.Transaction, error) {
	var t models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&t).Error; err != nil {
			return notFound(err)
		}
		t.Apply(patch)
		return tx.Save(&t).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id int64) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Transaction{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ---------- restore ----------

func (s *Store) RestoreUserData(ctx context.Context, userID int64, budgets []models.Budget, txs []models.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Budget{}).Error; err != nil {
			return err
		}

		newB, newT, err := store.Renumber(userID, budgets, txs, func(collection string) (int64, error) {
			return nextID(tx, collection)
		})
		if err != nil {
			return err
		}
		if len(newB) > 0 {
			if err := tx.Create(&newB).Error; err != nil {
				return err
			}
		}
		if len(newT) > 0 {
			if err := tx.Create(&newT).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
