package jsonstore

import (
	"context"

	"finance-tracker/internal/models"
	"finance-tracker/internal/store"
)

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Users {
		if s.data.Users[i].Email == email {
			u := s.data.Users[i]
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Users {
		if s.data.Users[i].ID == id {
			u := s.data.Users[i]
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

// CreateUser adds a user. The email check and the insert happen under the
// same lock, so two registrations of one address cannot both succeed.
func (s *Store) CreateUser(_ context.Context, in models.NewUser) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Users {
		if s.data.Users[i].Email == in.Email {
			return nil, store.ErrConflict
		}
	}

	u := models.User{
		ID:           s.nextID(models.CollectionUsers),
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		CreatedAt:    s.timestamp(),
	}
	if in.Name != "" {
		name := in.Name
		u.Name = &name
	}

	prev := s.data.Users
	s.data.Users = append(s.data.Users, u)
	if err := s.commit(func() { s.data.Users = prev }); err != nil {
		return nil, err
	}
	return &u, nil
}
