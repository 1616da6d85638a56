package models

// User is an account holder. Email is unique and compared exactly as stored.
type User struct {
	ID           int64   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Email        string  `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name         *string `gorm:"size:128" json:"name"`
	PasswordHash string  `gorm:"size:255;not null" json:"password_hash"`
	CreatedAt    string  `gorm:"size:32;not null" json:"created_at"`
}

// NewUser carries the fields needed to create a user.
type NewUser struct {
	Email        string
	Name         string
	PasswordHash string
}

// PublicUser is what the API returns for a user; it never carries the hash.
type PublicUser struct {
	ID    int64   `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name}
}
