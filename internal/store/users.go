package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound is returned when no matching user exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when the username or email is already taken.
	ErrUserExists = errors.New("username or email already in use")
)

// UserRepository provides access to user accounts.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create stores a new account. Username and email are lowercased so
// uniqueness is case-insensitive.
func (r *UserRepository) Create(username, email, passwordHash string) (*User, error) {
	user := &User{
		ID:           uuid.NewString(),
		Username:     strings.ToLower(username),
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}

	var count int64
	if err := r.db.Model(&User{}).
		Where("username = ? OR email = ?", user.Username, user.Email).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// FindByIdentifier looks a user up by username or email.
func (r *UserRepository) FindByIdentifier(identifier string) (*User, error) {
	identifier = strings.ToLower(identifier)
	var user User
	if err := r.db.First(&user, "username = ? OR email = ?", identifier, identifier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
