package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/eventdeck/eventdeck/internal/db/models"
)

// LocalProvider authenticates users against the console database.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{db: db}
}

// Authenticate verifies a username/password pair against the local database.
func (p *LocalProvider) Authenticate(ctx context.Context, username, password string) (*User, error) {
	var user models.User

	err := p.db.WithContext(ctx).
		Where("username = ? AND auth_source = ?", username, models.AuthSourceLocal).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return toUser(&user), nil
}

// Resolve loads the user behind a previously issued local credential subject.
func (p *LocalProvider) Resolve(ctx context.Context, subject string) (*User, error) {
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var user models.User

	err = p.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	return toUser(&user), nil
}

func toUser(u *models.User) *User {
	return &User{
		ID:    strconv.FormatUint(u.ID, 10),
		Email: u.Email,
		Name:  u.DisplayName,
		Roles: u.RoleSet(),
	}
}
