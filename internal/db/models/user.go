package models

import (
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// AuthSource indicates how a user account authenticates.
type AuthSource string

const (
	// AuthSourceLocal indicates the user authenticates with a local database password.
	AuthSourceLocal AuthSource = "local"
	// AuthSourceOIDC indicates the user authenticates via OpenID Connect (OIDC).
	AuthSourceOIDC AuthSource = "oidc"
)

// User represents a console account. Local users carry an Argon2id password
// hash; OIDC users are provisioned on first callback and identified by the
// provider's subject claim.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Active indicates whether the account may sign in.
	Active bool
	// Username is the unique username for local login.
	Username string `gorm:"unique;size:100;not null"`
	// Email is the user's email address.
	Email string `gorm:"size:255;not null"`
	// Password is the Argon2id hashed password (local accounts only).
	Password string `gorm:"size:255"`
	// DisplayName is the name shown in the console header.
	DisplayName string `gorm:"size:200"`
	// Roles is a comma-separated list of role names (e.g. "organizer,admin").
	Roles string `gorm:"size:500"`
	// AuthSource indicates how this user authenticates (local or oidc).
	AuthSource AuthSource `gorm:"type:varchar(20);not null;default:'local'"`
	// ExternalID is the OIDC subject claim for externally provisioned users.
	ExternalID string `gorm:"size:255"`
	// CreatedAt is managed by GORM.
	CreatedAt time.Time
	// UpdatedAt is managed by GORM.
	UpdatedAt time.Time
}

// RoleSet returns the user's roles as a slice, dropping empty entries.
func (u *User) RoleSet() []string {
	parts := strings.Split(u.Roles, ",")
	roles := make([]string, 0, len(parts))

	for _, p := range parts {
		if r := strings.TrimSpace(p); r != "" {
			roles = append(roles, r)
		}
	}

	return roles
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// It is used when creating or updating local user passwords.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the stored hash.
// Returns true if the password matches, false otherwise.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
