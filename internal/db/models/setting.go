package models

import "time"

// Setting stores a named console setting as an opaque value with optional
// expiry, e.g. the default event filter or cached API metadata.
type Setting struct {
	// ID is the unique identifier for the setting.
	ID uint64 `gorm:"primaryKey"`
	// Name is the unique setting name.
	Name string `gorm:"unique;size:200;not null"`
	// Value is the raw setting value.
	Value []byte
	// ExpiresAt is an optional expiry; nil means the setting never expires.
	ExpiresAt *time.Time
	// CreatedAt is managed by GORM.
	CreatedAt time.Time
	// UpdatedAt is managed by GORM.
	UpdatedAt time.Time
}
