package auth

import (
	"time"

	"github.com/stokpintar/stokpintar/internal/shared"
)

// User represents an authenticated user account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         shared.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
