package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client is a wallet holder. ID is a generated string identifier
// ("CLT_" + 12 hex chars) referenced by client wallets.
type Client struct {
	ID             string     `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	UserID         *uuid.UUID `json:"user_id,omitempty"`
	PINHash        string     `json:"-"`
	RecoveryPhrase string     `json:"-"` // space-separated word list, shown once
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
