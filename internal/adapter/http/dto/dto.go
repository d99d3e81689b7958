package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Auth ---

// SignupRequest is the request body for account registration.
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyEmailRequest carries the 6-digit code mailed at signup.
type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// EmailRequest is shared by resend-verification-code and forgot-password.
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest is the request body for password reset; the reset
// token travels in the path.
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// TokenResponse is the login/refresh response body. The refresh token is
// delivered separately as an HttpOnly cookie.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // Unix timestamp
}

// UserResponse is the public view of a user account.
type UserResponse struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
}

// --- Admin wallets ---

// CreateAdminWalletRequest is the request body for admin wallet creation.
type CreateAdminWalletRequest struct {
	CurrencyAbbreviation   string `json:"currency_abbreviation" binding:"required,min=2,max=10"`
	Currency               string `json:"currency" binding:"required,min=1,max=100"`
	Logo                   string `json:"logo" binding:"omitempty,max=255"`
	ClientReceivingAddress string `json:"client_receiving_address" binding:"omitempty,max=100"`
}

// UpdateAdminWalletRequest is a partial admin wallet update; absent fields
// are left untouched.
type UpdateAdminWalletRequest struct {
	CurrencyAbbreviation   *string `json:"currency_abbreviation,omitempty" binding:"omitempty,min=2,max=10"`
	Currency               *string `json:"currency,omitempty" binding:"omitempty,min=1,max=100"`
	Logo                   *string `json:"logo,omitempty" binding:"omitempty,max=255"`
	ClientReceivingAddress *string `json:"client_receiving_address,omitempty" binding:"omitempty,max=100"`
}

// --- Client wallets ---

// CreateClientWalletRequest is the request body for client wallet creation.
type CreateClientWalletRequest struct {
	ClientID      string    `json:"client_id" binding:"required,min=3,max=50,safe_id"`
	AdminWalletID uuid.UUID `json:"admin_wallet_id" binding:"required"`
}

// MovementRequest is the request body for the credit and debit endpoints.
type MovementRequest struct {
	AmountInUSD      decimal.Decimal `json:"amount_in_usd"`
	Amount           string          `json:"amount" binding:"omitempty,max=100"`
	Fee              decimal.Decimal `json:"fee"`
	RecipientAddress string          `json:"recipient_address" binding:"omitempty,max=100"`
	Status           *string         `json:"status,omitempty" binding:"omitempty,oneof=pending successful failed"`
	IsAdminCreated   bool            `json:"is_admin_created"`
}

// --- Transactions ---

// CreateTransactionRequest is the request body for direct ledger entry
// creation. The row records intent only; it never moves a balance.
type CreateTransactionRequest struct {
	ClientWalletID   uuid.UUID       `json:"client_wallet_id" binding:"required"`
	AmountInUSD      decimal.Decimal `json:"amount_in_usd"`
	Amount           string          `json:"amount" binding:"omitempty,max=100"`
	Fee              decimal.Decimal `json:"fee"`
	RecipientAddress string          `json:"recipient_address" binding:"omitempty,max=100"`
	Type             string          `json:"type" binding:"required,oneof=credit debit"`
	Status           *string         `json:"status,omitempty" binding:"omitempty,oneof=pending successful failed"`
	Date             *time.Time      `json:"date,omitempty"`
}

// UpdateStatusRequest is the request body for the status PATCH endpoints.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending successful failed"`
}

// CreateTransferRequest is the request body for a client transfer request.
type CreateTransferRequest struct {
	ClientWalletID uuid.UUID       `json:"client_wallet_id" binding:"required"`
	AmountInUSD    decimal.Decimal `json:"amount_in_usd"`
}

// --- Clients ---

// CreateClientRequest is the request body for client creation.
type CreateClientRequest struct {
	FirstName string  `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string  `json:"last_name" binding:"required,min=1,max=100"`
	UserID    *string `json:"user_id,omitempty" binding:"omitempty,uuid"`
	PIN       string  `json:"pin" binding:"omitempty,len=4,numeric"`
}

// UpdateClientRequest is a partial client update.
type UpdateClientRequest struct {
	FirstName *string `json:"first_name,omitempty" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name,omitempty" binding:"omitempty,min=1,max=100"`
}
