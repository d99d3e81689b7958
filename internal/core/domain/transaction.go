package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger movement.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// TransactionStatus is the lifecycle state of a transaction or a
// transaction request.
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusSuccessful TransactionStatus = "successful"
	TransactionStatusFailed     TransactionStatus = "failed"
)

// Balance arithmetic sentinel errors. Services translate these into
// apperror values at the boundary.
var (
	ErrNegativeAmount         = errors.New("amount must not be negative")
	ErrBalanceBelowZero       = errors.New("balance would fall below zero")
	ErrUnknownTransactionType = errors.New("unknown transaction type")
)

// IsValidTransactionStatus reports whether s is one of the three statuses.
func IsValidTransactionStatus(s TransactionStatus) bool {
	switch s {
	case TransactionStatusPending, TransactionStatusSuccessful, TransactionStatusFailed:
		return true
	}
	return false
}

// IsValidTransactionType reports whether t is credit or debit.
func IsValidTransactionType(t TransactionType) bool {
	return t == TransactionTypeCredit || t == TransactionTypeDebit
}

// Transaction is a ledger entry recording a balance-affecting (or pending)
// movement. Once in a terminal status it never changes.
type Transaction struct {
	ID               uuid.UUID         `json:"id"`
	ClientWalletID   uuid.UUID         `json:"client_wallet_id"`
	AdminWalletID    uuid.UUID         `json:"admin_wallet_id"`
	AmountInUSD      decimal.Decimal   `json:"amount_in_usd"`
	Amount           string            `json:"amount,omitempty"` // native-currency quantity
	Fee              decimal.Decimal   `json:"fee"`
	RecipientAddress string            `json:"recipient_address,omitempty"`
	Type             TransactionType   `json:"type"`
	Status           TransactionStatus `json:"status"`
	// IsAdminCreated marks admin-originated movements, which mutate the
	// wallet balance at creation. Client-originated rows only record intent.
	IsAdminCreated bool      `json:"is_admin_created"`
	Date           time.Time `json:"date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsTerminal returns true if the transaction is in a final state.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusSuccessful || t.Status == TransactionStatusFailed
}

// MovedBalance reports whether this transaction has mutated the wallet
// balance: admin-originated rows move it at creation, client-originated rows
// when they transition to successful.
func (t *Transaction) MovedBalance() bool {
	return t.IsAdminCreated || t.Status == TransactionStatusSuccessful
}
