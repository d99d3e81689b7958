package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientWallet is a per-client, per-currency sub-ledger entry with a
// USD-denominated balance. The pair (ClientID, AdminWalletID) is unique.
//
// The wallet address is copied from the admin wallet's client receiving
// address at creation time, so all client wallets of one currency share the
// same deposit address.
type ClientWallet struct {
	ID            uuid.UUID       `json:"id"`
	AdminWalletID uuid.UUID       `json:"admin_wallet_id"`
	ClientID      string          `json:"client_id"`
	Address       string          `json:"address"`
	AmountInUSD   decimal.Decimal `json:"amount_in_usd"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewBalance computes the wallet balance after applying a movement of the
// given type, rounded to 2 decimal places. A debit that would take the
// balance below zero returns ErrBalanceBelowZero and the balance is not
// considered changed.
func NewBalance(current decimal.Decimal, amount decimal.Decimal, txType TransactionType) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Decimal{}, ErrNegativeAmount
	}
	var next decimal.Decimal
	switch txType {
	case TransactionTypeCredit:
		next = current.Add(amount)
	case TransactionTypeDebit:
		next = current.Sub(amount)
	default:
		return decimal.Decimal{}, ErrUnknownTransactionType
	}
	next = next.Round(2)
	if next.IsNegative() {
		return decimal.Decimal{}, ErrBalanceBelowZero
	}
	return next, nil
}
