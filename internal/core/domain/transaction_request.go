package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRequest is a client-submitted, admin-approved request to credit
// a wallet. Approval (pending -> successful) is the only path that moves
// money for client-initiated transfers.
type TransactionRequest struct {
	ID             uuid.UUID         `json:"id"`
	ClientWalletID uuid.UUID         `json:"client_wallet_id"`
	AmountInUSD    decimal.Decimal   `json:"amount_in_usd"`
	Status         TransactionStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// IsTerminal returns true once the request has been resolved. Terminal
// requests are frozen: no re-transition, so a credit is applied at most once.
func (r *TransactionRequest) IsTerminal() bool {
	return r.Status == TransactionStatusSuccessful || r.Status == TransactionStatusFailed
}
