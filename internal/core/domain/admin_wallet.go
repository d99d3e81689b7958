package domain

import (
	"time"

	"github.com/google/uuid"
)

// SupportedCurrencies is the closed allow-list of currency abbreviations an
// admin wallet may be created with.
var SupportedCurrencies = map[string]struct{}{
	"USD":  {},
	"EUR":  {},
	"GBP":  {},
	"BTC":  {},
	"ETH":  {},
	"USDT": {},
	"USDC": {},
}

// IsSupportedCurrency reports whether abbr is in the allow-list.
func IsSupportedCurrency(abbr string) bool {
	_, ok := SupportedCurrencies[abbr]
	return ok
}

// AdminWallet is a currency-level custodial pool (e.g. the platform's BTC
// account) that client wallets are provisioned against.
type AdminWallet struct {
	ID                     uuid.UUID `json:"id"`
	CurrencyAbbreviation   string    `json:"currency_abbreviation"`
	Currency               string    `json:"currency"` // display name
	Logo                   string    `json:"logo,omitempty"`
	Address                string    `json:"address"`
	ClientReceivingAddress string    `json:"client_receiving_address"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}
