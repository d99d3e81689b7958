package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionSignup            AuditAction = "SIGNUP"
	AuditActionLogin             AuditAction = "LOGIN"
	AuditActionCreateAdminWallet AuditAction = "CREATE_ADMIN_WALLET"
	AuditActionDeleteAdminWallet AuditAction = "DELETE_ADMIN_WALLET"
	AuditActionWalletCredit      AuditAction = "WALLET_CREDIT"
	AuditActionWalletDebit       AuditAction = "WALLET_DEBIT"
	AuditActionResolveRequest    AuditAction = "RESOLVE_REQUEST"
	AuditActionDeleteTransaction AuditAction = "DELETE_TRANSACTION"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	UserID       *uuid.UUID  `json:"user_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
