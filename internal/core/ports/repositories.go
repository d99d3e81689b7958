package ports

import (
	"context"

	"custodial-wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AdminWalletRepository defines persistence operations for admin wallets.
type AdminWalletRepository interface {
	Create(ctx context.Context, w *domain.AdminWallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AdminWallet, error)
	GetByAddress(ctx context.Context, address string) (*domain.AdminWallet, error)
	List(ctx context.Context) ([]domain.AdminWallet, error)
	Update(ctx context.Context, w *domain.AdminWallet) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClientRepository defines persistence operations for clients.
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	Update(ctx context.Context, c *domain.Client) error
	Delete(ctx context.Context, id string) error
}

// ClientWalletRepository defines persistence operations for client wallets.
// Methods accepting pgx.Tx run inside transaction blocks for pessimistic locking.
type ClientWalletRepository interface {
	Create(ctx context.Context, w *domain.ClientWallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ClientWallet, error)
	GetByPair(ctx context.Context, clientID string, adminWalletID uuid.UUID) (*domain.ClientWallet, error)
	List(ctx context.Context) ([]domain.ClientWallet, error)
	ListByClientID(ctx context.Context, clientID string) ([]domain.ClientWallet, error)
	CountByAdminWallet(ctx context.Context, adminWalletID uuid.UUID) (int64, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.ClientWallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, amountInUSD decimal.Decimal) error
}

// TransactionRepository defines persistence operations for ledger transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
	ListByClientWallet(ctx context.Context, clientWalletID uuid.UUID) ([]domain.Transaction, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus) error
	// Delete removes the row inside a transaction; deleting zero rows is an error.
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// TransactionRequestRepository defines persistence for transaction requests.
type TransactionRequestRepository interface {
	Create(ctx context.Context, r *domain.TransactionRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TransactionRequest, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.TransactionRequest, error)
	List(ctx context.Context) ([]domain.TransactionRequest, error)
	ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.TransactionRequest, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus) error
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetEmailVerified(ctx context.Context, id uuid.UUID) error
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
