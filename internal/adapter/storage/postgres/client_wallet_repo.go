package postgres

import (
	"context"
	"errors"
	"fmt"

	"custodial-wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ClientWalletRepo implements ports.ClientWalletRepository.
type ClientWalletRepo struct {
	pool Pool
}

// NewClientWalletRepo creates a new ClientWalletRepo.
func NewClientWalletRepo(pool Pool) *ClientWalletRepo {
	return &ClientWalletRepo{pool: pool}
}

const clientWalletColumns = `id, admin_wallet_id, client_id, address, amount_in_usd, created_at, updated_at`

func scanClientWallet(row pgx.Row) (*domain.ClientWallet, error) {
	w := &domain.ClientWallet{}
	err := row.Scan(
		&w.ID, &w.AdminWalletID, &w.ClientID, &w.Address,
		&w.AmountInUSD, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Create inserts a new client wallet.
func (r *ClientWalletRepo) Create(ctx context.Context, w *domain.ClientWallet) error {
	query := `INSERT INTO client_wallets (id, admin_wallet_id, client_id, address, amount_in_usd, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.AdminWalletID, w.ClientID, w.Address,
		w.AmountInUSD, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client wallet: %w", err)
	}
	return nil
}

// GetByID fetches a client wallet by its UUID (without locking).
func (r *ClientWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClientWallet, error) {
	query := `SELECT ` + clientWalletColumns + ` FROM client_wallets WHERE id = $1`

	w, err := scanClientWallet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client wallet by id: %w", err)
	}
	return w, nil
}

// GetByPair fetches the wallet for one (client, currency) pair.
func (r *ClientWalletRepo) GetByPair(ctx context.Context, clientID string, adminWalletID uuid.UUID) (*domain.ClientWallet, error) {
	query := `SELECT ` + clientWalletColumns + ` FROM client_wallets WHERE client_id = $1 AND admin_wallet_id = $2`

	w, err := scanClientWallet(r.pool.QueryRow(ctx, query, clientID, adminWalletID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client wallet by pair: %w", err)
	}
	return w, nil
}

// List returns all client wallets.
func (r *ClientWalletRepo) List(ctx context.Context) ([]domain.ClientWallet, error) {
	query := `SELECT ` + clientWalletColumns + ` FROM client_wallets ORDER BY created_at DESC`
	return r.queryWallets(ctx, query)
}

// ListByClientID returns all wallets owned by one client.
func (r *ClientWalletRepo) ListByClientID(ctx context.Context, clientID string) ([]domain.ClientWallet, error) {
	query := `SELECT ` + clientWalletColumns + ` FROM client_wallets WHERE client_id = $1 ORDER BY created_at DESC`
	return r.queryWallets(ctx, query, clientID)
}

func (r *ClientWalletRepo) queryWallets(ctx context.Context, query string, args ...any) ([]domain.ClientWallet, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list client wallets: %w", err)
	}
	defer rows.Close()

	var wallets []domain.ClientWallet
	for rows.Next() {
		w, err := scanClientWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client wallet: %w", err)
		}
		wallets = append(wallets, *w)
	}
	return wallets, rows.Err()
}

// CountByAdminWallet counts wallets referencing an admin wallet. Used to
// refuse admin wallet deletion while references exist.
func (r *ClientWalletRepo) CountByAdminWallet(ctx context.Context, adminWalletID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM client_wallets WHERE admin_wallet_id = $1`, adminWalletID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count client wallets by admin wallet: %w", err)
	}
	return count, nil
}

// GetByIDForUpdate fetches a client wallet with pessimistic locking.
// This MUST be called within a transaction.
func (r *ClientWalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.ClientWallet, error) {
	query := `SELECT ` + clientWalletColumns + ` FROM client_wallets WHERE id = $1 FOR UPDATE`

	w, err := scanClientWallet(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client wallet for update: %w", err)
	}
	return w, nil
}

// UpdateBalance sets a wallet's USD balance within a transaction.
func (r *ClientWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, amountInUSD decimal.Decimal) error {
	query := `UPDATE client_wallets SET amount_in_usd = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, amountInUSD, walletID)
	if err != nil {
		return fmt.Errorf("update client wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client wallet not found: %s", walletID)
	}
	return nil
}
