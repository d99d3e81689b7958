package postgres

import (
	"context"
	"errors"
	"fmt"

	"custodial-wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AdminWalletRepo implements ports.AdminWalletRepository.
type AdminWalletRepo struct {
	pool Pool
}

// NewAdminWalletRepo creates a new AdminWalletRepo.
func NewAdminWalletRepo(pool Pool) *AdminWalletRepo {
	return &AdminWalletRepo{pool: pool}
}

const adminWalletColumns = `id, currency_abbreviation, currency, logo, address, client_receiving_address, created_at, updated_at`

func scanAdminWallet(row pgx.Row) (*domain.AdminWallet, error) {
	w := &domain.AdminWallet{}
	err := row.Scan(
		&w.ID, &w.CurrencyAbbreviation, &w.Currency, &w.Logo,
		&w.Address, &w.ClientReceivingAddress, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Create inserts a new admin wallet.
func (r *AdminWalletRepo) Create(ctx context.Context, w *domain.AdminWallet) error {
	query := `INSERT INTO admin_wallets (id, currency_abbreviation, currency, logo, address, client_receiving_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.CurrencyAbbreviation, w.Currency, w.Logo,
		w.Address, w.ClientReceivingAddress, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert admin wallet: %w", err)
	}
	return nil
}

// GetByID fetches an admin wallet by its UUID. Returns nil, nil when absent.
func (r *AdminWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AdminWallet, error) {
	query := `SELECT ` + adminWalletColumns + ` FROM admin_wallets WHERE id = $1`

	w, err := scanAdminWallet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin wallet by id: %w", err)
	}
	return w, nil
}

// GetByAddress fetches an admin wallet by its generated address.
func (r *AdminWalletRepo) GetByAddress(ctx context.Context, address string) (*domain.AdminWallet, error) {
	query := `SELECT ` + adminWalletColumns + ` FROM admin_wallets WHERE address = $1`

	w, err := scanAdminWallet(r.pool.QueryRow(ctx, query, address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin wallet by address: %w", err)
	}
	return w, nil
}

// List returns all admin wallets, newest first.
func (r *AdminWalletRepo) List(ctx context.Context) ([]domain.AdminWallet, error) {
	query := `SELECT ` + adminWalletColumns + ` FROM admin_wallets ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list admin wallets: %w", err)
	}
	defer rows.Close()

	var wallets []domain.AdminWallet
	for rows.Next() {
		w, err := scanAdminWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin wallet: %w", err)
		}
		wallets = append(wallets, *w)
	}
	return wallets, rows.Err()
}

// Update persists the mutable fields of an admin wallet.
func (r *AdminWalletRepo) Update(ctx context.Context, w *domain.AdminWallet) error {
	query := `UPDATE admin_wallets
		SET currency_abbreviation = $1, currency = $2, logo = $3, client_receiving_address = $4, updated_at = NOW()
		WHERE id = $5`

	tag, err := r.pool.Exec(ctx, query,
		w.CurrencyAbbreviation, w.Currency, w.Logo, w.ClientReceivingAddress, w.ID,
	)
	if err != nil {
		return fmt.Errorf("update admin wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("admin wallet not found: %s", w.ID)
	}
	return nil
}

// Delete removes an admin wallet row.
func (r *AdminWalletRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM admin_wallets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete admin wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("admin wallet not found: %s", id)
	}
	return nil
}
