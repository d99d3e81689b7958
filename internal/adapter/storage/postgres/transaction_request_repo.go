package postgres

import (
	"context"
	"errors"
	"fmt"

	"custodial-wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRequestRepo implements ports.TransactionRequestRepository.
type TransactionRequestRepo struct {
	pool Pool
}

// NewTransactionRequestRepo creates a new TransactionRequestRepo.
func NewTransactionRequestRepo(pool Pool) *TransactionRequestRepo {
	return &TransactionRequestRepo{pool: pool}
}

const requestColumns = `id, client_wallet_id, amount_in_usd, status, created_at, updated_at`

func scanRequest(row pgx.Row) (*domain.TransactionRequest, error) {
	req := &domain.TransactionRequest{}
	err := row.Scan(
		&req.ID, &req.ClientWalletID, &req.AmountInUSD,
		&req.Status, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Create inserts a new transaction request.
func (r *TransactionRequestRepo) Create(ctx context.Context, req *domain.TransactionRequest) error {
	query := `INSERT INTO transaction_requests (id, client_wallet_id, amount_in_usd, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		req.ID, req.ClientWalletID, req.AmountInUSD, req.Status, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction request: %w", err)
	}
	return nil
}

// GetByID fetches a request by its UUID. Returns nil, nil when absent.
func (r *TransactionRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TransactionRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM transaction_requests WHERE id = $1`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction request by id: %w", err)
	}
	return req, nil
}

// GetByIDForUpdate fetches a request with pessimistic locking so that the
// approval path re-checks the status under the lock.
// This MUST be called within a transaction.
func (r *TransactionRequestRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.TransactionRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM transaction_requests WHERE id = $1 FOR UPDATE`

	req, err := scanRequest(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction request for update: %w", err)
	}
	return req, nil
}

// List returns all transaction requests, newest first.
func (r *TransactionRequestRepo) List(ctx context.Context) ([]domain.TransactionRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM transaction_requests ORDER BY created_at DESC`
	return r.queryRequests(ctx, query)
}

// ListByStatus returns all requests in one status, newest first.
func (r *TransactionRequestRepo) ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.TransactionRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM transaction_requests WHERE status = $1 ORDER BY created_at DESC`
	return r.queryRequests(ctx, query, status)
}

func (r *TransactionRequestRepo) queryRequests(ctx context.Context, query string, args ...any) ([]domain.TransactionRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transaction requests: %w", err)
	}
	defer rows.Close()

	var reqs []domain.TransactionRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction request: %w", err)
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

// UpdateStatus sets a request's status within a database transaction.
func (r *TransactionRequestRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus) error {
	query := `UPDATE transaction_requests SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update transaction request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction request not found: %s", id)
	}
	return nil
}
