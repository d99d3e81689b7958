package postgres

import (
	"context"
	"errors"
	"fmt"

	"custodial-wallet-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ClientRepo implements ports.ClientRepository.
type ClientRepo struct {
	pool Pool
}

// NewClientRepo creates a new ClientRepo.
func NewClientRepo(pool Pool) *ClientRepo {
	return &ClientRepo{pool: pool}
}

const clientColumns = `id, first_name, last_name, user_id, pin_hash, recovery_phrase, created_at, updated_at`

func scanClient(row pgx.Row) (*domain.Client, error) {
	c := &domain.Client{}
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.UserID,
		&c.PINHash, &c.RecoveryPhrase, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new client.
func (r *ClientRepo) Create(ctx context.Context, c *domain.Client) error {
	query := `INSERT INTO clients (id, first_name, last_name, user_id, pin_hash, recovery_phrase, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.FirstName, c.LastName, c.UserID,
		c.PINHash, c.RecoveryPhrase, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID fetches a client by its string id. Returns nil, nil when absent.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	c, err := scanClient(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client by id: %w", err)
	}
	return c, nil
}

// List returns all clients.
func (r *ClientRepo) List(ctx context.Context) ([]domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

// Update persists the mutable fields of a client.
func (r *ClientRepo) Update(ctx context.Context, c *domain.Client) error {
	query := `UPDATE clients SET first_name = $1, last_name = $2, updated_at = NOW() WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, c.FirstName, c.LastName, c.ID)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client not found: %s", c.ID)
	}
	return nil
}

// Delete removes a client row.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client not found: %s", id)
	}
	return nil
}
