package postgres

import (
	"context"
	"testing"
	"time"

	"custodial-wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequest() *domain.TransactionRequest {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.TransactionRequest{
		ID:             uuid.New(),
		ClientWalletID: uuid.New(),
		AmountInUSD:    decimal.NewFromFloat(50.00),
		Status:         domain.TransactionStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func requestRow(r *domain.TransactionRequest) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "client_wallet_id", "amount_in_usd", "status", "created_at", "updated_at",
	}).AddRow(r.ID, r.ClientWalletID, r.AmountInUSD, r.Status, r.CreatedAt, r.UpdatedAt)
}

func TestTransactionRequestRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRequestRepo(mock)
	req := newTestRequest()

	mock.ExpectExec("INSERT INTO transaction_requests").
		WithArgs(req.ID, req.ClientWalletID, req.AmountInUSD, req.Status, req.CreatedAt, req.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), req)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRequestRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRequestRepo(mock)
	req := newTestRequest()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM transaction_requests WHERE id .+ FOR UPDATE").
		WithArgs(req.ID).
		WillReturnRows(requestRow(req))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByIDForUpdate(context.Background(), tx, req.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, req.ID, result.ID)
	assert.Equal(t, domain.TransactionStatusPending, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRequestRepo_ListByStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRequestRepo(mock)
	req := newTestRequest()

	mock.ExpectQuery("SELECT .+ FROM transaction_requests WHERE status").
		WithArgs(domain.TransactionStatusPending).
		WillReturnRows(requestRow(req))

	result, err := repo.ListByStatus(context.Background(), domain.TransactionStatusPending)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, req.ID, result[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRequestRepo_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRequestRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE transaction_requests SET status").
		WithArgs(domain.TransactionStatusSuccessful, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateStatus(context.Background(), tx, id, domain.TransactionStatusSuccessful)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
