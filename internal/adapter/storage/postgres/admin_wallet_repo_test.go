package postgres

import (
	"context"
	"testing"
	"time"

	"custodial-wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdminWallet() *domain.AdminWallet {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.AdminWallet{
		ID:                     uuid.New(),
		CurrencyAbbreviation:   "BTC",
		Currency:               "Bitcoin",
		Logo:                   "https://cdn.example.com/btc.png",
		Address:                "ADM_0x9f8e7d6c5b4a39281706f5e4d3c2b1a09876543210",
		ClientReceivingAddress: "bc1qrecv000000000000000000000000000000000",
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

func adminWalletRow(w *domain.AdminWallet) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "currency_abbreviation", "currency", "logo", "address", "client_receiving_address", "created_at", "updated_at",
	}).AddRow(
		w.ID, w.CurrencyAbbreviation, w.Currency, w.Logo,
		w.Address, w.ClientReceivingAddress, w.CreatedAt, w.UpdatedAt,
	)
}

func TestAdminWalletRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAdminWalletRepo(mock)
	w := newTestAdminWallet()

	mock.ExpectExec("INSERT INTO admin_wallets").
		WithArgs(w.ID, w.CurrencyAbbreviation, w.Currency, w.Logo,
			w.Address, w.ClientReceivingAddress, w.CreatedAt, w.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), w)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminWalletRepo_GetByAddress(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAdminWalletRepo(mock)
	w := newTestAdminWallet()

	mock.ExpectQuery("SELECT .+ FROM admin_wallets WHERE address").
		WithArgs(w.Address).
		WillReturnRows(adminWalletRow(w))

	result, err := repo.GetByAddress(context.Background(), w.Address)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, w.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminWalletRepo_GetByAddress_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAdminWalletRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM admin_wallets WHERE address").
		WithArgs("ADM_0xmissing").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "currency_abbreviation", "currency", "logo", "address", "client_receiving_address", "created_at", "updated_at",
		}))

	result, err := repo.GetByAddress(context.Background(), "ADM_0xmissing")
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminWalletRepo_Delete_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAdminWalletRepo(mock)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM admin_wallets").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = repo.Delete(context.Background(), id)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
