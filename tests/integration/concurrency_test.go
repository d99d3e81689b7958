package integration

import (
	"net/http"
	"strconv"
	"sync"
	"testing"

	"custodial-wallet-service/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Racing approvals of the same transfer request must credit the wallet
// exactly once. Competitors past the first see an already-successful request,
// which is an idempotent no-op, so nobody fails and nobody double-credits.
func TestConcurrency_DoubleApprovalCreditsOnce(t *testing.T) {
	app := newTestApp(t)
	defer app.close()
	admin := app.tokenFor(t, domain.RoleAdmin)

	walletID := seedWallet(t, app, admin)

	status, envelope := app.do(t, http.MethodPost, "/api/transaction-requests", admin, map[string]interface{}{
		"client_wallet_id": walletID,
		"amount_in_usd":    "40",
	})
	require.Equal(t, http.StatusCreated, status)
	reqID := data(t, envelope)["id"].(string)

	const racers = 10
	statuses := make([]int, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code, _ := app.do(t, http.MethodPatch, "/api/transaction-requests/"+reqID+"/status", admin, map[string]string{
				"status": "successful",
			})
			statuses[i] = code
		}(i)
	}
	wg.Wait()

	for i, code := range statuses {
		assert.Equal(t, http.StatusOK, code, "racer %d", i)
	}

	status, envelope = app.do(t, http.MethodGet, "/api/client-wallets/"+walletID, admin, nil)
	require.Equal(t, http.StatusOK, status)
	wallet := data(t, envelope)["wallet"].(map[string]interface{})
	assert.Equal(t, "140", wallet["amount_in_usd"])
}

// Racing pending-to-successful transitions on one client-originated credit
// must apply its ledger effect exactly once. The row lock taken before the
// pending check means the losers see an already-successful row and no-op.
func TestConcurrency_StatusTransitionAppliesEffectOnce(t *testing.T) {
	app := newTestApp(t)
	defer app.close()
	admin := app.tokenFor(t, domain.RoleAdmin)

	walletID := seedWallet(t, app, admin) // balance 100

	status, envelope := app.do(t, http.MethodPost, "/api/transactions", admin, map[string]interface{}{
		"client_wallet_id": walletID,
		"amount_in_usd":    "50",
		"type":             "credit",
	})
	require.Equal(t, http.StatusCreated, status)
	txID := data(t, envelope)["id"].(string)

	const racers = 10
	statuses := make([]int, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code, _ := app.do(t, http.MethodPatch, "/api/transactions/"+txID+"/status", admin, map[string]string{
				"status": "successful",
			})
			statuses[i] = code
		}(i)
	}
	wg.Wait()

	for i, code := range statuses {
		assert.Equal(t, http.StatusOK, code, "racer %d", i)
	}

	status, envelope = app.do(t, http.MethodGet, "/api/client-wallets/"+walletID, admin, nil)
	require.Equal(t, http.StatusOK, status)
	wallet := data(t, envelope)["wallet"].(map[string]interface{})
	assert.Equal(t, "150", wallet["amount_in_usd"])
}

// Racing debits can never overdraw: the final balance equals the starting
// balance minus the debits that were accepted, and stays non-negative.
func TestConcurrency_DebitsNeverOverdraw(t *testing.T) {
	app := newTestApp(t)
	defer app.close()
	admin := app.tokenFor(t, domain.RoleAdmin)

	walletID := seedWallet(t, app, admin) // balance 100

	const racers = 10
	statuses := make([]int, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code, _ := app.do(t, http.MethodPost, "/api/client-wallets/"+walletID+"/debit", admin, map[string]interface{}{
				"amount_in_usd":    "30",
				"is_admin_created": true,
			})
			statuses[i] = code
		}(i)
	}
	wg.Wait()

	var accepted int
	for _, code := range statuses {
		switch code {
		case http.StatusCreated:
			accepted++
		case http.StatusConflict:
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	// 100 / 30 leaves room for exactly three debits
	assert.Equal(t, 3, accepted)

	status, envelope := app.do(t, http.MethodGet, "/api/client-wallets/"+walletID, admin, nil)
	require.Equal(t, http.StatusOK, status)
	wallet := data(t, envelope)["wallet"].(map[string]interface{})

	balance, err := decimal.NewFromString(wallet["amount_in_usd"].(string))
	require.NoError(t, err)
	expected := decimal.NewFromInt(100).Sub(decimal.NewFromInt(int64(accepted) * 30))
	assert.True(t, balance.Equal(expected), "balance %s, want %s", balance, expected)
	assert.False(t, balance.IsNegative())
}

// Concurrent credits all land; the ledger and the balance agree afterwards.
func TestConcurrency_CreditsAllApply(t *testing.T) {
	app := newTestApp(t)
	defer app.close()
	admin := app.tokenFor(t, domain.RoleAdmin)

	walletID := seedWallet(t, app, admin) // balance 100

	const racers = 8
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code, _ := app.do(t, http.MethodPost, "/api/client-wallets/"+walletID+"/credit", admin, map[string]interface{}{
				"amount_in_usd":    strconv.Itoa(i + 1),
				"is_admin_created": true,
			})
			if code != http.StatusCreated {
				t.Errorf("credit %d: status %d", i+1, code)
			}
		}(i)
	}
	wg.Wait()

	// 100 + (1 + 2 + ... + 8)
	status, envelope := app.do(t, http.MethodGet, "/api/client-wallets/"+walletID, admin, nil)
	require.Equal(t, http.StatusOK, status)
	wallet := data(t, envelope)["wallet"].(map[string]interface{})
	assert.Equal(t, "136", wallet["amount_in_usd"])
}
