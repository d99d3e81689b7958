package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"custodial-wallet-service/internal/adapter/http/dto"
	"custodial-wallet-service/internal/core/domain"
	"custodial-wallet-service/internal/core/ports"
	"custodial-wallet-service/internal/core/ports/mocks"
	"custodial-wallet-service/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonRequest(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func envelopeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, true, resp["success"])
	data, _ := resp["data"].(map[string]interface{})
	return data
}

// --- Auth handler tests ---

func TestSignup_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth, "", 168*time.Hour)

	userID := uuid.New()
	mockAuth.EXPECT().Signup(gomock.Any(), ports.SignupInput{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "password123",
	}).Return(&domain.User{
		ID:       userID,
		Username: "ada",
		Email:    "ada@example.com",
		Role:     domain.RoleClient,
	}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/api/auth/signup", dto.SignupRequest{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "password123",
	})
	h.Signup(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := envelopeData(t, w)
	assert.Equal(t, userID.String(), data["id"])
	assert.Equal(t, "client", data["role"])
}

func TestSignup_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth, "", 168*time.Hour)

	w, c := jsonRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "ada",
		"email":    "not-an-email",
		"password": "password123",
	})
	h.Signup(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.NotEmpty(t, resp["errors"])
}

func TestSignup_EmailExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth, "", 168*time.Hour)

	mockAuth.EXPECT().Signup(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrEmailExists())

	w, c := jsonRequest(t, http.MethodPost, "/api/auth/signup", dto.SignupRequest{
		Username: "ada",
		Email:    "taken@example.com",
		Password: "password123",
	})
	h.Signup(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_SetsRefreshCookie(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth, "", 168*time.Hour)

	expiry := time.Now().Add(15 * time.Minute)
	mockAuth.EXPECT().Login(gomock.Any(), "ada@example.com", "password123").Return(&ports.AuthTokens{
		AccessToken:  "access-jwt",
		RefreshToken: "refresh-jwt",
		AccessExpiry: expiry,
	}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{
		Email:    "ada@example.com",
		Password: "password123",
	})
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := envelopeData(t, w)
	assert.Equal(t, "access-jwt", data["access_token"])

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, refreshCookieName, cookies[0].Name)
	assert.Equal(t, "refresh-jwt", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, refreshCookiePath, cookies[0].Path)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth, "", 168*time.Hour)

	mockAuth.EXPECT().Login(gomock.Any(), "ada@example.com", "wrong").Return(nil, apperror.ErrInvalidCredentials())

	w, c := jsonRequest(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefresh_MissingCookie(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth, "", 168*time.Hour)

	w, c := jsonRequest(t, http.MethodPost, "/api/auth/refresh", nil)
	h.Refresh(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefresh_RotatesCookie(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth, "", 168*time.Hour)

	mockAuth.EXPECT().Refresh(gomock.Any(), "old-refresh").Return(&ports.AuthTokens{
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
		AccessExpiry: time.Now().Add(15 * time.Minute),
	}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/api/auth/refresh", nil)
	c.Request.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "old-refresh"})
	h.Refresh(c)

	assert.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "new-refresh", cookies[0].Value)
}

func TestLogout_ClearsCookie(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth, "", 168*time.Hour)

	mockAuth.EXPECT().Logout(gomock.Any(), "live-refresh").Return(nil)

	w, c := jsonRequest(t, http.MethodPost, "/api/auth/logout", nil)
	c.Request.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "live-refresh"})
	h.Logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

// --- Admin wallet handler tests ---

func TestAdminWalletCreate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockAdminWalletService(ctrl)
	h := NewAdminWalletHandler(mockSvc)

	walletID := uuid.New()
	mockSvc.EXPECT().Create(gomock.Any(), ports.CreateAdminWalletInput{
		CurrencyAbbreviation: "BTC",
		Currency:             "Bitcoin",
	}).Return(&domain.AdminWallet{
		ID:                   walletID,
		CurrencyAbbreviation: "BTC",
		Currency:             "Bitcoin",
		Address:              "ADM_0xabc",
	}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/api/admin-wallets", dto.CreateAdminWalletRequest{
		CurrencyAbbreviation: "BTC",
		Currency:             "Bitcoin",
	})
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := envelopeData(t, w)
	assert.Equal(t, walletID.String(), data["id"])
}

func TestAdminWalletCreate_UnknownCurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockAdminWalletService(ctrl)
	h := NewAdminWalletHandler(mockSvc)

	mockSvc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrUnknownCurrency("DOGE"))

	w, c := jsonRequest(t, http.MethodPost, "/api/admin-wallets", dto.CreateAdminWalletRequest{
		CurrencyAbbreviation: "DOGE",
		Currency:             "Dogecoin",
	})
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminWalletGetByID_MalformedID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockAdminWalletService(ctrl)
	h := NewAdminWalletHandler(mockSvc)

	w, c := jsonRequest(t, http.MethodGet, "/api/admin-wallets/not-a-uuid", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Client wallet handler tests ---

func TestClientWalletCredit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockClientWalletService(ctrl)
	h := NewClientWalletHandler(mockSvc)

	walletID := uuid.New()
	txID := uuid.New()
	mockSvc.EXPECT().Credit(gomock.Any(), walletID, gomock.Cond(func(_x any) bool {
		in := _x.(ports.MovementInput)
		return in.AmountInUSD.Equal(decimal.RequireFromString("100.50")) && in.IsAdminCreated
	})).Return(&domain.Transaction{
		ID:             txID,
		ClientWalletID: walletID,
		Type:           domain.TransactionTypeCredit,
		Status:         domain.TransactionStatusPending,
	}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/api/client-wallets/"+walletID.String()+"/credit", dto.MovementRequest{
		AmountInUSD:    decimal.RequireFromString("100.50"),
		IsAdminCreated: true,
	})
	c.Params = gin.Params{{Key: "id", Value: walletID.String()}}
	h.Credit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := envelopeData(t, w)
	assert.Equal(t, txID.String(), data["id"])
}

func TestClientWalletDebit_InsufficientBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockClientWalletService(ctrl)
	h := NewClientWalletHandler(mockSvc)

	walletID := uuid.New()
	mockSvc.EXPECT().Debit(gomock.Any(), walletID, gomock.Any()).Return(nil, apperror.ErrInsufficientBalance())

	w, c := jsonRequest(t, http.MethodPost, "/api/client-wallets/"+walletID.String()+"/debit", dto.MovementRequest{
		AmountInUSD:    decimal.RequireFromString("9999"),
		IsAdminCreated: true,
	})
	c.Params = gin.Params{{Key: "id", Value: walletID.String()}}
	h.Debit(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestClientWalletGetByID_Detail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockClientWalletService(ctrl)
	h := NewClientWalletHandler(mockSvc)

	walletID := uuid.New()
	mockSvc.EXPECT().GetByID(gomock.Any(), walletID).Return(&ports.ClientWalletDetail{
		Wallet:       domain.ClientWallet{ID: walletID, ClientID: "CLT_abc123def456"},
		Transactions: []domain.Transaction{},
	}, nil)

	w, c := jsonRequest(t, http.MethodGet, "/api/client-wallets/"+walletID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: walletID.String()}}
	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := envelopeData(t, w)
	wallet := data["wallet"].(map[string]interface{})
	assert.Equal(t, walletID.String(), wallet["id"])
}

// --- Transaction handler tests ---

func TestTransactionDelete_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockTransactionService(ctrl)
	h := NewTransactionHandler(mockSvc)

	txID := uuid.New()
	mockSvc.EXPECT().Delete(gomock.Any(), txID).Return(nil)

	w, c := jsonRequest(t, http.MethodDelete, "/api/transactions/"+txID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: txID.String()}}
	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTransactionUpdateStatus_Terminal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockTransactionService(ctrl)
	h := NewTransactionHandler(mockSvc)

	txID := uuid.New()
	mockSvc.EXPECT().UpdateStatus(gomock.Any(), txID, domain.TransactionStatusPending).Return(nil, apperror.ErrTerminalStatus())

	w, c := jsonRequest(t, http.MethodPatch, "/api/transactions/"+txID.String()+"/status", dto.UpdateStatusRequest{
		Status: "pending",
	})
	c.Params = gin.Params{{Key: "id", Value: txID.String()}}
	h.UpdateStatus(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTransactionUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockTransactionService(ctrl)
	h := NewTransactionHandler(mockSvc)

	txID := uuid.New()
	w, c := jsonRequest(t, http.MethodPatch, "/api/transactions/"+txID.String()+"/status", map[string]string{
		"status": "reversed",
	})
	c.Params = gin.Params{{Key: "id", Value: txID.String()}}
	h.UpdateStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Transaction request handler tests ---

func TestTransactionRequestCreate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockTransactionRequestService(ctrl)
	h := NewTransactionRequestHandler(mockSvc)

	walletID := uuid.New()
	reqID := uuid.New()
	mockSvc.EXPECT().Create(gomock.Any(), gomock.Cond(func(_x any) bool {
		in := _x.(ports.CreateTransactionRequestInput)
		return in.ClientWalletID == walletID && in.AmountInUSD.Equal(decimal.NewFromInt(50))
	})).Return(&domain.TransactionRequest{
		ID:             reqID,
		ClientWalletID: walletID,
		AmountInUSD:    decimal.NewFromInt(50),
		Status:         domain.TransactionStatusPending,
	}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/api/transaction-requests", dto.CreateTransferRequest{
		ClientWalletID: walletID,
		AmountInUSD:    decimal.NewFromInt(50),
	})
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := envelopeData(t, w)
	assert.Equal(t, "pending", data["status"])
}

func TestTransactionRequestApprove_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockTransactionRequestService(ctrl)
	h := NewTransactionRequestHandler(mockSvc)

	reqID := uuid.New()
	mockSvc.EXPECT().UpdateStatus(gomock.Any(), reqID, domain.TransactionStatusSuccessful).Return(&domain.TransactionRequest{
		ID:     reqID,
		Status: domain.TransactionStatusSuccessful,
	}, nil)

	w, c := jsonRequest(t, http.MethodPatch, "/api/transaction-requests/"+reqID.String()+"/status", dto.UpdateStatusRequest{
		Status: "successful",
	})
	c.Params = gin.Params{{Key: "id", Value: reqID.String()}}
	h.UpdateStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := envelopeData(t, w)
	assert.Equal(t, "successful", data["status"])
}

// --- Client handler tests ---

func TestClientCreate_ReturnsRecoveryPhraseOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockClientService(ctrl)
	h := NewClientHandler(mockSvc)

	mockSvc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&ports.ClientRegistration{
		Client:         domain.Client{ID: "CLT_a1b2c3d4e5f6", FirstName: "Ada", LastName: "Lovelace"},
		RecoveryPhrase: "apple bread cloud dance eagle frost grape honey igloo jazz koala lemon",
		Wallets:        []domain.ClientWallet{},
	}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/api/clients", dto.CreateClientRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		PIN:       "1234",
	})
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := envelopeData(t, w)
	assert.NotEmpty(t, data["recovery_phrase"])
}

// --- Health check test ---

func TestHealthCheck_NoCheckers(t *testing.T) {
	w, c := jsonRequest(t, http.MethodGet, "/health", nil)
	HealthCheck()(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}
