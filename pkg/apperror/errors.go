package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Generic CRUD (GEN) ----

// NotFound reports a missing entity: "admin wallet", "client wallet", etc.
func NotFound(entity string) *AppError {
	return New("GEN_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// Conflict reports a uniqueness or referential conflict.
func Conflict(message string) *AppError {
	return New("GEN_002", message, http.StatusConflict)
}

// Validation reports a rejected request body or parameter.
func Validation(message string) *AppError {
	return New("GEN_003", message, http.StatusBadRequest)
}

// ---- Wallet & Ledger (WAL) ----

func ErrInsufficientBalance() *AppError {
	return New("WAL_001", "Debit would take wallet balance below zero", http.StatusConflict)
}

func ErrInvalidAmount() *AppError {
	return New("WAL_002", "Amount must be a positive number", http.StatusBadRequest)
}

func ErrUnknownCurrency(abbr string) *AppError {
	return New("WAL_003", fmt.Sprintf("Currency abbreviation %q is not supported", abbr), http.StatusBadRequest)
}

func ErrDuplicateWallet() *AppError {
	return New("WAL_004", "Client already has a wallet for this currency", http.StatusConflict)
}

func ErrAdminWalletInUse() *AppError {
	return New("WAL_005", "Admin wallet is referenced by client wallets", http.StatusConflict)
}

// ---- Transactions & Requests (TXN) ----

func ErrInvalidStatus(status string) *AppError {
	return New("TXN_001", fmt.Sprintf("Invalid status %q", status), http.StatusBadRequest)
}

func ErrTerminalStatus() *AppError {
	return New("TXN_002", "Record is in a terminal status and cannot change", http.StatusConflict)
}

func ErrReversalBelowZero() *AppError {
	return New("TXN_003", "Reversing this transaction would take the wallet balance below zero", http.StatusConflict)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New("AUTH_002", "Email already registered", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New("AUTH_004", "Insufficient role for this operation", http.StatusForbidden)
}

func ErrEmailNotVerified() *AppError {
	return New("AUTH_005", "Email address has not been verified", http.StatusForbidden)
}

func ErrInvalidVerificationCode() *AppError {
	return New("AUTH_006", "Verification code is invalid or expired", http.StatusBadRequest)
}

func ErrTooManyAttempts() *AppError {
	return New("AUTH_007", "Too many verification attempts, request a new code", http.StatusTooManyRequests)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
