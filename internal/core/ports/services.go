package ports

import (
	"context"
	"time"

	"custodial-wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Wallet management ---

// CreateAdminWalletInput holds validated input for admin wallet creation.
type CreateAdminWalletInput struct {
	CurrencyAbbreviation   string
	Currency               string
	Logo                   string
	ClientReceivingAddress string
}

// UpdateAdminWalletInput holds a partial admin wallet update. Nil fields are
// left untouched.
type UpdateAdminWalletInput struct {
	CurrencyAbbreviation   *string
	Currency               *string
	Logo                   *string
	ClientReceivingAddress *string
}

// AdminWalletService manages the per-currency custodial pools.
type AdminWalletService interface {
	Create(ctx context.Context, in CreateAdminWalletInput) (*domain.AdminWallet, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateAdminWalletInput) (*domain.AdminWallet, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AdminWallet, error)
	List(ctx context.Context) ([]domain.AdminWallet, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateClientWalletInput holds validated input for client wallet creation.
type CreateClientWalletInput struct {
	ClientID      string
	AdminWalletID uuid.UUID
}

// MovementInput describes one credit or debit against a client wallet.
type MovementInput struct {
	AmountInUSD      decimal.Decimal
	Amount           string // native-currency quantity, opaque
	Fee              decimal.Decimal
	RecipientAddress string
	Status           *domain.TransactionStatus // nil = pending
	IsAdminCreated   bool
}

// ClientWalletDetail is the eager-loaded view of a client wallet.
type ClientWalletDetail struct {
	Wallet       domain.ClientWallet  `json:"wallet"`
	Client       *domain.Client       `json:"client,omitempty"`
	AdminWallet  *domain.AdminWallet  `json:"admin_wallet,omitempty"`
	Transactions []domain.Transaction `json:"transactions"`
}

// ClientWalletService manages per-client sub-ledgers and the credit/debit path.
type ClientWalletService interface {
	Create(ctx context.Context, in CreateClientWalletInput) (*domain.ClientWallet, error)
	// InitClientWallets provisions one wallet per existing admin wallet for a
	// client, skipping pairs that already exist.
	InitClientWallets(ctx context.Context, clientID string) ([]domain.ClientWallet, error)
	// Credit records a credit transaction; the balance moves only when
	// in.IsAdminCreated is set.
	Credit(ctx context.Context, clientWalletID uuid.UUID, in MovementInput) (*domain.Transaction, error)
	// Debit is Credit's mirror; an admin-created debit below zero is rejected
	// and the balance is unchanged.
	Debit(ctx context.Context, clientWalletID uuid.UUID, in MovementInput) (*domain.Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ClientWalletDetail, error)
	List(ctx context.Context) ([]domain.ClientWallet, error)
	ListByClientID(ctx context.Context, clientID string) ([]domain.ClientWallet, error)
}

// --- Ledger ---

// CreateTransactionInput holds validated input for direct transaction creation.
type CreateTransactionInput struct {
	ClientWalletID   uuid.UUID
	AmountInUSD      decimal.Decimal
	Amount           string
	Fee              decimal.Decimal
	RecipientAddress string
	Type             domain.TransactionType
	Status           *domain.TransactionStatus
	Date             *time.Time
}

// TransactionService manages ledger rows and their lifecycle.
type TransactionService interface {
	Create(ctx context.Context, in CreateTransactionInput) (*domain.Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
	ListByClientWallet(ctx context.Context, clientWalletID uuid.UUID) ([]domain.Transaction, error)
	// Delete removes a transaction and reverses its ledger effect if it had
	// moved the balance, atomically.
	Delete(ctx context.Context, id uuid.UUID) error
	// UpdateStatus applies the transaction's own effect exactly once when a
	// pending, non-admin-created row transitions to successful.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransactionStatus) (*domain.Transaction, error)
}

// CreateTransactionRequestInput holds input for a client transfer request.
type CreateTransactionRequestInput struct {
	ClientWalletID uuid.UUID
	AmountInUSD    decimal.Decimal
}

// TransactionRequestService manages the pending-approval workflow.
type TransactionRequestService interface {
	Create(ctx context.Context, in CreateTransactionRequestInput) (*domain.TransactionRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TransactionRequest, error)
	List(ctx context.Context) ([]domain.TransactionRequest, error)
	ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.TransactionRequest, error)
	// UpdateStatus is a no-op for an unchanged status, rejects transitions out
	// of terminal states, and credits the wallet when pending -> successful.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransactionStatus) (*domain.TransactionRequest, error)
}

// --- Clients ---

// CreateClientInput holds input for client creation.
type CreateClientInput struct {
	FirstName string
	LastName  string
	UserID    *uuid.UUID
	PIN       string
}

// UpdateClientInput holds a partial client update.
type UpdateClientInput struct {
	FirstName *string
	LastName  *string
}

// ClientRegistration is the creation result; the recovery phrase is shown once.
type ClientRegistration struct {
	Client         domain.Client        `json:"client"`
	RecoveryPhrase string               `json:"recovery_phrase"`
	Wallets        []domain.ClientWallet `json:"wallets"`
}

// ClientService manages wallet holders.
type ClientService interface {
	Create(ctx context.Context, in CreateClientInput) (*ClientRegistration, error)
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	Update(ctx context.Context, id string, in UpdateClientInput) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
}

// --- Authentication ---

// SignupInput holds input for account registration.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// AuthTokens is the login/refresh result.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	AccessExpiry time.Time
	User         *domain.User
}

// AuthService defines signup/login/verification/reset flows.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	AdminSignup(ctx context.Context, in SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*AuthTokens, error)
	VerifyEmail(ctx context.Context, email, code string) error
	ResendVerificationCode(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// TokenPurpose scopes a JWT to one flow; tokens are never interchangeable.
type TokenPurpose string

const (
	TokenPurposeAccess      TokenPurpose = "access"
	TokenPurposeRefresh     TokenPurpose = "refresh"
	TokenPurposeReset       TokenPurpose = "reset"
	TokenPurposeEmailVerify TokenPurpose = "email_verify"
)

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID  uuid.UUID
	Role    domain.UserRole
	Purpose TokenPurpose
	TokenID string // jti, used by the refresh allow-list
}

// TokenService handles JWT issuance and validation.
type TokenService interface {
	Generate(userID uuid.UUID, role domain.UserRole, purpose TokenPurpose) (token string, expiry time.Time, err error)
	Validate(token string, purpose TokenPurpose) (*TokenClaims, error)
}

// HashService handles password and PIN hashing.
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// Mailer delivers transactional email. Implementations must not block the
// request path on delivery failures beyond returning the error.
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, code string) error
	SendPasswordReset(ctx context.Context, to, resetToken string) error
}

// CodeStore keeps short-lived verification codes with attempt counters.
type CodeStore interface {
	Put(ctx context.Context, key, code string, ttl time.Duration) error
	// Get returns the stored code, or "" if absent/expired.
	Get(ctx context.Context, key string) (string, error)
	// IncrAttempts bumps and returns the failed-attempt counter for key.
	IncrAttempts(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Delete(ctx context.Context, key string) error
}

// RefreshTokenStore is the allow-list of live refresh tokens. Logout and
// rotation revoke entries; a refresh with a revoked token is rejected.
type RefreshTokenStore interface {
	Save(ctx context.Context, userID, tokenID string, ttl time.Duration) error
	IsLive(ctx context.Context, userID, tokenID string) (bool, error)
	Revoke(ctx context.Context, userID, tokenID string) error
}

// AuditService records audited actions.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
