package integration

import (
	"context"
	"fmt"
	"sync"

	"custodial-wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- In-memory admin wallet repo ---

type inMemoryAdminWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*domain.AdminWallet
}

func newInMemoryAdminWalletRepo() *inMemoryAdminWalletRepo {
	return &inMemoryAdminWalletRepo{wallets: make(map[uuid.UUID]*domain.AdminWallet)}
}

func (r *inMemoryAdminWalletRepo) Create(ctx context.Context, w *domain.AdminWallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.wallets {
		if existing.Address == w.Address {
			return fmt.Errorf("address already exists")
		}
	}
	cp := *w
	r.wallets[w.ID] = &cp
	return nil
}

func (r *inMemoryAdminWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AdminWallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *inMemoryAdminWalletRepo) GetByAddress(ctx context.Context, address string) (*domain.AdminWallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.Address == address {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryAdminWalletRepo) List(ctx context.Context) ([]domain.AdminWallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.AdminWallet, 0, len(r.wallets))
	for _, w := range r.wallets {
		out = append(out, *w)
	}
	return out, nil
}

func (r *inMemoryAdminWalletRepo) Update(ctx context.Context, w *domain.AdminWallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.wallets[w.ID]; !ok {
		return fmt.Errorf("admin wallet not found")
	}
	cp := *w
	r.wallets[w.ID] = &cp
	return nil
}

func (r *inMemoryAdminWalletRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.wallets[id]; !ok {
		return fmt.Errorf("admin wallet not found")
	}
	delete(r.wallets, id)
	return nil
}

// --- In-memory client repo ---

type inMemoryClientRepo struct {
	mu      sync.RWMutex
	clients map[string]*domain.Client
}

func newInMemoryClientRepo() *inMemoryClientRepo {
	return &inMemoryClientRepo{clients: make(map[string]*domain.Client)}
}

func (r *inMemoryClientRepo) Create(ctx context.Context, c *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *inMemoryClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *inMemoryClientRepo) List(ctx context.Context) ([]domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, *c)
	}
	return out, nil
}

func (r *inMemoryClientRepo) Update(ctx context.Context, c *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c.ID]; !ok {
		return fmt.Errorf("client not found")
	}
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *inMemoryClientRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; !ok {
		return fmt.Errorf("client not found")
	}
	delete(r.clients, id)
	return nil
}

// --- In-memory client wallet repo ---

type inMemoryClientWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*domain.ClientWallet
}

func newInMemoryClientWalletRepo() *inMemoryClientWalletRepo {
	return &inMemoryClientWalletRepo{wallets: make(map[uuid.UUID]*domain.ClientWallet)}
}

func (r *inMemoryClientWalletRepo) Create(ctx context.Context, w *domain.ClientWallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.wallets {
		if existing.ClientID == w.ClientID && existing.AdminWalletID == w.AdminWalletID {
			return fmt.Errorf("wallet pair already exists")
		}
	}
	cp := *w
	r.wallets[w.ID] = &cp
	return nil
}

func (r *inMemoryClientWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClientWallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *inMemoryClientWalletRepo) GetByPair(ctx context.Context, clientID string, adminWalletID uuid.UUID) (*domain.ClientWallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.ClientID == clientID && w.AdminWalletID == adminWalletID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryClientWalletRepo) List(ctx context.Context) ([]domain.ClientWallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ClientWallet, 0, len(r.wallets))
	for _, w := range r.wallets {
		out = append(out, *w)
	}
	return out, nil
}

func (r *inMemoryClientWalletRepo) ListByClientID(ctx context.Context, clientID string) ([]domain.ClientWallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.ClientWallet
	for _, w := range r.wallets {
		if w.ClientID == clientID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *inMemoryClientWalletRepo) CountByAdminWallet(ctx context.Context, adminWalletID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, w := range r.wallets {
		if w.AdminWalletID == adminWalletID {
			n++
		}
	}
	return n, nil
}

func (r *inMemoryClientWalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.ClientWallet, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryClientWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, amountInUSD decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return fmt.Errorf("client wallet not found")
	}
	w.AmountInUSD = amountInUSD
	return nil
}

// --- In-memory transaction repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]*domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{transactions: make(map[uuid.UUID]*domain.Transaction)}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.transactions[t.ID] = &cp
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transactions[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *inMemoryTransactionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryTransactionRepo) List(ctx context.Context) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Transaction, 0, len(r.transactions))
	for _, t := range r.transactions {
		out = append(out, *t)
	}
	return out, nil
}

func (r *inMemoryTransactionRepo) ListByClientWallet(ctx context.Context, clientWalletID uuid.UUID) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Transaction
	for _, t := range r.transactions {
		if t.ClientWalletID == clientWalletID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *inMemoryTransactionRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[id]
	if !ok {
		return fmt.Errorf("transaction not found")
	}
	t.Status = status
	return nil
}

func (r *inMemoryTransactionRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transactions[id]; !ok {
		return fmt.Errorf("transaction not found")
	}
	delete(r.transactions, id)
	return nil
}

// --- In-memory transaction request repo ---

type inMemoryTransactionRequestRepo struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]*domain.TransactionRequest
}

func newInMemoryTransactionRequestRepo() *inMemoryTransactionRequestRepo {
	return &inMemoryTransactionRequestRepo{requests: make(map[uuid.UUID]*domain.TransactionRequest)}
}

func (r *inMemoryTransactionRequestRepo) Create(ctx context.Context, req *domain.TransactionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *inMemoryTransactionRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TransactionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (r *inMemoryTransactionRequestRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.TransactionRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryTransactionRequestRepo) List(ctx context.Context) ([]domain.TransactionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.TransactionRequest, 0, len(r.requests))
	for _, req := range r.requests {
		out = append(out, *req)
	}
	return out, nil
}

func (r *inMemoryTransactionRequestRepo) ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.TransactionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.TransactionRequest
	for _, req := range r.requests {
		if req.Status == status {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *inMemoryTransactionRequestRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return fmt.Errorf("transaction request not found")
	}
	req.Status = status
	return nil
}

// --- In-memory user repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return fmt.Errorf("email already exists")
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *inMemoryUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *inMemoryUserRepo) SetEmailVerified(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.IsEmailVerified = true
	return nil
}

// --- In-memory audit repo ---

type inMemoryAuditRepo struct {
	mu      sync.RWMutex
	entries []*domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

// --- In-memory capturing mailer ---

type inMemoryMailer struct {
	mu    sync.Mutex
	codes map[string]string // email -> last verification code
}

func newInMemoryMailer() *inMemoryMailer {
	return &inMemoryMailer{codes: make(map[string]string)}
}

func (m *inMemoryMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[to] = code
	return nil
}

func (m *inMemoryMailer) SendPasswordReset(ctx context.Context, to, resetToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[to] = resetToken
	return nil
}

func (m *inMemoryMailer) lastCode(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

// --- Serializing transactor ---

// inMemoryTransactor serialises every unit of work behind one mutex,
// standing in for the row locks the SQL repositories take.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &serialTx{release: t.mu.Unlock}, nil
}

// serialTx releases the transactor mutex exactly once, on Commit or the
// deferred Rollback, whichever comes first.
type serialTx struct {
	mu      sync.Mutex
	done    bool
	release func()
}

func (t *serialTx) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.done {
		t.done = true
		t.release()
	}
}

func (t *serialTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *serialTx) Commit(ctx context.Context) error          { t.finish(); return nil }
func (t *serialTx) Rollback(ctx context.Context) error        { t.finish(); return nil }
func (t *serialTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *serialTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *serialTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *serialTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *serialTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *serialTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *serialTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *serialTx) Conn() *pgx.Conn { return nil }
