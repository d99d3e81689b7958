package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"custodial-wallet-service/internal/core/domain"
	"custodial-wallet-service/internal/core/ports"
	"custodial-wallet-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ClientWalletServiceImpl implements ports.ClientWalletService.
type ClientWalletServiceImpl struct {
	walletRepo      ports.ClientWalletRepository
	adminWalletRepo ports.AdminWalletRepository
	clientRepo      ports.ClientRepository
	txRepo          ports.TransactionRepository
	transactor      ports.DBTransactor
	log             zerolog.Logger
}

// NewClientWalletService creates a new ClientWalletServiceImpl.
func NewClientWalletService(
	walletRepo ports.ClientWalletRepository,
	adminWalletRepo ports.AdminWalletRepository,
	clientRepo ports.ClientRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *ClientWalletServiceImpl {
	return &ClientWalletServiceImpl{
		walletRepo:      walletRepo,
		adminWalletRepo: adminWalletRepo,
		clientRepo:      clientRepo,
		txRepo:          txRepo,
		transactor:      transactor,
		log:             log,
	}
}

// Create provisions one client wallet against an admin wallet. The deposit
// address is inherited from the admin wallet's client receiving address.
func (s *ClientWalletServiceImpl) Create(ctx context.Context, in ports.CreateClientWalletInput) (*domain.ClientWallet, error) {
	client, err := s.clientRepo.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find client: %w", err))
	}
	if client == nil {
		return nil, apperror.NotFound("client")
	}

	adminWallet, err := s.adminWalletRepo.GetByID(ctx, in.AdminWalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find admin wallet: %w", err))
	}
	if adminWallet == nil {
		return nil, apperror.NotFound("admin wallet")
	}

	existing, err := s.walletRepo.GetByPair(ctx, in.ClientID, in.AdminWalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check wallet pair: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateWallet()
	}

	now := time.Now().UTC()
	wallet := &domain.ClientWallet{
		ID:            uuid.New(),
		AdminWalletID: adminWallet.ID,
		ClientID:      client.ID,
		Address:       adminWallet.ClientReceivingAddress,
		AmountInUSD:   decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create client wallet: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("client_id", client.ID).
		Str("currency", adminWallet.CurrencyAbbreviation).
		Msg("client wallet created")

	return wallet, nil
}

// InitClientWallets provisions one wallet per admin wallet for a client,
// skipping currency pairs the client already holds.
func (s *ClientWalletServiceImpl) InitClientWallets(ctx context.Context, clientID string) ([]domain.ClientWallet, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find client: %w", err))
	}
	if client == nil {
		return nil, apperror.NotFound("client")
	}

	adminWallets, err := s.adminWalletRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list admin wallets: %w", err))
	}

	created := make([]domain.ClientWallet, 0, len(adminWallets))
	now := time.Now().UTC()
	for _, aw := range adminWallets {
		existing, err := s.walletRepo.GetByPair(ctx, clientID, aw.ID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("check wallet pair: %w", err))
		}
		if existing != nil {
			continue
		}

		wallet := domain.ClientWallet{
			ID:            uuid.New(),
			AdminWalletID: aw.ID,
			ClientID:      clientID,
			Address:       aw.ClientReceivingAddress,
			AmountInUSD:   decimal.Zero,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.walletRepo.Create(ctx, &wallet); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create client wallet: %w", err))
		}
		created = append(created, wallet)
	}

	s.log.Info().
		Str("client_id", clientID).
		Int("wallets_created", len(created)).
		Msg("client wallets initialized")

	return created, nil
}

// Credit records a credit transaction against a client wallet.
func (s *ClientWalletServiceImpl) Credit(ctx context.Context, clientWalletID uuid.UUID, in ports.MovementInput) (*domain.Transaction, error) {
	return s.move(ctx, clientWalletID, domain.TransactionTypeCredit, in)
}

// Debit records a debit transaction against a client wallet.
func (s *ClientWalletServiceImpl) Debit(ctx context.Context, clientWalletID uuid.UUID, in ports.MovementInput) (*domain.Transaction, error) {
	return s.move(ctx, clientWalletID, domain.TransactionTypeDebit, in)
}

// move runs the shared credit/debit path: lock the wallet, mutate the balance
// when the movement is admin-created, and record the ledger row atomically.
func (s *ClientWalletServiceImpl) move(ctx context.Context, clientWalletID uuid.UUID, txType domain.TransactionType, in ports.MovementInput) (*domain.Transaction, error) {
	if !in.AmountInUSD.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if in.Fee.IsNegative() {
		return nil, apperror.ErrInvalidAmount()
	}

	status := domain.TransactionStatusPending
	if in.Status != nil {
		if !domain.IsValidTransactionStatus(*in.Status) {
			return nil, apperror.ErrInvalidStatus(string(*in.Status))
		}
		status = *in.Status
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, clientWalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.NotFound("client wallet")
	}

	if in.IsAdminCreated {
		newBalance, err := domain.NewBalance(wallet.AmountInUSD, in.AmountInUSD, txType)
		if err != nil {
			if errors.Is(err, domain.ErrBalanceBelowZero) {
				return nil, apperror.ErrInsufficientBalance()
			}
			return nil, apperror.InternalError(fmt.Errorf("compute balance: %w", err))
		}
		if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
		}
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:               uuid.New(),
		ClientWalletID:   wallet.ID,
		AdminWalletID:    wallet.AdminWalletID,
		AmountInUSD:      in.AmountInUSD.Round(2),
		Amount:           in.Amount,
		Fee:              in.Fee.Round(2),
		RecipientAddress: in.RecipientAddress,
		Type:             txType,
		Status:           status,
		IsAdminCreated:   in.IsAdminCreated,
		Date:             now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("wallet_id", wallet.ID.String()).
		Str("type", string(txType)).
		Str("amount_usd", txn.AmountInUSD.String()).
		Bool("admin_created", in.IsAdminCreated).
		Msg("wallet movement recorded")

	return txn, nil
}

// GetByID returns the wallet together with its client, its admin wallet and
// its transaction history.
func (s *ClientWalletServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*ports.ClientWalletDetail, error) {
	wallet, err := s.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find client wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.NotFound("client wallet")
	}

	client, err := s.clientRepo.GetByID(ctx, wallet.ClientID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find client: %w", err))
	}

	adminWallet, err := s.adminWalletRepo.GetByID(ctx, wallet.AdminWalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find admin wallet: %w", err))
	}

	transactions, err := s.txRepo.ListByClientWallet(ctx, wallet.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}

	return &ports.ClientWalletDetail{
		Wallet:       *wallet,
		Client:       client,
		AdminWallet:  adminWallet,
		Transactions: transactions,
	}, nil
}

// List returns all client wallets.
func (s *ClientWalletServiceImpl) List(ctx context.Context) ([]domain.ClientWallet, error) {
	wallets, err := s.walletRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list client wallets: %w", err))
	}
	return wallets, nil
}

// ListByClientID returns all wallets held by one client.
func (s *ClientWalletServiceImpl) ListByClientID(ctx context.Context, clientID string) ([]domain.ClientWallet, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find client: %w", err))
	}
	if client == nil {
		return nil, apperror.NotFound("client")
	}

	wallets, err := s.walletRepo.ListByClientID(ctx, clientID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list client wallets: %w", err))
	}
	return wallets, nil
}
