package service

import (
	"context"
	"fmt"
	"time"

	"custodial-wallet-service/internal/core/domain"
	"custodial-wallet-service/internal/core/ports"
	"custodial-wallet-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TransactionRequestServiceImpl implements ports.TransactionRequestService.
type TransactionRequestServiceImpl struct {
	reqRepo    ports.TransactionRequestRepository
	walletRepo ports.ClientWalletRepository
	txRepo     ports.TransactionRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewTransactionRequestService creates a new TransactionRequestServiceImpl.
func NewTransactionRequestService(
	reqRepo ports.TransactionRequestRepository,
	walletRepo ports.ClientWalletRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *TransactionRequestServiceImpl {
	return &TransactionRequestServiceImpl{
		reqRepo:    reqRepo,
		walletRepo: walletRepo,
		txRepo:     txRepo,
		transactor: transactor,
		log:        log,
	}
}

// Create submits a pending transfer request against a client wallet.
func (s *TransactionRequestServiceImpl) Create(ctx context.Context, in ports.CreateTransactionRequestInput) (*domain.TransactionRequest, error) {
	if !in.AmountInUSD.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	wallet, err := s.walletRepo.GetByID(ctx, in.ClientWalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find client wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.NotFound("client wallet")
	}

	now := time.Now().UTC()
	req := &domain.TransactionRequest{
		ID:             uuid.New(),
		ClientWalletID: wallet.ID,
		AmountInUSD:    in.AmountInUSD.Round(2),
		Status:         domain.TransactionStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.reqRepo.Create(ctx, req); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction request: %w", err))
	}

	s.log.Info().
		Str("request_id", req.ID.String()).
		Str("wallet_id", wallet.ID.String()).
		Str("amount_usd", req.AmountInUSD.String()).
		Msg("transaction request created")

	return req, nil
}

// GetByID returns one transaction request.
func (s *TransactionRequestServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.TransactionRequest, error) {
	req, err := s.reqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find transaction request: %w", err))
	}
	if req == nil {
		return nil, apperror.NotFound("transaction request")
	}
	return req, nil
}

// List returns all transaction requests.
func (s *TransactionRequestServiceImpl) List(ctx context.Context) ([]domain.TransactionRequest, error) {
	reqs, err := s.reqRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transaction requests: %w", err))
	}
	return reqs, nil
}

// ListByStatus returns requests filtered by lifecycle state.
func (s *TransactionRequestServiceImpl) ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.TransactionRequest, error) {
	if !domain.IsValidTransactionStatus(status) {
		return nil, apperror.ErrInvalidStatus(string(status))
	}

	reqs, err := s.reqRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transaction requests: %w", err))
	}
	return reqs, nil
}

// UpdateStatus resolves a request. The request row is locked before the
// pending check, so two concurrent approvals of the same request cannot both
// credit the wallet: the second sees a terminal row and is rejected. An
// unchanged status is a no-op; terminal requests are frozen.
func (s *TransactionRequestServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransactionStatus) (*domain.TransactionRequest, error) {
	if !domain.IsValidTransactionStatus(status) {
		return nil, apperror.ErrInvalidStatus(string(status))
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	req, err := s.reqRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock transaction request: %w", err))
	}
	if req == nil {
		return nil, apperror.NotFound("transaction request")
	}
	if req.Status == status {
		return req, nil
	}
	if req.IsTerminal() {
		return nil, apperror.ErrTerminalStatus()
	}

	if status == domain.TransactionStatusSuccessful {
		wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, req.ClientWalletID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
		}
		if wallet == nil {
			return nil, apperror.NotFound("client wallet")
		}

		newBalance, err := domain.NewBalance(wallet.AmountInUSD, req.AmountInUSD, domain.TransactionTypeCredit)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("compute balance: %w", err))
		}

		if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
		}

		now := time.Now().UTC()
		txn := &domain.Transaction{
			ID:             uuid.New(),
			ClientWalletID: wallet.ID,
			AdminWalletID:  wallet.AdminWalletID,
			AmountInUSD:    req.AmountInUSD,
			Type:           domain.TransactionTypeCredit,
			Status:         domain.TransactionStatusSuccessful,
			IsAdminCreated: true,
			Date:           now,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create approval transaction: %w", err))
		}
	}

	if err := s.reqRepo.UpdateStatus(ctx, dbTx, id, status); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update request status: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("request_id", id.String()).
		Str("from", string(req.Status)).
		Str("to", string(status)).
		Msg("transaction request resolved")

	req.Status = status
	req.UpdatedAt = time.Now().UTC()
	return req, nil
}
