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
)

// TransactionServiceImpl implements ports.TransactionService.
type TransactionServiceImpl struct {
	txRepo     ports.TransactionRepository
	walletRepo ports.ClientWalletRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewTransactionService creates a new TransactionServiceImpl.
func NewTransactionService(
	txRepo ports.TransactionRepository,
	walletRepo ports.ClientWalletRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *TransactionServiceImpl {
	return &TransactionServiceImpl{
		txRepo:     txRepo,
		walletRepo: walletRepo,
		transactor: transactor,
		log:        log,
	}
}

// Create records a ledger row directly. Rows created this way never mutate
// the wallet balance; they only record intent until a status transition
// applies their effect.
func (s *TransactionServiceImpl) Create(ctx context.Context, in ports.CreateTransactionInput) (*domain.Transaction, error) {
	if !domain.IsValidTransactionType(in.Type) {
		return nil, apperror.Validation(fmt.Sprintf("invalid transaction type %q", in.Type))
	}
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

	wallet, err := s.walletRepo.GetByID(ctx, in.ClientWalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find client wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.NotFound("client wallet")
	}

	now := time.Now().UTC()
	date := now
	if in.Date != nil {
		date = in.Date.UTC()
	}

	txn := &domain.Transaction{
		ID:               uuid.New(),
		ClientWalletID:   wallet.ID,
		AdminWalletID:    wallet.AdminWalletID,
		AmountInUSD:      in.AmountInUSD.Round(2),
		Amount:           in.Amount,
		Fee:              in.Fee.Round(2),
		RecipientAddress: in.RecipientAddress,
		Type:             in.Type,
		Status:           status,
		IsAdminCreated:   false,
		Date:             date,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	return txn, nil
}

// GetByID returns one transaction.
func (s *TransactionServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.NotFound("transaction")
	}
	return txn, nil
}

// List returns all transactions.
func (s *TransactionServiceImpl) List(ctx context.Context) ([]domain.Transaction, error) {
	txns, err := s.txRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, nil
}

// ListByClientWallet returns the ledger history of one wallet.
func (s *TransactionServiceImpl) ListByClientWallet(ctx context.Context, clientWalletID uuid.UUID) ([]domain.Transaction, error) {
	wallet, err := s.walletRepo.GetByID(ctx, clientWalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find client wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.NotFound("client wallet")
	}

	txns, err := s.txRepo.ListByClientWallet(ctx, clientWalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, nil
}

// Delete removes a transaction. If the row had moved the wallet balance, a
// compensating movement is applied in the same database transaction, so the
// row and its ledger effect disappear together. A reversal that would take
// the balance below zero is rejected and nothing changes.
func (s *TransactionServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// The row is locked before the reversal decision so a racing status
	// transition cannot apply its effect after we have read the row.
	txn, err := s.txRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock transaction: %w", err))
	}
	if txn == nil {
		return apperror.NotFound("transaction")
	}

	if txn.MovedBalance() {
		wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, txn.ClientWalletID)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
		}
		if wallet == nil {
			return apperror.NotFound("client wallet")
		}

		// Apply the opposite movement to undo the original effect.
		reverseType := domain.TransactionTypeDebit
		if txn.Type == domain.TransactionTypeDebit {
			reverseType = domain.TransactionTypeCredit
		}

		newBalance, err := domain.NewBalance(wallet.AmountInUSD, txn.AmountInUSD, reverseType)
		if err != nil {
			if errors.Is(err, domain.ErrBalanceBelowZero) {
				return apperror.ErrReversalBelowZero()
			}
			return apperror.InternalError(fmt.Errorf("compute reversal: %w", err))
		}

		if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
			return apperror.InternalError(fmt.Errorf("reverse balance: %w", err))
		}
	}

	if err := s.txRepo.Delete(ctx, dbTx, id); err != nil {
		return apperror.InternalError(fmt.Errorf("delete transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", id.String()).
		Bool("reversed", txn.MovedBalance()).
		Msg("transaction deleted")

	return nil
}

// UpdateStatus transitions a transaction's lifecycle state. Terminal rows
// are frozen. When a pending client-originated row turns successful its own
// ledger effect is applied exactly once: the row is locked before the
// pending check, so a concurrent transition cannot pass it as well.
func (s *TransactionServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransactionStatus) (*domain.Transaction, error) {
	if !domain.IsValidTransactionStatus(status) {
		return nil, apperror.ErrInvalidStatus(string(status))
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	txn, err := s.txRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.NotFound("transaction")
	}
	if txn.Status == status {
		return txn, nil
	}
	if txn.IsTerminal() {
		return nil, apperror.ErrTerminalStatus()
	}

	if status == domain.TransactionStatusSuccessful && !txn.IsAdminCreated {
		wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, txn.ClientWalletID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
		}
		if wallet == nil {
			return nil, apperror.NotFound("client wallet")
		}

		newBalance, err := domain.NewBalance(wallet.AmountInUSD, txn.AmountInUSD, txn.Type)
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

	if err := s.txRepo.UpdateStatus(ctx, dbTx, id, status); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update status: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", id.String()).
		Str("from", string(txn.Status)).
		Str("to", string(status)).
		Msg("transaction status updated")

	txn.Status = status
	txn.UpdatedAt = time.Now().UTC()
	return txn, nil
}
