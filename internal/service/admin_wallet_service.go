package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"custodial-wallet-service/internal/core/domain"
	"custodial-wallet-service/internal/core/ports"
	"custodial-wallet-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminWalletServiceImpl implements ports.AdminWalletService.
type AdminWalletServiceImpl struct {
	walletRepo       ports.AdminWalletRepository
	clientWalletRepo ports.ClientWalletRepository
	log              zerolog.Logger
}

// NewAdminWalletService creates a new AdminWalletServiceImpl.
func NewAdminWalletService(
	walletRepo ports.AdminWalletRepository,
	clientWalletRepo ports.ClientWalletRepository,
	log zerolog.Logger,
) *AdminWalletServiceImpl {
	return &AdminWalletServiceImpl{
		walletRepo:       walletRepo,
		clientWalletRepo: clientWalletRepo,
		log:              log,
	}
}

// Create provisions a new currency pool with a generated custodial address.
func (s *AdminWalletServiceImpl) Create(ctx context.Context, in ports.CreateAdminWalletInput) (*domain.AdminWallet, error) {
	if !domain.IsSupportedCurrency(in.CurrencyAbbreviation) {
		return nil, apperror.ErrUnknownCurrency(in.CurrencyAbbreviation)
	}

	existing, err := s.walletRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list admin wallets: %w", err))
	}
	for _, w := range existing {
		if w.CurrencyAbbreviation == in.CurrencyAbbreviation {
			return nil, apperror.Conflict(fmt.Sprintf("admin wallet for %s already exists", in.CurrencyAbbreviation))
		}
	}

	address, err := generateWalletAddress()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate address: %w", err))
	}
	taken, err := s.walletRepo.GetByAddress(ctx, address)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check address: %w", err))
	}
	if taken != nil {
		return nil, apperror.Conflict(fmt.Sprintf("wallet address %s already exists", address))
	}

	receiving := in.ClientReceivingAddress
	if receiving == "" {
		receiving, err = generateWalletAddress()
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("generate receiving address: %w", err))
		}
	}

	now := time.Now().UTC()
	wallet := &domain.AdminWallet{
		ID:                     uuid.New(),
		CurrencyAbbreviation:   in.CurrencyAbbreviation,
		Currency:               in.Currency,
		Logo:                   in.Logo,
		Address:                address,
		ClientReceivingAddress: receiving,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create admin wallet: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("currency", wallet.CurrencyAbbreviation).
		Msg("admin wallet created")

	return wallet, nil
}

// Update applies a partial update; nil fields are left untouched.
func (s *AdminWalletServiceImpl) Update(ctx context.Context, id uuid.UUID, in ports.UpdateAdminWalletInput) (*domain.AdminWallet, error) {
	wallet, err := s.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find admin wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.NotFound("admin wallet")
	}

	if in.CurrencyAbbreviation != nil {
		if !domain.IsSupportedCurrency(*in.CurrencyAbbreviation) {
			return nil, apperror.ErrUnknownCurrency(*in.CurrencyAbbreviation)
		}
		wallet.CurrencyAbbreviation = *in.CurrencyAbbreviation
	}
	if in.Currency != nil {
		wallet.Currency = *in.Currency
	}
	if in.Logo != nil {
		wallet.Logo = *in.Logo
	}
	if in.ClientReceivingAddress != nil {
		wallet.ClientReceivingAddress = *in.ClientReceivingAddress
	}
	wallet.UpdatedAt = time.Now().UTC()

	if err := s.walletRepo.Update(ctx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update admin wallet: %w", err))
	}

	return wallet, nil
}

// GetByID returns one admin wallet.
func (s *AdminWalletServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.AdminWallet, error) {
	wallet, err := s.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find admin wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.NotFound("admin wallet")
	}
	return wallet, nil
}

// List returns all admin wallets.
func (s *AdminWalletServiceImpl) List(ctx context.Context) ([]domain.AdminWallet, error) {
	wallets, err := s.walletRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list admin wallets: %w", err))
	}
	return wallets, nil
}

// Delete removes an admin wallet. A pool that still backs client wallets
// cannot be deleted.
func (s *AdminWalletServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	wallet, err := s.walletRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("find admin wallet: %w", err))
	}
	if wallet == nil {
		return apperror.NotFound("admin wallet")
	}

	count, err := s.clientWalletRepo.CountByAdminWallet(ctx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("count client wallets: %w", err))
	}
	if count > 0 {
		return apperror.ErrAdminWalletInUse()
	}

	if err := s.walletRepo.Delete(ctx, id); err != nil {
		return apperror.InternalError(fmt.Errorf("delete admin wallet: %w", err))
	}

	s.log.Info().Str("wallet_id", id.String()).Msg("admin wallet deleted")
	return nil
}

// generateWalletAddress produces a custodial address: "ADM_0x" + 38 hex chars.
func generateWalletAddress() (string, error) {
	bytes := make([]byte, 19)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return "ADM_0x" + hex.EncodeToString(bytes), nil
}
