package service

import (
	"context"
	"strings"
	"testing"

	"custodial-wallet-service/internal/core/domain"
	"custodial-wallet-service/internal/core/ports"
	"custodial-wallet-service/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newAdminWalletService(ctrl *gomock.Controller) (*AdminWalletServiceImpl, *mocks.MockAdminWalletRepository, *mocks.MockClientWalletRepository) {
	walletRepo := mocks.NewMockAdminWalletRepository(ctrl)
	clientWalletRepo := mocks.NewMockClientWalletRepository(ctrl)
	svc := NewAdminWalletService(walletRepo, clientWalletRepo, zerolog.Nop())
	return svc, walletRepo, clientWalletRepo
}

func TestAdminWalletService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, walletRepo, _ := newAdminWalletService(ctrl)
	ctx := context.Background()

	walletRepo.EXPECT().List(ctx).Return(nil, nil)
	walletRepo.EXPECT().GetByAddress(ctx, gomock.Any()).Return(nil, nil)
	walletRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	wallet, err := svc.Create(ctx, ports.CreateAdminWalletInput{
		CurrencyAbbreviation: "BTC",
		Currency:             "Bitcoin",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(wallet.Address, "ADM_0x"))
	assert.Len(t, wallet.Address, len("ADM_0x")+38)
	assert.NotEmpty(t, wallet.ClientReceivingAddress)
}

func TestAdminWalletService_Create_UnknownCurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _, _ := newAdminWalletService(ctrl)

	_, err := svc.Create(context.Background(), ports.CreateAdminWalletInput{
		CurrencyAbbreviation: "DOGE",
	})
	assertAppErrorCode(t, err, "WAL_003")
}

func TestAdminWalletService_Create_DuplicateCurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, walletRepo, _ := newAdminWalletService(ctrl)
	ctx := context.Background()

	walletRepo.EXPECT().List(ctx).Return([]domain.AdminWallet{
		{ID: uuid.New(), CurrencyAbbreviation: "BTC"},
	}, nil)

	_, err := svc.Create(ctx, ports.CreateAdminWalletInput{CurrencyAbbreviation: "BTC"})
	assertAppErrorCode(t, err, "GEN_002")
}

func TestAdminWalletService_Create_AddressCollision(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, walletRepo, _ := newAdminWalletService(ctrl)
	ctx := context.Background()

	walletRepo.EXPECT().List(ctx).Return(nil, nil)
	walletRepo.EXPECT().GetByAddress(ctx, gomock.Any()).Return(&domain.AdminWallet{
		ID: uuid.New(),
	}, nil)

	_, err := svc.Create(ctx, ports.CreateAdminWalletInput{
		CurrencyAbbreviation: "ETH",
		Currency:             "Ethereum",
	})
	assertAppErrorCode(t, err, "GEN_002")
}

func TestAdminWalletService_Update_PartialFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, walletRepo, _ := newAdminWalletService(ctrl)
	ctx := context.Background()

	id := uuid.New()
	walletRepo.EXPECT().GetByID(ctx, id).Return(&domain.AdminWallet{
		ID:                   id,
		CurrencyAbbreviation: "BTC",
		Currency:             "Bitcoin",
		Logo:                 "old.png",
	}, nil)
	walletRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	logo := "new.png"
	wallet, err := svc.Update(ctx, id, ports.UpdateAdminWalletInput{Logo: &logo})
	require.NoError(t, err)
	assert.Equal(t, "new.png", wallet.Logo)
	assert.Equal(t, "BTC", wallet.CurrencyAbbreviation)
}

func TestAdminWalletService_Update_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, walletRepo, _ := newAdminWalletService(ctrl)

	walletRepo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := svc.Update(context.Background(), uuid.New(), ports.UpdateAdminWalletInput{})
	assertAppErrorCode(t, err, "GEN_001")
}

func TestAdminWalletService_Delete_InUse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, walletRepo, clientWalletRepo := newAdminWalletService(ctrl)
	ctx := context.Background()

	id := uuid.New()
	walletRepo.EXPECT().GetByID(ctx, id).Return(&domain.AdminWallet{ID: id}, nil)
	clientWalletRepo.EXPECT().CountByAdminWallet(ctx, id).Return(int64(3), nil)

	err := svc.Delete(ctx, id)
	assertAppErrorCode(t, err, "WAL_005")
}

func TestAdminWalletService_Delete_Unreferenced(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, walletRepo, clientWalletRepo := newAdminWalletService(ctrl)
	ctx := context.Background()

	id := uuid.New()
	walletRepo.EXPECT().GetByID(ctx, id).Return(&domain.AdminWallet{ID: id}, nil)
	clientWalletRepo.EXPECT().CountByAdminWallet(ctx, id).Return(int64(0), nil)
	walletRepo.EXPECT().Delete(ctx, id).Return(nil)

	assert.NoError(t, svc.Delete(ctx, id))
}
