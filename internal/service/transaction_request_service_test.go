package service

import (
	"context"
	"testing"

	"custodial-wallet-service/internal/core/domain"
	"custodial-wallet-service/internal/core/ports"
	"custodial-wallet-service/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type requestDeps struct {
	reqRepo    *mocks.MockTransactionRequestRepository
	walletRepo *mocks.MockClientWalletRepository
	txRepo     *mocks.MockTransactionRepository
	transactor *mocks.MockDBTransactor
}

func newTransactionRequestService(ctrl *gomock.Controller) (*TransactionRequestServiceImpl, requestDeps) {
	d := requestDeps{
		reqRepo:    mocks.NewMockTransactionRequestRepository(ctrl),
		walletRepo: mocks.NewMockClientWalletRepository(ctrl),
		txRepo:     mocks.NewMockTransactionRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
	}
	svc := NewTransactionRequestService(d.reqRepo, d.walletRepo, d.txRepo, d.transactor, zerolog.Nop())
	return svc, d
}

func TestTransactionRequestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newTransactionRequestService(ctrl)
	ctx := context.Background()

	walletID := uuid.New()
	d.walletRepo.EXPECT().GetByID(ctx, walletID).Return(&domain.ClientWallet{ID: walletID}, nil)
	d.reqRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	req, err := svc.Create(ctx, ports.CreateTransactionRequestInput{
		ClientWalletID: walletID,
		AmountInUSD:    decimal.NewFromFloat(99.99),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusPending, req.Status)
	assert.Equal(t, "99.99", req.AmountInUSD.StringFixed(2))
}

func TestTransactionRequestService_Create_NonPositiveAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _ := newTransactionRequestService(ctrl)

	_, err := svc.Create(context.Background(), ports.CreateTransactionRequestInput{
		ClientWalletID: uuid.New(),
		AmountInUSD:    decimal.Zero,
	})
	assertAppErrorCode(t, err, "WAL_002")
}

func TestTransactionRequestService_Approve_CreditsWalletOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newTransactionRequestService(ctrl)
	ctx := context.Background()

	reqID, walletID, adminWalletID := uuid.New(), uuid.New(), uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.reqRepo.EXPECT().GetByIDForUpdate(ctx, tx, reqID).Return(&domain.TransactionRequest{
		ID:             reqID,
		ClientWalletID: walletID,
		AmountInUSD:    decimal.NewFromFloat(40.00),
		Status:         domain.TransactionStatusPending,
	}, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(&domain.ClientWallet{
		ID:            walletID,
		AdminWalletID: adminWalletID,
		AmountInUSD:   decimal.NewFromFloat(10.00),
	}, nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, walletID, gomock.Cond(func(_x any) bool {
		v := _x.(decimal.Decimal)
		return v.Equal(decimal.NewFromFloat(50.00))
	})).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Cond(func(_x any) bool {
		txn := _x.(*domain.Transaction)
		return txn.IsAdminCreated &&
			txn.Type == domain.TransactionTypeCredit &&
			txn.Status == domain.TransactionStatusSuccessful &&
			txn.AdminWalletID == adminWalletID
	})).Return(nil)
	d.reqRepo.EXPECT().UpdateStatus(ctx, tx, reqID, domain.TransactionStatusSuccessful).Return(nil)

	req, err := svc.UpdateStatus(ctx, reqID, domain.TransactionStatusSuccessful)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusSuccessful, req.Status)
}

func TestTransactionRequestService_Reject_NoCredit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newTransactionRequestService(ctrl)
	ctx := context.Background()

	reqID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.reqRepo.EXPECT().GetByIDForUpdate(ctx, tx, reqID).Return(&domain.TransactionRequest{
		ID:     reqID,
		Status: domain.TransactionStatusPending,
	}, nil)
	// No wallet lock, no balance update, no transaction row.
	d.reqRepo.EXPECT().UpdateStatus(ctx, tx, reqID, domain.TransactionStatusFailed).Return(nil)

	req, err := svc.UpdateStatus(ctx, reqID, domain.TransactionStatusFailed)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusFailed, req.Status)
}

func TestTransactionRequestService_Resolve_TerminalIsFrozen(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newTransactionRequestService(ctrl)
	ctx := context.Background()

	reqID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.reqRepo.EXPECT().GetByIDForUpdate(ctx, tx, reqID).Return(&domain.TransactionRequest{
		ID:     reqID,
		Status: domain.TransactionStatusSuccessful,
	}, nil)

	// A second approval of an already-successful request must not credit again.
	_, err := svc.UpdateStatus(ctx, reqID, domain.TransactionStatusFailed)
	assertAppErrorCode(t, err, "TXN_002")
}

func TestTransactionRequestService_Resolve_SameStatusNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newTransactionRequestService(ctrl)
	ctx := context.Background()

	reqID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.reqRepo.EXPECT().GetByIDForUpdate(ctx, tx, reqID).Return(&domain.TransactionRequest{
		ID:     reqID,
		Status: domain.TransactionStatusSuccessful,
	}, nil)

	req, err := svc.UpdateStatus(ctx, reqID, domain.TransactionStatusSuccessful)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusSuccessful, req.Status)
}

func TestTransactionRequestService_Resolve_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, d := newTransactionRequestService(ctrl)
	ctx := context.Background()

	tx := &mockTx{}
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.reqRepo.EXPECT().GetByIDForUpdate(ctx, tx, gomock.Any()).Return(nil, nil)

	_, err := svc.UpdateStatus(ctx, uuid.New(), domain.TransactionStatusFailed)
	assertAppErrorCode(t, err, "GEN_001")
}

func TestTransactionRequestService_ListByStatus_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _ := newTransactionRequestService(ctrl)

	_, err := svc.ListByStatus(context.Background(), domain.TransactionStatus("archived"))
	assertAppErrorCode(t, err, "TXN_001")
}
