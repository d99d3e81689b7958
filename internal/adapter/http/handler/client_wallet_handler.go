package handler

import (
	"context"

	"custodial-wallet-service/internal/adapter/http/dto"
	"custodial-wallet-service/internal/core/domain"
	"custodial-wallet-service/internal/core/ports"
	"custodial-wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClientWalletHandler handles the per-client sub-ledger endpoints.
type ClientWalletHandler struct {
	walletSvc ports.ClientWalletService
}

// NewClientWalletHandler creates a new ClientWalletHandler.
func NewClientWalletHandler(walletSvc ports.ClientWalletService) *ClientWalletHandler {
	return &ClientWalletHandler{walletSvc: walletSvc}
}

// Create handles POST /api/client-wallets.
func (h *ClientWalletHandler) Create(c *gin.Context) {
	var req dto.CreateClientWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.FieldErrors(err))
		return
	}
	dto.SanitizeStruct(&req)

	wallet, err := h.walletSvc.Create(c.Request.Context(), ports.CreateClientWalletInput{
		ClientID:      req.ClientID,
		AdminWalletID: req.AdminWalletID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Client wallet created successfully", wallet)
}

// List handles GET /api/client-wallets.
func (h *ClientWalletHandler) List(c *gin.Context) {
	wallets, err := h.walletSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client wallets retrieved successfully", wallets)
}

// GetByID handles GET /api/client-wallets/:id. The payload eager-loads the
// owning client, the admin wallet, and the wallet's transactions.
func (h *ClientWalletHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	detail, err := h.walletSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client wallet retrieved successfully", detail)
}

// ListByClient handles GET /api/client-wallets/client/:clientId.
func (h *ClientWalletHandler) ListByClient(c *gin.Context) {
	wallets, err := h.walletSvc.ListByClientID(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client wallets retrieved successfully", wallets)
}

// Credit handles POST /api/client-wallets/:id/credit.
func (h *ClientWalletHandler) Credit(c *gin.Context) {
	h.move(c, h.walletSvc.Credit, "Wallet credited successfully")
}

// Debit handles POST /api/client-wallets/:id/debit.
func (h *ClientWalletHandler) Debit(c *gin.Context) {
	h.move(c, h.walletSvc.Debit, "Wallet debited successfully")
}

type moveFunc func(ctx context.Context, walletID uuid.UUID, in ports.MovementInput) (*domain.Transaction, error)

func (h *ClientWalletHandler) move(c *gin.Context, move moveFunc, message string) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.FieldErrors(err))
		return
	}
	dto.SanitizeStruct(&req)

	in := ports.MovementInput{
		AmountInUSD:      req.AmountInUSD,
		Amount:           req.Amount,
		Fee:              req.Fee,
		RecipientAddress: req.RecipientAddress,
		IsAdminCreated:   req.IsAdminCreated,
	}
	if req.Status != nil {
		status := domain.TransactionStatus(*req.Status)
		in.Status = &status
	}

	tx, err := move(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, message, tx)
}
