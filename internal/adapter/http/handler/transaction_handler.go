package handler

import (
	"custodial-wallet-service/internal/adapter/http/dto"
	"custodial-wallet-service/internal/core/domain"
	"custodial-wallet-service/internal/core/ports"
	"custodial-wallet-service/pkg/apperror"
	"custodial-wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler handles the ledger endpoints.
type TransactionHandler struct {
	txSvc ports.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txSvc ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{txSvc: txSvc}
}

// Create handles POST /api/transactions.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.FieldErrors(err))
		return
	}
	dto.SanitizeStruct(&req)

	in := ports.CreateTransactionInput{
		ClientWalletID:   req.ClientWalletID,
		AmountInUSD:      req.AmountInUSD,
		Amount:           req.Amount,
		Fee:              req.Fee,
		RecipientAddress: req.RecipientAddress,
		Type:             domain.TransactionType(req.Type),
		Date:             req.Date,
	}
	if req.Status != nil {
		status := domain.TransactionStatus(*req.Status)
		in.Status = &status
	}

	tx, err := h.txSvc.Create(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction created successfully", tx)
}

// List handles GET /api/transactions.
func (h *TransactionHandler) List(c *gin.Context) {
	txs, err := h.txSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transactions retrieved successfully", txs)
}

// GetByID handles GET /api/transactions/:id.
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	tx, err := h.txSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", tx)
}

// ListByClientWallet handles GET /api/transactions/client-wallet/:clientWalletId.
func (h *TransactionHandler) ListByClientWallet(c *gin.Context) {
	walletID, err := uuid.Parse(c.Param("clientWalletId"))
	if err != nil {
		response.Error(c, apperror.Validation("clientWalletId must be a valid UUID"))
		return
	}

	txs, err := h.txSvc.ListByClientWallet(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transactions retrieved successfully", txs)
}

// Delete handles DELETE /api/transactions/:id. Deleting a transaction that
// moved money reverses its ledger effect.
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.txSvc.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction deleted successfully", nil)
}

// UpdateStatus handles PATCH /api/transactions/:id/status.
func (h *TransactionHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.FieldErrors(err))
		return
	}

	tx, err := h.txSvc.UpdateStatus(c.Request.Context(), id, domain.TransactionStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction status updated successfully", tx)
}
