package handler

import (
	"custodial-wallet-service/internal/adapter/http/dto"
	"custodial-wallet-service/internal/core/domain"
	"custodial-wallet-service/internal/core/ports"
	"custodial-wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// TransactionRequestHandler handles the pending-approval workflow endpoints.
type TransactionRequestHandler struct {
	reqSvc ports.TransactionRequestService
}

// NewTransactionRequestHandler creates a new TransactionRequestHandler.
func NewTransactionRequestHandler(reqSvc ports.TransactionRequestService) *TransactionRequestHandler {
	return &TransactionRequestHandler{reqSvc: reqSvc}
}

// Create handles POST /api/transaction-requests.
func (h *TransactionRequestHandler) Create(c *gin.Context) {
	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.FieldErrors(err))
		return
	}

	request, err := h.reqSvc.Create(c.Request.Context(), ports.CreateTransactionRequestInput{
		ClientWalletID: req.ClientWalletID,
		AmountInUSD:    req.AmountInUSD,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction request submitted successfully", request)
}

// List handles GET /api/transaction-requests.
func (h *TransactionRequestHandler) List(c *gin.Context) {
	requests, err := h.reqSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction requests retrieved successfully", requests)
}

// GetByID handles GET /api/transaction-requests/:id.
func (h *TransactionRequestHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	request, err := h.reqSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction request retrieved successfully", request)
}

// ListByStatus handles GET /api/transaction-requests/status/:status.
func (h *TransactionRequestHandler) ListByStatus(c *gin.Context) {
	requests, err := h.reqSvc.ListByStatus(c.Request.Context(), domain.TransactionStatus(c.Param("status")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction requests retrieved successfully", requests)
}

// UpdateStatus handles PATCH /api/transaction-requests/:id/status. Approval
// (pending to successful) credits the wallet exactly once.
func (h *TransactionRequestHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.FieldErrors(err))
		return
	}

	request, err := h.reqSvc.UpdateStatus(c.Request.Context(), id, domain.TransactionStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction request status updated successfully", request)
}
