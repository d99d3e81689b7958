package handler

import (
	"custodial-wallet-service/internal/adapter/http/dto"
	"custodial-wallet-service/internal/core/ports"
	"custodial-wallet-service/pkg/apperror"
	"custodial-wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminWalletHandler handles the per-currency custodial pool endpoints.
type AdminWalletHandler struct {
	walletSvc ports.AdminWalletService
}

// NewAdminWalletHandler creates a new AdminWalletHandler.
func NewAdminWalletHandler(walletSvc ports.AdminWalletService) *AdminWalletHandler {
	return &AdminWalletHandler{walletSvc: walletSvc}
}

// Create handles POST /api/admin-wallets.
func (h *AdminWalletHandler) Create(c *gin.Context) {
	var req dto.CreateAdminWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.FieldErrors(err))
		return
	}
	dto.SanitizeStruct(&req)

	wallet, err := h.walletSvc.Create(c.Request.Context(), ports.CreateAdminWalletInput{
		CurrencyAbbreviation:   req.CurrencyAbbreviation,
		Currency:               req.Currency,
		Logo:                   req.Logo,
		ClientReceivingAddress: req.ClientReceivingAddress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Admin wallet created successfully", wallet)
}

// List handles GET /api/admin-wallets.
func (h *AdminWalletHandler) List(c *gin.Context) {
	wallets, err := h.walletSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Admin wallets retrieved successfully", wallets)
}

// GetByID handles GET /api/admin-wallets/:id.
func (h *AdminWalletHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	wallet, err := h.walletSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Admin wallet retrieved successfully", wallet)
}

// Update handles PUT /api/admin-wallets/:id.
func (h *AdminWalletHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateAdminWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.FieldErrors(err))
		return
	}
	dto.SanitizeStruct(&req)

	wallet, err := h.walletSvc.Update(c.Request.Context(), id, ports.UpdateAdminWalletInput{
		CurrencyAbbreviation:   req.CurrencyAbbreviation,
		Currency:               req.Currency,
		Logo:                   req.Logo,
		ClientReceivingAddress: req.ClientReceivingAddress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Admin wallet updated successfully", wallet)
}

// Delete handles DELETE /api/admin-wallets/:id.
func (h *AdminWalletHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.walletSvc.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Admin wallet deleted successfully", nil)
}

// parseIDParam parses the :id path segment as a UUID, writing the validation
// response itself on failure.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}
