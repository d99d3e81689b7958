package handler

import (
	"custodial-wallet-service/internal/adapter/http/dto"
	"custodial-wallet-service/internal/core/ports"
	"custodial-wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClientHandler handles wallet-holder endpoints.
type ClientHandler struct {
	clientSvc ports.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientSvc ports.ClientService) *ClientHandler {
	return &ClientHandler{clientSvc: clientSvc}
}

// Create handles POST /api/clients. The response carries the recovery phrase;
// it is shown exactly once and never stored in plain text.
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.FieldErrors(err))
		return
	}
	dto.SanitizeStruct(&req)

	in := ports.CreateClientInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		PIN:       req.PIN,
	}
	if req.UserID != nil {
		userID, err := uuid.Parse(*req.UserID)
		if err == nil {
			in.UserID = &userID
		}
	}

	registration, err := h.clientSvc.Create(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Client created successfully", registration)
}

// List handles GET /api/clients.
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clientSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Clients retrieved successfully", clients)
}

// GetByID handles GET /api/clients/:id.
func (h *ClientHandler) GetByID(c *gin.Context) {
	client, err := h.clientSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client retrieved successfully", client)
}

// Update handles PUT /api/clients/:id.
func (h *ClientHandler) Update(c *gin.Context) {
	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.FieldErrors(err))
		return
	}
	dto.SanitizeStruct(&req)

	client, err := h.clientSvc.Update(c.Request.Context(), c.Param("id"), ports.UpdateClientInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client updated successfully", client)
}

// Delete handles DELETE /api/clients/:id.
func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.clientSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client deleted successfully", nil)
}
