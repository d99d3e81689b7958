package middleware

import (
	"encoding/json"
	"time"

	"custodial-wallet-service/internal/core/domain"
	"custodial-wallet-service/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that records successful write
// operations. It maps route templates to audit actions.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		var userID *uuid.UUID
		if uid, exists := c.Get(CtxUserID); exists {
			if id, ok := uid.(uuid.UUID); ok {
				userID = &id
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			UserID:       userID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.Param("id"),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapRouteToAction(route, method string) (domain.AuditAction, string) {
	switch {
	case route == "/api/auth/signup" && method == "POST":
		return domain.AuditActionSignup, "user"
	case route == "/api/auth/admin/signup" && method == "POST":
		return domain.AuditActionSignup, "user"
	case route == "/api/auth/login" && method == "POST":
		return domain.AuditActionLogin, "session"
	case route == "/api/admin-wallets" && method == "POST":
		return domain.AuditActionCreateAdminWallet, "admin_wallet"
	case route == "/api/admin-wallets/:id" && method == "DELETE":
		return domain.AuditActionDeleteAdminWallet, "admin_wallet"
	case route == "/api/client-wallets/:id/credit" && method == "POST":
		return domain.AuditActionWalletCredit, "client_wallet"
	case route == "/api/client-wallets/:id/debit" && method == "POST":
		return domain.AuditActionWalletDebit, "client_wallet"
	case route == "/api/transaction-requests/:id/status" && method == "PATCH":
		return domain.AuditActionResolveRequest, "transaction_request"
	case route == "/api/transactions/:id" && method == "DELETE":
		return domain.AuditActionDeleteTransaction, "transaction"
	}
	return "", ""
}
