package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"custodial-wallet-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingAuditService records entries synchronously for assertions.
type capturingAuditService struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (s *capturingAuditService) Log(_ context.Context, entry *domain.AuditLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

func (s *capturingAuditService) all() []*domain.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries
}

func newAuditedRouter(svc *capturingAuditService) *gin.Engine {
	router := gin.New()
	router.Use(AuditLog(svc))

	api := router.Group("/api")
	api.POST("/admin-wallets", func(c *gin.Context) {
		c.Set(CtxUserID, uuid.New())
		c.JSON(http.StatusCreated, gin.H{"success": true})
	})
	api.GET("/admin-wallets", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	api.POST("/client-wallets/:id/credit", func(c *gin.Context) {
		c.JSON(http.StatusConflict, gin.H{"success": false})
	})
	api.DELETE("/transactions/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func TestAuditLog_RecordsSuccessfulWrite(t *testing.T) {
	svc := &capturingAuditService{}
	router := newAuditedRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/admin-wallets", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	entries := svc.all()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditActionCreateAdminWallet, entries[0].Action)
	assert.Equal(t, "admin_wallet", entries[0].ResourceType)
	assert.NotNil(t, entries[0].UserID)
}

func TestAuditLog_SkipsReads(t *testing.T) {
	svc := &capturingAuditService{}
	router := newAuditedRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/admin-wallets", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Empty(t, svc.all())
}

func TestAuditLog_SkipsFailedWrites(t *testing.T) {
	svc := &capturingAuditService{}
	router := newAuditedRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/client-wallets/abc/credit", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Empty(t, svc.all())
}

func TestAuditLog_CapturesResourceID(t *testing.T) {
	svc := &capturingAuditService{}
	router := newAuditedRouter(svc)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodDelete, "/api/transactions/"+id, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	entries := svc.all()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditActionDeleteTransaction, entries[0].Action)
	assert.Equal(t, id, entries[0].ResourceID)
}
