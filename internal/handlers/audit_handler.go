package handlers

import (
	"net/http"
	"strconv"

	"github.com/blsh/salon-dashboard/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuditHandler lists recent ledger mutations
type AuditHandler struct {
	audit  *services.AuditService
	logger *logrus.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(audit *services.AuditService, logger *logrus.Logger) *AuditHandler {
	return &AuditHandler{
		audit:  audit,
		logger: logger,
	}
}

// GetRecent handles GET /api/v1/audit?limit=
func (h *AuditHandler) GetRecent(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		badRequest(c, "validation_error", "limit must be a number")
		return
	}

	entries, err := h.audit.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load audit entries")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "audit_unavailable",
			Message: "Failed to load audit entries",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enabled": h.audit.Enabled(),
		"entries": entries,
	})
}
