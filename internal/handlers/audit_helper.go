package handlers

import (
	"github.com/blsh/salon-dashboard/internal/middleware"
	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/blsh/salon-dashboard/internal/services"
	"github.com/blsh/salon-dashboard/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// recordMutation counts and audits a successful ledger write.
// Audit failures are logged and never fail the request.
func recordMutation(c *gin.Context, audit *services.AuditService, logger *logrus.Logger, action models.LedgerAction, entityType, entityID string, details map[string]interface{}) {
	middleware.RecordLedgerMutation(action)
	if audit == nil {
		return
	}
	err := audit.LogMutation(c.Request.Context(), services.MutationEvent{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  utils.GetRealIP(c),
		UserAgent:  utils.GetUserAgent(c),
		RequestID:  middleware.GetRequestID(c),
		Details:    details,
	})
	if err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"action":    action,
			"entity_id": entityID,
		}).Warn("AUDIT ERROR: failed to record ledger mutation")
	}
}
