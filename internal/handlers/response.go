package handlers

import (
	"errors"
	"net/http"

	"github.com/blsh/salon-dashboard/internal/middleware"
	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/blsh/salon-dashboard/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// TableReader loads tables for read-only queries; unreadable tables come back empty
type TableReader interface {
	LoadOrEmpty(name models.TableName) *models.Table
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

func bindError(c *gin.Context, err error) {
	badRequest(c, "validation_error", "Invalid request body: "+err.Error())
}

// ledgerError answers a failed ledger write. Domain errors map to 4xx, anything else
// is a persistence failure.
func ledgerError(c *gin.Context, logger *logrus.Logger, operation string, err error) {
	status, code := http.StatusInternalServerError, "save_failed"
	switch {
	case errors.Is(err, services.ErrSlotUnavailable):
		status, code = http.StatusConflict, "slot_unavailable"
	case errors.Is(err, services.ErrAppointmentClosed):
		status, code = http.StatusConflict, "appointment_closed"
	case errors.Is(err, services.ErrAppointmentNotFound), errors.Is(err, services.ErrStaffNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrInvalidDate):
		status, code = http.StatusBadRequest, "invalid_date"
	case errors.Is(err, services.ErrInvalidTimeSlot):
		status, code = http.StatusBadRequest, "invalid_time_slot"
	case errors.Is(err, services.ErrInvalidLeaveRange):
		status, code = http.StatusBadRequest, "invalid_leave_range"
	}
	middleware.RecordLedgerFailure(code)

	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.WithError(err).WithField("operation", operation).Error("Ledger write failed")
		message = "Failed to save changes, please try again"
	}
	c.JSON(status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}
