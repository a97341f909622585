package handlers

import (
	"net/http"
	"strconv"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/blsh/salon-dashboard/internal/services"
	"github.com/blsh/salon-dashboard/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const entityAppointment = "appointment"

// BookingHandler serves the appointments tab
type BookingHandler struct {
	store          TableReader
	clock          *services.TimeNormalizer
	slots          *services.SlotService
	ledger         *services.LedgerService
	audit          *services.AuditService
	phoneValidator *validator.PhoneValidator
	logger         *logrus.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(
	store TableReader,
	clock *services.TimeNormalizer,
	slots *services.SlotService,
	ledger *services.LedgerService,
	audit *services.AuditService,
	phoneValidator *validator.PhoneValidator,
	logger *logrus.Logger,
) *BookingHandler {
	return &BookingHandler{
		store:          store,
		clock:          clock,
		slots:          slots,
		ledger:         ledger,
		audit:          audit,
		phoneValidator: phoneValidator,
		logger:         logger,
	}
}

func (h *BookingHandler) appointments() *models.Table {
	return h.store.LoadOrEmpty(models.TableAppointments)
}

// GetKPIs handles GET /api/v1/bookings/kpis
func (h *BookingHandler) GetKPIs(c *gin.Context) {
	c.JSON(http.StatusOK, h.slots.KPIs(h.appointments()))
}

// ListByDate handles GET /api/v1/bookings?date=YYYY-MM-DD (defaults to today)
func (h *BookingHandler) ListByDate(c *gin.Context) {
	day := h.clock.Today()
	if v := c.Query("date"); v != "" {
		parsed, ok := h.clock.ParseDay(v)
		if !ok {
			badRequest(c, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}
	c.JSON(http.StatusOK, gin.H{
		"date":         day.Format("2006-01-02"),
		"appointments": h.slots.ByDate(h.appointments(), day),
	})
}

// Search handles GET /api/v1/bookings/search
func (h *BookingHandler) Search(c *gin.Context) {
	var filter models.BookingSearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, "validation_error", "Invalid search parameters: "+err.Error())
		return
	}
	results := h.slots.Search(h.appointments(), filter)
	c.JSON(http.StatusOK, gin.H{
		"appointments": results,
		"count":        len(results),
	})
}

// GetHeatmap handles GET /api/v1/bookings/heatmap
func (h *BookingHandler) GetHeatmap(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"days": h.slots.Heatmap(h.appointments())})
}

// GetTimeline handles GET /api/v1/bookings/timeline
func (h *BookingHandler) GetTimeline(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"timeline": h.slots.Timeline(h.appointments())})
}

// GetAvailability handles GET /api/v1/bookings/availability?employee=&date=&duration=
func (h *BookingHandler) GetAvailability(c *gin.Context) {
	employee := c.Query("employee")
	if employee == "" {
		badRequest(c, "validation_error", "employee is required")
		return
	}
	day, ok := h.clock.ParseDay(c.Query("date"))
	if !ok {
		badRequest(c, "invalid_date", "date must be YYYY-MM-DD")
		return
	}
	duration := services.SlotStepMinutes
	if v := c.Query("duration"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequest(c, "validation_error", "duration must be a positive number of minutes")
			return
		}
		duration = n
	}

	slots := h.slots.AvailableSlots(models.Appointments(h.appointments()), employee, day, duration)
	c.JSON(http.StatusOK, gin.H{
		"employee":        employee,
		"date":            day.Format("2006-01-02"),
		"duration":        duration,
		"available_slots": slots,
	})
}

// Create handles POST /api/v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req models.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	phone, err := h.phoneValidator.Validate(req.ClientPhone)
	if err != nil {
		badRequest(c, "invalid_phone", err.Error())
		return
	}
	req.ClientPhone = phone

	appt, err := h.ledger.CreateAppointment(req)
	if err != nil {
		ledgerError(c, h.logger, "create_appointment", err)
		return
	}

	recordMutation(c, h.audit, h.logger, models.ActionAppointmentCreated, entityAppointment, appt.ID, map[string]interface{}{
		"employee":  appt.Employee,
		"date":      appt.Date,
		"time_slot": appt.TimeSlot,
		"duration":  appt.Duration,
		"source":    appt.Source,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Appointment booked successfully",
		"appointment": appt,
	})
}

// Update handles PUT /api/v1/bookings/:id
func (h *BookingHandler) Update(c *gin.Context) {
	var req models.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.ClientPhone != "" {
		phone, err := h.phoneValidator.Validate(req.ClientPhone)
		if err != nil {
			badRequest(c, "invalid_phone", err.Error())
			return
		}
		req.ClientPhone = phone
	}

	appt, err := h.ledger.UpdateAppointment(c.Param("id"), req)
	if err != nil {
		ledgerError(c, h.logger, "update_appointment", err)
		return
	}

	recordMutation(c, h.audit, h.logger, models.ActionAppointmentUpdated, entityAppointment, appt.ID, map[string]interface{}{
		"employee":  appt.Employee,
		"date":      appt.Date,
		"time_slot": appt.TimeSlot,
		"status":    appt.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":     "Appointment updated successfully",
		"appointment": appt,
	})
}

// Cancel handles POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	appt, err := h.ledger.CancelAppointment(c.Param("id"))
	if err != nil {
		ledgerError(c, h.logger, "cancel_appointment", err)
		return
	}
	recordMutation(c, h.audit, h.logger, models.ActionAppointmentCancelled, entityAppointment, appt.ID, nil)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Appointment cancelled",
		"appointment": appt,
	})
}

// Complete handles POST /api/v1/bookings/:id/complete
func (h *BookingHandler) Complete(c *gin.Context) {
	appt, err := h.ledger.CompleteAppointment(c.Param("id"))
	if err != nil {
		ledgerError(c, h.logger, "complete_appointment", err)
		return
	}
	recordMutation(c, h.audit, h.logger, models.ActionAppointmentCompleted, entityAppointment, appt.ID, nil)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Appointment completed",
		"appointment": appt,
	})
}
