package handlers

import (
	"net/http"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/blsh/salon-dashboard/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	entityStaff = "staff"
	entityLeave = "leave"
)

// StaffHandler serves the staff management tab
type StaffHandler struct {
	store     TableReader
	analytics *services.StaffAnalyticsService
	ledger    *services.LedgerService
	audit     *services.AuditService
	logger    *logrus.Logger
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(
	store TableReader,
	analytics *services.StaffAnalyticsService,
	ledger *services.LedgerService,
	audit *services.AuditService,
	logger *logrus.Logger,
) *StaffHandler {
	return &StaffHandler{
		store:     store,
		analytics: analytics,
		ledger:    ledger,
		audit:     audit,
		logger:    logger,
	}
}

// GetKPIs handles GET /api/v1/staff/kpis
func (h *StaffHandler) GetKPIs(c *gin.Context) {
	staff := h.store.LoadOrEmpty(models.TableStaff)
	leave := h.store.LoadOrEmpty(models.TableLeaveRecords)
	c.JSON(http.StatusOK, h.analytics.KPIs(staff, leave))
}

// List handles GET /api/v1/staff?name=&role=&branch=&status=
func (h *StaffHandler) List(c *gin.Context) {
	var filter models.StaffSearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, "validation_error", "Invalid search parameters: "+err.Error())
		return
	}
	staff := h.analytics.SearchStaff(h.store.LoadOrEmpty(models.TableStaff), filter)
	c.JSON(http.StatusOK, gin.H{
		"staff": staff,
		"count": len(staff),
	})
}

// Create handles POST /api/v1/staff
func (h *StaffHandler) Create(c *gin.Context) {
	var req models.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	member, err := h.ledger.AddStaff(req)
	if err != nil {
		ledgerError(c, h.logger, "add_staff", err)
		return
	}
	recordMutation(c, h.audit, h.logger, models.ActionStaffCreated, entityStaff, member.ID, map[string]interface{}{
		"role":   member.Role,
		"branch": member.Branch,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Staff member added successfully",
		"staff":   member,
	})
}

// Update handles PUT /api/v1/staff/:id
func (h *StaffHandler) Update(c *gin.Context) {
	var req models.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	member, err := h.ledger.UpdateStaff(c.Param("id"), req)
	if err != nil {
		ledgerError(c, h.logger, "update_staff", err)
		return
	}
	recordMutation(c, h.audit, h.logger, models.ActionStaffUpdated, entityStaff, member.ID, map[string]interface{}{
		"status": member.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Staff member updated successfully",
		"staff":   member,
	})
}

// Resign handles DELETE /api/v1/staff/:id. The record is kept with status Resigned.
func (h *StaffHandler) Resign(c *gin.Context) {
	member, err := h.ledger.ResignStaff(c.Param("id"))
	if err != nil {
		ledgerError(c, h.logger, "resign_staff", err)
		return
	}
	recordMutation(c, h.audit, h.logger, models.ActionStaffResigned, entityStaff, member.ID, nil)

	c.JSON(http.StatusOK, gin.H{
		"message": "Staff member marked as resigned",
		"staff":   member,
	})
}

// GetAttendance handles GET /api/v1/staff/attendance
func (h *StaffHandler) GetAttendance(c *gin.Context) {
	stats := h.analytics.Attendance(h.store.LoadOrEmpty(models.TableAttendance))
	c.JSON(http.StatusOK, gin.H{
		"window_days": services.AttendanceWindowDays,
		"overview":    h.analytics.AttendanceOverview(stats),
		"staff":       stats,
	})
}

// CreateLeave handles POST /api/v1/staff/leaves
func (h *StaffHandler) CreateLeave(c *gin.Context) {
	var req models.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	leave, err := h.ledger.AddLeave(req)
	if err != nil {
		ledgerError(c, h.logger, "add_leave", err)
		return
	}
	recordMutation(c, h.audit, h.logger, models.ActionLeaveCreated, entityLeave, leave.ID, map[string]interface{}{
		"staff_name": leave.StaffName,
		"leave_type": leave.LeaveType,
		"from_date":  leave.FromDate,
		"to_date":    leave.ToDate,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Leave application recorded",
		"leave":   leave,
	})
}

// GetUpcomingLeaves handles GET /api/v1/staff/leaves/upcoming
func (h *StaffHandler) GetUpcomingLeaves(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"leaves": h.analytics.UpcomingLeaves(h.store.LoadOrEmpty(models.TableLeaveRecords))})
}

// GetLeaveCalendar handles GET /api/v1/staff/leaves/calendar
func (h *StaffHandler) GetLeaveCalendar(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"days": h.analytics.LeaveCalendar(h.store.LoadOrEmpty(models.TableLeaveRecords))})
}
