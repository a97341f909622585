package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blsh/salon-dashboard/internal/database"
	"github.com/blsh/salon-dashboard/internal/middleware"
	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/blsh/salon-dashboard/internal/services"
	"github.com/blsh/salon-dashboard/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

type memoryRecorder struct {
	entries []*models.LedgerAudit
}

func (r *memoryRecorder) Log(_ context.Context, audit *models.LedgerAudit) error {
	r.entries = append(r.entries, audit)
	return nil
}

func (r *memoryRecorder) Recent(_ context.Context, limit int) ([]*models.LedgerAudit, error) {
	if len(r.entries) > limit {
		return r.entries[:limit], nil
	}
	return r.entries, nil
}

func (r *memoryRecorder) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type testServer struct {
	router   *gin.Engine
	dir      string
	recorder *memoryRecorder
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	dir := t.TempDir()
	store := database.NewCSVStore(dir, database.NewTableCache(time.Minute), logger)
	clock := services.NewTimeNormalizer(time.UTC).WithClock(func() time.Time { return testNow })

	slots := services.NewSlotService(clock)
	sales := services.NewSalesService(clock)
	products := services.NewProductService(clock)
	staff := services.NewStaffAnalyticsService(clock)
	ledger := services.NewLedgerService(store, slots, clock, logger)
	recorder := &memoryRecorder{}
	audit := services.NewAuditService(recorder, logger)

	salesHandler := NewSalesHandler(store, clock, sales, products)
	bookingHandler := NewBookingHandler(store, clock, slots, ledger, audit, validator.NewPhoneValidator(), logger)
	staffHandler := NewStaffHandler(store, staff, ledger, audit, logger)
	catalogHandler := NewCatalogHandler(store)
	exportHandler := NewExportHandler(store, clock, services.NewExportService(sales, products, staff), logger)
	auditHandler := NewAuditHandler(audit, logger)

	router := gin.New()
	router.Use(middleware.RequestID())
	v1 := router.Group("/api/v1")
	v1.GET("/dashboard/summary", salesHandler.GetSummary)
	v1.GET("/services/incentives", salesHandler.GetIncentives)
	v1.GET("/services/months", salesHandler.GetMonths)
	v1.GET("/products/summary", salesHandler.GetProductSummary)
	v1.GET("/bookings", bookingHandler.ListByDate)
	v1.GET("/bookings/kpis", bookingHandler.GetKPIs)
	v1.GET("/bookings/search", bookingHandler.Search)
	v1.GET("/bookings/timeline", bookingHandler.GetTimeline)
	v1.GET("/bookings/availability", bookingHandler.GetAvailability)
	v1.POST("/bookings", bookingHandler.Create)
	v1.PUT("/bookings/:id", bookingHandler.Update)
	v1.POST("/bookings/:id/cancel", bookingHandler.Cancel)
	v1.POST("/bookings/:id/complete", bookingHandler.Complete)
	v1.GET("/catalog/branches", catalogHandler.GetBranches)
	v1.GET("/staff", staffHandler.List)
	v1.POST("/staff", staffHandler.Create)
	v1.GET("/staff/kpis", staffHandler.GetKPIs)
	v1.GET("/staff/attendance", staffHandler.GetAttendance)
	v1.POST("/staff/leaves", staffHandler.CreateLeave)
	v1.GET("/staff/leaves/calendar", staffHandler.GetLeaveCalendar)
	v1.PUT("/staff/:id", staffHandler.Update)
	v1.DELETE("/staff/:id", staffHandler.Resign)
	v1.GET("/exports/:report", exportHandler.Download)
	v1.GET("/audit", auditHandler.GetRecent)

	return &testServer{router: router, dir: dir, recorder: recorder}
}

func (s *testServer) writeCSV(t *testing.T, name models.TableName, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, string(name)+".csv"), []byte(content), 0o644))
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func bookingBody() map[string]interface{} {
	return map[string]interface{}{
		"name":               "Asha",
		"phone_number":       "+91 98765 43210",
		"service_booked":     "Facial",
		"preferred_employee": "Priya",
		"appointment_date":   "2026-10-16",
		"time_slot":          "10:00",
		"duration":           60,
	}
}

func TestBookingFlow(t *testing.T) {
	srv := setupTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/bookings", bookingBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Appointment models.Appointment `json:"appointment"`
	}
	decode(t, w, &created)
	assert.Equal(t, "APT1000", created.Appointment.ID)
	assert.Equal(t, "9876543210", created.Appointment.ClientPhone)
	assert.Equal(t, models.AppointmentStatusConfirmed, created.Appointment.Status)

	// the same slot is now taken
	w = srv.do(t, http.MethodPost, "/api/v1/bookings", bookingBody())
	require.Equal(t, http.StatusConflict, w.Code)
	var errResp ErrorResponse
	decode(t, w, &errResp)
	assert.Equal(t, "slot_unavailable", errResp.Error)

	w = srv.do(t, http.MethodGet, "/api/v1/bookings/availability?employee=Priya&date=2026-10-16&duration=30", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var availability struct {
		Slots []string `json:"available_slots"`
	}
	decode(t, w, &availability)
	assert.Len(t, availability.Slots, 20)
	assert.NotContains(t, availability.Slots, "10:30")

	w = srv.do(t, http.MethodGet, "/api/v1/bookings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Date         string               `json:"date"`
		Appointments []models.Appointment `json:"appointments"`
	}
	decode(t, w, &list)
	assert.Equal(t, "2026-10-16", list.Date)
	assert.Len(t, list.Appointments, 1)

	w = srv.do(t, http.MethodGet, "/api/v1/bookings/kpis", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var kpis models.BookingKPIs
	decode(t, w, &kpis)
	assert.Equal(t, 1, kpis.TotalToday)
	assert.Equal(t, 1, kpis.ConfirmedToday)

	w = srv.do(t, http.MethodPost, "/api/v1/bookings/APT1000/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodPost, "/api/v1/bookings/APT1000/complete", nil)
	require.Equal(t, http.StatusConflict, w.Code)
	decode(t, w, &errResp)
	assert.Equal(t, "appointment_closed", errResp.Error)

	// the cancelled slot is free again
	w = srv.do(t, http.MethodPost, "/api/v1/bookings", bookingBody())
	require.Equal(t, http.StatusCreated, w.Code)
	decode(t, w, &created)
	assert.Equal(t, "APT1001", created.Appointment.ID)

	require.Len(t, srv.recorder.entries, 3)
	assert.Equal(t, models.ActionAppointmentCreated, srv.recorder.entries[0].Action)
	assert.Equal(t, models.ActionAppointmentCancelled, srv.recorder.entries[1].Action)
	require.NotNil(t, srv.recorder.entries[0].RequestID)
	assert.NotEmpty(t, *srv.recorder.entries[0].RequestID)
}

func TestCreateBooking_Validation(t *testing.T) {
	srv := setupTestServer(t)

	tests := []struct {
		name   string
		mutate func(body map[string]interface{})
		code   string
	}{
		{"missing name", func(b map[string]interface{}) { delete(b, "name") }, "validation_error"},
		{"zero duration", func(b map[string]interface{}) { b["duration"] = 0 }, "validation_error"},
		{"bad phone", func(b map[string]interface{}) { b["phone_number"] = "12345" }, "invalid_phone"},
		{"bad date", func(b map[string]interface{}) { b["appointment_date"] = "someday" }, "invalid_date"},
		{"bad slot", func(b map[string]interface{}) { b["time_slot"] = "ten" }, "invalid_time_slot"},
		{"off-grid slot", func(b map[string]interface{}) { b["time_slot"] = "10:17" }, "invalid_time_slot"},
		{"after closing", func(b map[string]interface{}) { b["time_slot"] = "23:45" }, "invalid_time_slot"},
		{"before opening", func(b map[string]interface{}) { b["time_slot"] = "06:00" }, "invalid_time_slot"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := bookingBody()
			tc.mutate(body)
			w := srv.do(t, http.MethodPost, "/api/v1/bookings", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp ErrorResponse
			decode(t, w, &resp)
			assert.Equal(t, tc.code, resp.Error)
		})
	}
	assert.Empty(t, srv.recorder.entries)
}

func TestUpdateBooking(t *testing.T) {
	srv := setupTestServer(t)
	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/api/v1/bookings", bookingBody()).Code)

	w := srv.do(t, http.MethodPut, "/api/v1/bookings/APT1000", map[string]interface{}{"time_slot": "15:00", "notes": "moved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Appointment models.Appointment `json:"appointment"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "15:00", resp.Appointment.TimeSlot)
	assert.Equal(t, "moved", resp.Appointment.Notes)

	w = srv.do(t, http.MethodPut, "/api/v1/bookings/APT1000", map[string]interface{}{"time_slot": "15:10"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPut, "/api/v1/bookings/APT9999", map[string]interface{}{"notes": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(t, http.MethodPut, "/api/v1/bookings/APT1000", map[string]interface{}{"status": "Lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAvailability_Validation(t *testing.T) {
	srv := setupTestServer(t)

	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodGet, "/api/v1/bookings/availability?date=2026-10-16", nil).Code)
	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodGet, "/api/v1/bookings/availability?employee=Priya", nil).Code)
	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodGet, "/api/v1/bookings/availability?employee=Priya&date=2026-10-16&duration=-5", nil).Code)
}

func TestSalesEndpoints(t *testing.T) {
	srv := setupTestServer(t)
	srv.writeCSV(t, models.TableServiceSales, "Timestamp,Name,Phone Number,Bill Amount,Service done by\n"+
		"16/10/2026 10:00:00,Asha,9876543210,1000,Priya\n"+
		"14/10/2026 11:00:00,Ravi,9123456789,500,Meena\n"+
		"20/09/2026 11:00:00,Kiran,9000000001,300,Priya\n")
	srv.writeCSV(t, models.TableProductSales, "Timestamp,Client Name,Client Number,Sold by,Product Name,Bill Amount\n"+
		"16/10/2026 10:30:00,Asha,9876543210,Priya,Shampoo,400\n")

	w := srv.do(t, http.MethodGet, "/api/v1/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary models.DashboardSummary
	decode(t, w, &summary)
	assert.Equal(t, 1000.0, summary.Today.Sales)
	assert.Equal(t, 1500.0, summary.ThisWeek.Sales)
	assert.Equal(t, 300.0, summary.PreviousMonth.Sales)
	assert.Equal(t, 400.0, summary.ProductRevenue)
	assert.Equal(t, 1, summary.ProductsToday)

	w = srv.do(t, http.MethodGet, "/api/v1/services/incentives", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var incentives struct {
		Incentives []models.Incentive `json:"incentives"`
	}
	decode(t, w, &incentives)
	require.Len(t, incentives.Incentives, 2)
	assert.Equal(t, models.Incentive{Employee: "Priya", TotalSales: 1300, Incentive: 13}, incentives.Incentives[0])

	w = srv.do(t, http.MethodGet, "/api/v1/services/months", nil)
	var months struct {
		Months []string `json:"months"`
	}
	decode(t, w, &months)
	assert.Equal(t, []string{services.AllMonths, "September", "October"}, months.Months)
}

func TestSalesEndpoints_MissingFiles(t *testing.T) {
	srv := setupTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary models.DashboardSummary
	decode(t, w, &summary)
	assert.Zero(t, summary.Today.Sales)
	assert.Zero(t, summary.ProductsSold)

	w = srv.do(t, http.MethodGet, "/api/v1/services/incentives", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"incentives":[]}`, w.Body.String())
}

func TestStaffFlow(t *testing.T) {
	srv := setupTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/staff", map[string]interface{}{
		"name":         "Priya",
		"role":         "Stylist",
		"joining_date": "2026-10-01",
		"salary":       25000,
		"branch":       "Main",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Staff models.StaffMember `json:"staff"`
	}
	decode(t, w, &created)
	assert.Equal(t, "STF001", created.Staff.ID)

	w = srv.do(t, http.MethodPost, "/api/v1/staff", map[string]interface{}{"name": "Meena", "role": "Stylist", "joining_date": "2025-03-01", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPut, "/api/v1/staff/STF001", map[string]interface{}{"role": "Senior Stylist"})
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/staff/kpis", nil)
	var kpis models.StaffKPIs
	decode(t, w, &kpis)
	assert.Equal(t, models.StaffKPIs{TotalStaff: 1, ActiveStaff: 1, NewThisMonth: 1}, kpis)

	w = srv.do(t, http.MethodDelete, "/api/v1/staff/STF001", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/staff?status=Resigned", nil)
	var list struct {
		Staff []models.StaffMember `json:"staff"`
		Count int                  `json:"count"`
	}
	decode(t, w, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Senior Stylist", list.Staff[0].Role)

	w = srv.do(t, http.MethodDelete, "/api/v1/staff/STF404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Len(t, srv.recorder.entries, 3)
	assert.Equal(t, models.ActionStaffResigned, srv.recorder.entries[2].Action)
}

func TestLeaveFlow(t *testing.T) {
	srv := setupTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/staff/leaves", map[string]interface{}{
		"staff_name": "Priya",
		"leave_type": "Sick",
		"from_date":  "2026-10-22",
		"to_date":    "2026-10-20",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var errResp ErrorResponse
	decode(t, w, &errResp)
	assert.Equal(t, "invalid_leave_range", errResp.Error)

	w = srv.do(t, http.MethodPost, "/api/v1/staff/leaves", map[string]interface{}{
		"staff_name": "Priya",
		"leave_type": "Sick",
		"from_date":  "2026-10-20",
		"to_date":    "2026-10-22",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Leave models.LeaveRecord `json:"leave"`
	}
	decode(t, w, &created)
	assert.Equal(t, "LV1000", created.Leave.ID)
	assert.Equal(t, models.LeaveStatusPending, created.Leave.Status)

	// pending leaves are not on the calendar
	w = srv.do(t, http.MethodGet, "/api/v1/staff/leaves/calendar", nil)
	assert.JSONEq(t, `{"days":[]}`, w.Body.String())
}

func TestGetAttendance(t *testing.T) {
	srv := setupTestServer(t)
	srv.writeCSV(t, models.TableAttendance, "Staff Name,Date,Status\n"+
		"Priya,2026-10-16,Present\n"+
		"Priya,2026-10-15,Absent\n"+
		"Meena,2026-10-16,Present\n")

	w := srv.do(t, http.MethodGet, "/api/v1/staff/attendance", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		WindowDays int                       `json:"window_days"`
		Overview   models.AttendanceOverview `json:"overview"`
		Staff      []models.AttendanceStat   `json:"staff"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 30, resp.WindowDays)
	require.Len(t, resp.Staff, 2)
	assert.Equal(t, "Meena", resp.Staff[0].StaffName)
	assert.Equal(t, 50.0, resp.Staff[1].AttendancePct)
	assert.Equal(t, 75.0, resp.Overview.AveragePct)
}

func TestCatalog(t *testing.T) {
	srv := setupTestServer(t)
	srv.writeCSV(t, models.TableBranches, "Branch ID,Branch Name,Location,Manager\nBR001,Main,MG Road,Lakshmi\n")

	w := srv.do(t, http.MethodGet, "/api/v1/catalog/branches", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Branches []map[string]string `json:"branches"`
		Count    int                 `json:"count"`
	}
	decode(t, w, &resp)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Main", resp.Branches[0]["Branch Name"])
}

func TestExportDownload(t *testing.T) {
	srv := setupTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/exports/incentives", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "incentives_2026-10-16.xlsx")
	assert.NotEmpty(t, w.Body.Bytes())

	w = srv.do(t, http.MethodGet, "/api/v1/exports/payroll", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuditRecent(t *testing.T) {
	srv := setupTestServer(t)
	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/api/v1/bookings", bookingBody()).Code)

	w := srv.do(t, http.MethodGet, "/api/v1/audit?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Enabled bool                  `json:"enabled"`
		Entries []*models.LedgerAudit `json:"entries"`
	}
	decode(t, w, &resp)
	assert.True(t, resp.Enabled)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "APT1000", resp.Entries[0].EntityID)

	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodGet, "/api/v1/audit?limit=ten", nil).Code)
}
