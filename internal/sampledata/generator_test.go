package sampledata

import (
	"testing"
	"time"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/blsh/salon-dashboard/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestGenerator_Deterministic(t *testing.T) {
	a := NewGenerator(42, fixedNow).Tables()
	b := NewGenerator(42, fixedNow).Tables()

	require.Len(t, a, len(models.AllTables))
	for i := range a {
		assert.Equal(t, a[i].Columns, b[i].Columns, a[i].Name)
		assert.Equal(t, a[i].Rows, b[i].Rows, a[i].Name)
	}
}

func TestGenerator_TableShapes(t *testing.T) {
	g := NewGenerator(7, fixedNow)

	names := map[models.TableName]int{}
	for _, table := range g.Tables() {
		names[table.Name] = table.Len()
		assert.False(t, table.Dirty(), table.Name)
	}

	assert.Equal(t, ServiceRows, names[models.TableServiceSales])
	assert.Equal(t, ProductRows, names[models.TableProductSales])
	assert.Equal(t, AppointmentRows, names[models.TableAppointments])
	assert.Equal(t, 5, names[models.TableStaff])
	assert.Equal(t, LeaveRows, names[models.TableLeaveRecords])
	assert.Equal(t, 5*AttendanceDays, names[models.TableAttendance])
	assert.Equal(t, 2, names[models.TableBranches])
	assert.Equal(t, 11, names[models.TableServicesCatalog])
	assert.Equal(t, 5, names[models.TableEmployees])
}

func TestGenerator_ServiceSalesNormalize(t *testing.T) {
	sales := NewGenerator(42, fixedNow).ServiceSales()
	clock := services.NewTimeNormalizer(time.UTC).WithClock(func() time.Time { return fixedNow })

	tt := clock.Normalize(sales)
	require.True(t, tt.ValidTimes())
	for i := 0; i < tt.Len(); i++ {
		require.True(t, tt.Times[i].Valid, "row %d", i)
		assert.False(t, tt.Times[i].Time.After(fixedNow.Add(12*time.Hour)))
	}

	used := 0
	for _, col := range models.ServiceFlagColumns {
		if sales.Value(0, col) == "TRUE" {
			used++
		}
	}
	assert.GreaterOrEqual(t, used, 1)
	assert.LessOrEqual(t, used, 3)
}

func TestGenerator_AppointmentsRespectOverlapInvariant(t *testing.T) {
	table := NewGenerator(42, fixedNow).Appointments()
	appts := models.Appointments(table)
	slots := services.NewSlotService(services.NewTimeNormalizer(time.UTC))
	clock := services.NewTimeNormalizer(time.UTC)

	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	for _, a := range appts {
		day, ok := clock.ParseDay(a.Date)
		require.True(t, ok)
		if day.Before(today) {
			assert.Contains(t, []string{models.AppointmentStatusCompleted, models.AppointmentStatusCancelled}, a.Status)
			continue
		}
		if !a.IsActive() {
			continue
		}
		start, ok := services.ParseTimeSlot(a.TimeSlot)
		require.True(t, ok)
		duration, ok := a.DurationMinutes()
		require.True(t, ok)
		assert.False(t, slots.HasOverlap(appts, a.Employee, day, start, duration, a.ID), a.ID)
	}

	assert.Equal(t, "APT1000", appts[0].ID)
	assert.Equal(t, "APT1149", appts[len(appts)-1].ID)
}

func TestGenerator_StaffIDs(t *testing.T) {
	staff := NewGenerator(1, fixedNow).Staff()
	assert.Equal(t, "STF001", staff.Value(0, models.ColStaffID))
	assert.Equal(t, "STF005", staff.Value(4, models.ColStaffID))
	assert.Equal(t, "priya@blsh.com", staff.Value(0, models.ColEmail))
	assert.Equal(t, "STF006", services.NextID(staff, models.ColStaffID, services.StaffIDPrefix, services.StaffIDStart, services.StaffIDWidth))
}

func TestGenerator_LeaveRanges(t *testing.T) {
	leave := NewGenerator(3, fixedNow).LeaveRecords()
	clock := services.NewTimeNormalizer(time.UTC)
	for i := 0; i < leave.Len(); i++ {
		from, ok := clock.ParseDay(leave.Value(i, models.ColFromDate))
		require.True(t, ok)
		to, ok := clock.ParseDay(leave.Value(i, models.ColToDate))
		require.True(t, ok)
		assert.False(t, to.Before(from))
	}
}
