package services

import (
	"sort"
	"strings"
	"time"

	"github.com/blsh/salon-dashboard/internal/models"
)

// Business hours, in minutes from midnight. The last slot starts half an hour before closing.
const (
	BusinessOpenMinute  = 9 * 60
	BusinessCloseMinute = 20 * 60
	SlotStepMinutes     = 30
)

// SlotService answers availability questions against a snapshot of the appointments table
type SlotService struct {
	clock *TimeNormalizer
}

// NewSlotService creates a new slot service
func NewSlotService(clock *TimeNormalizer) *SlotService {
	return &SlotService{
		clock: clock,
	}
}

// HasOverlap reports whether [start, start+duration) collides with an active booking of
// employee on date. The appointment with excludeID is ignored, so a booking can be
// re-checked against everything but itself. Rows with an unparsable date, time slot or
// duration never block.
func (s *SlotService) HasOverlap(appointments []models.Appointment, employee string, date time.Time, start, duration int, excludeID string) bool {
	end := start + duration
	employee = strings.TrimSpace(employee)

	for _, a := range appointments {
		if a.Employee != employee || !a.IsActive() {
			continue
		}
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		day, ok := s.clock.ParseDay(a.Date)
		if !ok || !sameDay(day, date) {
			continue
		}
		existingStart, ok := ParseTimeSlot(a.TimeSlot)
		if !ok {
			continue
		}
		existingDuration, ok := a.DurationMinutes()
		if !ok {
			continue
		}
		if start < existingStart+existingDuration && end > existingStart {
			return true
		}
	}
	return false
}

// AvailableSlots lists the slot labels between opening and the last half hour before
// closing that do not overlap an active booking, in time order
func (s *SlotService) AvailableSlots(appointments []models.Appointment, employee string, date time.Time, duration int) []string {
	slots := []string{}
	for m := BusinessOpenMinute; m < BusinessCloseMinute; m += SlotStepMinutes {
		if !s.HasOverlap(appointments, employee, date, m, duration, "") {
			slots = append(slots, FormatMinutes(m))
		}
	}
	return slots
}

// IsBookableStart reports whether start is a slot on the 30-minute grid within business hours
func IsBookableStart(start int) bool {
	return start%SlotStepMinutes == 0 && start >= BusinessOpenMinute && start < BusinessCloseMinute
}

// CheckSlot validates a requested booking and reports ErrSlotUnavailable on overlap.
// Starts off the slot grid or outside business hours are ErrInvalidTimeSlot.
func (s *SlotService) CheckSlot(appointments []models.Appointment, employee, date, slot string, duration int, excludeID string) error {
	day, ok := s.clock.ParseDay(date)
	if !ok {
		return ErrInvalidDate
	}
	start, ok := ParseTimeSlot(slot)
	if !ok || !IsBookableStart(start) {
		return ErrInvalidTimeSlot
	}
	if s.HasOverlap(appointments, employee, day, start, duration, excludeID) {
		return ErrSlotUnavailable
	}
	return nil
}

// KPIs returns today's totals, all pending bookings and bookings in the next 7 days
func (s *SlotService) KPIs(t *models.Table) models.BookingKPIs {
	var kpis models.BookingKPIs
	if t.IsEmpty() {
		return kpis
	}
	today := s.clock.Today()
	weekLater := today.AddDate(0, 0, 7)
	days := s.clock.ParseDays(t, models.ColAppointmentDate)

	for i, day := range days {
		status := t.Value(i, models.ColStatus)
		if strings.EqualFold(status, models.AppointmentStatusPending) {
			kpis.Pending++
		}
		if !day.Valid {
			continue
		}
		if sameDay(day.Time, today) {
			kpis.TotalToday++
			if strings.EqualFold(status, models.AppointmentStatusConfirmed) {
				kpis.ConfirmedToday++
			}
		}
		if !day.Time.Before(today) && !day.Time.After(weekLater) {
			kpis.NextSevenDays++
		}
	}
	return kpis
}

// ByDate returns the bookings on date ordered by time slot
func (s *SlotService) ByDate(t *models.Table, date time.Time) []models.Appointment {
	out := []models.Appointment{}
	if t.IsEmpty() {
		return out
	}
	days := s.clock.ParseDays(t, models.ColAppointmentDate)
	for i, day := range days {
		if day.Valid && sameDay(day.Time, date) {
			out = append(out, models.AppointmentFromRow(t, i))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return slotLess(out[i].TimeSlot, out[j].TimeSlot) })
	return out
}

// Heatmap counts bookings per day of the current month
func (s *SlotService) Heatmap(t *models.Table) []models.DateCount {
	out := []models.DateCount{}
	if t.IsEmpty() {
		return out
	}
	now := s.clock.Now()
	counts := make(map[string]int)
	for _, day := range s.clock.ParseDays(t, models.ColAppointmentDate) {
		if day.Valid && sameMonth(day.Time, now) {
			counts[day.Time.Format(dateLayout)]++
		}
	}
	for date, n := range counts {
		out = append(out, models.DateCount{Date: date, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Search filters bookings by name or phone substring and exact service, employee and
// status. Results are newest date first, then by time slot.
func (s *SlotService) Search(t *models.Table, filter models.BookingSearchFilter) []models.Appointment {
	out := []models.Appointment{}
	if t.IsEmpty() {
		return out
	}
	name := strings.ToLower(strings.TrimSpace(filter.Name))
	phone := strings.ToLower(strings.TrimSpace(filter.Phone))
	service, byService := filterValue(filter.Service)
	employee, byEmployee := filterValue(filter.Employee)
	status, byStatus := filterValue(filter.Status)

	var onDate time.Time
	byDate := false
	if filter.Date != "" {
		onDate, byDate = s.clock.ParseDay(filter.Date)
	}

	days := s.clock.ParseDays(t, models.ColAppointmentDate)
	type hit struct {
		appt models.Appointment
		day  time.Time
		ok   bool
	}
	var hits []hit
	for i := 0; i < t.Len(); i++ {
		a := models.AppointmentFromRow(t, i)
		if name != "" && !strings.Contains(strings.ToLower(a.ClientName), name) {
			continue
		}
		if phone != "" && !strings.Contains(strings.ToLower(a.ClientPhone), phone) {
			continue
		}
		if byService && a.Service != service {
			continue
		}
		if byEmployee && a.Employee != employee {
			continue
		}
		if byStatus && !strings.EqualFold(a.Status, status) {
			continue
		}
		if byDate && (!days[i].Valid || !sameDay(days[i].Time, onDate)) {
			continue
		}
		hits = append(hits, hit{appt: a, day: days[i].Time, ok: days[i].Valid})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.day.Equal(b.day) {
			return a.day.After(b.day)
		}
		return slotLess(a.appt.TimeSlot, b.appt.TimeSlot)
	})
	for _, h := range hits {
		out = append(out, h.appt)
	}
	return out
}

// Timeline returns today's active bookings with their start and end times
func (s *SlotService) Timeline(t *models.Table) []models.TimelineEntry {
	out := []models.TimelineEntry{}
	if t.IsEmpty() {
		return out
	}
	today := s.clock.Today()
	days := s.clock.ParseDays(t, models.ColAppointmentDate)
	for i, day := range days {
		if !day.Valid || !sameDay(day.Time, today) {
			continue
		}
		a := models.AppointmentFromRow(t, i)
		if !a.IsActive() {
			continue
		}
		start, ok := ParseTimeSlot(a.TimeSlot)
		if !ok {
			continue
		}
		duration, ok := a.DurationMinutes()
		if !ok {
			continue
		}
		out = append(out, models.TimelineEntry{
			AppointmentID: a.ID,
			Employee:      a.Employee,
			ClientName:    a.ClientName,
			Service:       a.Service,
			Start:         FormatMinutes(start),
			End:           FormatMinutes(start + duration),
			Status:        a.Status,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Employee != out[j].Employee {
			return out[i].Employee < out[j].Employee
		}
		return out[i].Start < out[j].Start
	})
	return out
}

// slotLess orders time slots by clock time; unparsable slots sort last
func slotLess(a, b string) bool {
	am, aok := ParseTimeSlot(a)
	bm, bok := ParseTimeSlot(b)
	if aok != bok {
		return aok
	}
	return am < bm
}
