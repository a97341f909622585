package models

import (
	"math"
	"strconv"
	"strings"
)

// Appointment status constants
const (
	AppointmentStatusConfirmed = "Confirmed"
	AppointmentStatusPending   = "Pending"
	AppointmentStatusCompleted = "Completed"
	AppointmentStatusCancelled = "Cancelled"
)

// Booking sources
const (
	AppointmentSourceWalkIn    = "Walk-in"
	AppointmentSourcePhone     = "Phone"
	AppointmentSourceInstagram = "Instagram"
	AppointmentSourceWhatsApp  = "WhatsApp"
	AppointmentSourceWebsite   = "Website"
)

// Appointment is a typed view of one row of the appointments table.
// Values stay as stored strings; Date and TimeSlot are parsed by the services that need them.
type Appointment struct {
	ID          string `json:"appointment_id"`
	ClientName  string `json:"name"`
	ClientPhone string `json:"phone_number"`
	Service     string `json:"service_booked"`
	Employee    string `json:"preferred_employee"`
	Date        string `json:"appointment_date"` // YYYY-MM-DD
	TimeSlot    string `json:"time_slot"`        // HH:MM
	Duration    string `json:"duration"`         // minutes
	Status      string `json:"status"`
	Source      string `json:"source"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// AppointmentFromRow decodes row i of an appointments table
func AppointmentFromRow(t *Table, i int) Appointment {
	return Appointment{
		ID:          t.Value(i, ColAppointmentID),
		ClientName:  t.Value(i, ColName),
		ClientPhone: t.Value(i, ColPhoneNumber),
		Service:     t.Value(i, ColServiceBooked),
		Employee:    t.Value(i, ColPreferredEmployee),
		Date:        t.Value(i, ColAppointmentDate),
		TimeSlot:    t.Value(i, ColTimeSlot),
		Duration:    t.Value(i, ColDuration),
		Status:      t.Value(i, ColStatus),
		Source:      t.Value(i, ColSource),
		Notes:       t.Value(i, ColNotes),
		CreatedAt:   t.Value(i, ColCreatedAt),
	}
}

// Appointments decodes every row of an appointments table
func Appointments(t *Table) []Appointment {
	out := make([]Appointment, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		out = append(out, AppointmentFromRow(t, i))
	}
	return out
}

// Values encodes the appointment as a column→value map
func (a Appointment) Values() map[string]string {
	return map[string]string{
		ColAppointmentID:     a.ID,
		ColName:              a.ClientName,
		ColPhoneNumber:       a.ClientPhone,
		ColServiceBooked:     a.Service,
		ColPreferredEmployee: a.Employee,
		ColAppointmentDate:   a.Date,
		ColTimeSlot:          a.TimeSlot,
		ColDuration:          a.Duration,
		ColStatus:            a.Status,
		ColSource:            a.Source,
		ColNotes:             a.Notes,
		ColCreatedAt:         a.CreatedAt,
	}
}

// DurationMinutes parses the stored duration. ok is false when it is not a positive number.
func (a Appointment) DurationMinutes() (int, bool) {
	v := strings.TrimSpace(a.Duration)
	if n, err := strconv.Atoi(v); err == nil {
		return n, n > 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || f <= 0 {
		return 0, false
	}
	return int(f), int(f) > 0
}

// IsActive reports whether the appointment still blocks its slot
func (a Appointment) IsActive() bool {
	return IsActiveAppointmentStatus(a.Status)
}

// IsActiveAppointmentStatus reports whether status is Confirmed or Pending, ignoring case
func IsActiveAppointmentStatus(status string) bool {
	s := strings.TrimSpace(status)
	return strings.EqualFold(s, AppointmentStatusConfirmed) || strings.EqualFold(s, AppointmentStatusPending)
}

// CreateAppointmentRequest represents the booking form payload
type CreateAppointmentRequest struct {
	ClientName  string `json:"name" binding:"required"`
	ClientPhone string `json:"phone_number" binding:"required"`
	Service     string `json:"service_booked" binding:"required"`
	Employee    string `json:"preferred_employee" binding:"required"`
	Date        string `json:"appointment_date" binding:"required"`
	TimeSlot    string `json:"time_slot" binding:"required"`
	Duration    int    `json:"duration" binding:"required,min=1"`
	Source      string `json:"source"`
	Notes       string `json:"notes"`
}

// UpdateAppointmentRequest carries the editable fields of a booking.
// Empty fields keep their stored value.
type UpdateAppointmentRequest struct {
	ClientName  string `json:"name"`
	ClientPhone string `json:"phone_number"`
	Service     string `json:"service_booked"`
	Employee    string `json:"preferred_employee"`
	Date        string `json:"appointment_date"`
	TimeSlot    string `json:"time_slot"`
	Duration    int    `json:"duration" binding:"omitempty,min=1"`
	Status      string `json:"status" binding:"omitempty,oneof=Confirmed Pending Completed Cancelled"`
	Notes       string `json:"notes"`
}

// BookingSearchFilter narrows the appointments list. "All" or empty means no filter.
type BookingSearchFilter struct {
	Name     string `form:"name"`
	Phone    string `form:"phone"`
	Service  string `form:"service"`
	Employee string `form:"employee"`
	Status   string `form:"status"`
	Date     string `form:"date"`
}
