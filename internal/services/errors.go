package services

import "errors"

var (
	// ErrSlotUnavailable indicates the requested slot overlaps an active booking
	ErrSlotUnavailable = errors.New("time slot overlaps an existing booking")

	// ErrInvalidTimeSlot indicates a time slot that is not HH:MM
	ErrInvalidTimeSlot = errors.New("time slot must be in HH:MM format")

	// ErrInvalidDate indicates a date value that cannot be parsed
	ErrInvalidDate = errors.New("invalid date")

	// ErrAppointmentNotFound indicates no appointment has the given id
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrStaffNotFound indicates no staff member has the given id
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrInvalidLeaveRange indicates a leave ending before it starts
	ErrInvalidLeaveRange = errors.New("leave end date is before start date")

	// ErrAppointmentClosed indicates a cancelled or completed appointment was edited
	ErrAppointmentClosed = errors.New("appointment is already cancelled or completed")
)
