package services

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/sirupsen/logrus"
)

// TableStore loads and saves whole tables
type TableStore interface {
	// Load returns a private copy of the table; a missing file yields an empty table
	Load(name models.TableName) (*models.Table, error)
	// Save overwrites the table's file and invalidates any cached copy
	Save(t *models.Table) error
}

// Identifier prefixes and starting values
const (
	AppointmentIDPrefix = "APT"
	AppointmentIDStart  = 1000
	StaffIDPrefix       = "STF"
	StaffIDStart        = 1
	StaffIDWidth        = 3
	LeaveIDPrefix       = "LV"
	LeaveIDStart        = 1000
)

const createdAtLayout = "2006-01-02 15:04:05"

// LedgerService creates and updates appointments, staff and leave records.
// Each mutation loads the table, changes a private copy and saves the whole table back.
// Mutations are serialised, so the service must be the only writer of its tables:
// ids are derived from the current maximum.
type LedgerService struct {
	mu     sync.Mutex
	store  TableStore
	slots  *SlotService
	clock  *TimeNormalizer
	logger *logrus.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(store TableStore, slots *SlotService, clock *TimeNormalizer, logger *logrus.Logger) *LedgerService {
	return &LedgerService{
		store:  store,
		slots:  slots,
		clock:  clock,
		logger: logger,
	}
}

// NextID returns prefix followed by the largest numeric suffix in column plus one.
// Values without the prefix or with a non-numeric suffix are ignored; when none remain
// the id starts at start. width > 0 zero-pads the number.
func NextID(t *models.Table, column, prefix string, start, width int) string {
	max, found := 0, false
	for i := 0; i < t.Len(); i++ {
		v := t.Value(i, column)
		if !strings.HasPrefix(v, prefix) {
			continue
		}
		n, err := strconv.Atoi(v[len(prefix):])
		if err != nil || n < 0 {
			continue
		}
		if !found || n > max {
			max, found = n, true
		}
	}
	next := start
	if found {
		next = max + 1
	}
	if width > 0 {
		return fmt.Sprintf("%s%0*d", prefix, width, next)
	}
	return prefix + strconv.Itoa(next)
}

// CreateAppointment books a new Confirmed appointment after re-checking the slot
func (s *LedgerService) CreateAppointment(req models.CreateAppointmentRequest) (models.Appointment, error) {
	day, ok := s.clock.ParseDay(req.Date)
	if !ok {
		return models.Appointment{}, ErrInvalidDate
	}
	start, ok := ParseTimeSlot(req.TimeSlot)
	if !ok || !IsBookableStart(start) {
		return models.Appointment{}, ErrInvalidTimeSlot
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.Load(models.TableAppointments)
	if err != nil {
		return models.Appointment{}, fmt.Errorf("failed to load appointments: %w", err)
	}

	if s.slots.HasOverlap(models.Appointments(t), req.Employee, day, start, req.Duration, "") {
		return models.Appointment{}, ErrSlotUnavailable
	}

	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = models.AppointmentSourceWalkIn
	}

	appt := models.Appointment{
		ID:          NextID(t, models.ColAppointmentID, AppointmentIDPrefix, AppointmentIDStart, 0),
		ClientName:  strings.TrimSpace(req.ClientName),
		ClientPhone: strings.TrimSpace(req.ClientPhone),
		Service:     strings.TrimSpace(req.Service),
		Employee:    strings.TrimSpace(req.Employee),
		Date:        day.Format(dateLayout),
		TimeSlot:    FormatMinutes(start),
		Duration:    strconv.Itoa(req.Duration),
		Status:      models.AppointmentStatusConfirmed,
		Source:      source,
		Notes:       strings.TrimSpace(req.Notes),
		CreatedAt:   s.clock.Now().Format(createdAtLayout),
	}
	t.Append(appt.Values())

	if err := s.store.Save(t); err != nil {
		return models.Appointment{}, fmt.Errorf("failed to save appointments: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"appointment_id": appt.ID,
		"employee":       appt.Employee,
		"date":           appt.Date,
		"time_slot":      appt.TimeSlot,
	}).Info("Appointment created")

	return appt, nil
}

// UpdateAppointment edits a booking. An active booking is re-checked against every
// other booking of the (possibly new) employee and date.
func (s *LedgerService) UpdateAppointment(id string, req models.UpdateAppointmentRequest) (models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.Load(models.TableAppointments)
	if err != nil {
		return models.Appointment{}, fmt.Errorf("failed to load appointments: %w", err)
	}
	row := t.FindRow(models.ColAppointmentID, id)
	if row < 0 {
		return models.Appointment{}, ErrAppointmentNotFound
	}
	appt := models.AppointmentFromRow(t, row)
	if !appt.IsActive() && req.Status == "" {
		return models.Appointment{}, ErrAppointmentClosed
	}

	if v := strings.TrimSpace(req.ClientName); v != "" {
		appt.ClientName = v
	}
	if v := strings.TrimSpace(req.ClientPhone); v != "" {
		appt.ClientPhone = v
	}
	if v := strings.TrimSpace(req.Service); v != "" {
		appt.Service = v
	}
	if v := strings.TrimSpace(req.Employee); v != "" {
		appt.Employee = v
	}
	if req.Date != "" {
		day, ok := s.clock.ParseDay(req.Date)
		if !ok {
			return models.Appointment{}, ErrInvalidDate
		}
		appt.Date = day.Format(dateLayout)
	}
	if req.TimeSlot != "" {
		start, ok := ParseTimeSlot(req.TimeSlot)
		if !ok || !IsBookableStart(start) {
			return models.Appointment{}, ErrInvalidTimeSlot
		}
		appt.TimeSlot = FormatMinutes(start)
	}
	if req.Duration > 0 {
		appt.Duration = strconv.Itoa(req.Duration)
	}
	if req.Status != "" {
		appt.Status = req.Status
	}
	if req.Notes != "" {
		appt.Notes = strings.TrimSpace(req.Notes)
	}

	if appt.IsActive() {
		duration, ok := appt.DurationMinutes()
		if !ok {
			duration = SlotStepMinutes
		}
		if err := s.slots.CheckSlot(models.Appointments(t), appt.Employee, appt.Date, appt.TimeSlot, duration, appt.ID); err != nil {
			return models.Appointment{}, err
		}
	}

	values := appt.Values()
	for _, col := range models.DefaultColumns[models.TableAppointments] {
		if v := values[col]; t.Has(col) || v != "" {
			t.Set(row, col, v)
		}
	}
	if err := s.store.Save(t); err != nil {
		return models.Appointment{}, fmt.Errorf("failed to save appointments: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"appointment_id": appt.ID,
		"status":         appt.Status,
	}).Info("Appointment updated")

	return appt, nil
}

// CancelAppointment marks a booking Cancelled, freeing its slot
func (s *LedgerService) CancelAppointment(id string) (models.Appointment, error) {
	return s.setAppointmentStatus(id, models.AppointmentStatusCancelled, models.AppointmentStatusCompleted)
}

// CompleteAppointment marks a booking Completed
func (s *LedgerService) CompleteAppointment(id string) (models.Appointment, error) {
	return s.setAppointmentStatus(id, models.AppointmentStatusCompleted, models.AppointmentStatusCancelled)
}

func (s *LedgerService) setAppointmentStatus(id, status, conflicting string) (models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.Load(models.TableAppointments)
	if err != nil {
		return models.Appointment{}, fmt.Errorf("failed to load appointments: %w", err)
	}
	row := t.FindRow(models.ColAppointmentID, id)
	if row < 0 {
		return models.Appointment{}, ErrAppointmentNotFound
	}
	appt := models.AppointmentFromRow(t, row)
	if strings.EqualFold(appt.Status, conflicting) {
		return models.Appointment{}, ErrAppointmentClosed
	}
	if strings.EqualFold(appt.Status, status) {
		return appt, nil
	}

	appt.Status = status
	t.Set(row, models.ColStatus, status)
	if err := s.store.Save(t); err != nil {
		return models.Appointment{}, fmt.Errorf("failed to save appointments: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"appointment_id": id,
		"status":         status,
	}).Info("Appointment status changed")

	return appt, nil
}

// AddStaff appends a new staff member with the next STF id
func (s *LedgerService) AddStaff(req models.CreateStaffRequest) (models.StaffMember, error) {
	joined, ok := s.clock.ParseDay(req.JoiningDate)
	if !ok {
		return models.StaffMember{}, ErrInvalidDate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.Load(models.TableStaff)
	if err != nil {
		return models.StaffMember{}, fmt.Errorf("failed to load staff: %w", err)
	}

	status := req.Status
	if status == "" {
		status = models.StaffStatusActive
	}

	member := models.StaffMember{
		ID:          NextID(t, models.ColStaffID, StaffIDPrefix, StaffIDStart, StaffIDWidth),
		Name:        strings.TrimSpace(req.Name),
		Role:        strings.TrimSpace(req.Role),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       strings.TrimSpace(req.Email),
		JoiningDate: joined.Format(dateLayout),
		Status:      status,
		Salary:      strconv.FormatFloat(req.Salary, 'f', -1, 64),
		Branch:      strings.TrimSpace(req.Branch),
	}
	t.Append(member.Values())

	if err := s.store.Save(t); err != nil {
		return models.StaffMember{}, fmt.Errorf("failed to save staff: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"staff_id": member.ID,
		"role":     member.Role,
	}).Info("Staff member added")

	return member, nil
}

// UpdateStaff edits a staff member. Empty request fields keep their stored value.
func (s *LedgerService) UpdateStaff(id string, req models.UpdateStaffRequest) (models.StaffMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.Load(models.TableStaff)
	if err != nil {
		return models.StaffMember{}, fmt.Errorf("failed to load staff: %w", err)
	}
	row := t.FindRow(models.ColStaffID, id)
	if row < 0 {
		return models.StaffMember{}, ErrStaffNotFound
	}

	updates := map[string]string{}
	if v := strings.TrimSpace(req.Name); v != "" {
		updates[models.ColName] = v
	}
	if v := strings.TrimSpace(req.Role); v != "" {
		updates[models.ColRole] = v
	}
	if v := strings.TrimSpace(req.Phone); v != "" {
		updates[models.ColPhone] = v
	}
	if v := strings.TrimSpace(req.Email); v != "" {
		updates[models.ColEmail] = v
	}
	if req.Status != "" {
		updates[models.ColStatus] = req.Status
	}
	if req.Salary != nil {
		updates[models.ColSalary] = strconv.FormatFloat(*req.Salary, 'f', -1, 64)
	}
	if v := strings.TrimSpace(req.Branch); v != "" {
		updates[models.ColBranch] = v
	}
	for col, v := range updates {
		t.Set(row, col, v)
	}

	if err := s.store.Save(t); err != nil {
		return models.StaffMember{}, fmt.Errorf("failed to save staff: %w", err)
	}

	s.logger.WithField("staff_id", id).Info("Staff member updated")

	return models.StaffFromRow(t, row), nil
}

// ResignStaff soft-deletes a staff member by setting the status to Resigned
func (s *LedgerService) ResignStaff(id string) (models.StaffMember, error) {
	return s.UpdateStaff(id, models.UpdateStaffRequest{Status: models.StaffStatusResigned})
}

// AddLeave records a leave application as Pending
func (s *LedgerService) AddLeave(req models.CreateLeaveRequest) (models.LeaveRecord, error) {
	from, ok := s.clock.ParseDay(req.FromDate)
	if !ok {
		return models.LeaveRecord{}, ErrInvalidDate
	}
	to, ok := s.clock.ParseDay(req.ToDate)
	if !ok {
		return models.LeaveRecord{}, ErrInvalidDate
	}
	if to.Before(from) {
		return models.LeaveRecord{}, ErrInvalidLeaveRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.Load(models.TableLeaveRecords)
	if err != nil {
		return models.LeaveRecord{}, fmt.Errorf("failed to load leave records: %w", err)
	}

	leave := models.LeaveRecord{
		ID:        NextID(t, models.ColLeaveID, LeaveIDPrefix, LeaveIDStart, 0),
		StaffName: strings.TrimSpace(req.StaffName),
		LeaveType: strings.TrimSpace(req.LeaveType),
		FromDate:  from.Format(dateLayout),
		ToDate:    to.Format(dateLayout),
		Status:    models.LeaveStatusPending,
		Remarks:   strings.TrimSpace(req.Remarks),
	}
	t.Append(leave.Values())

	if err := s.store.Save(t); err != nil {
		return models.LeaveRecord{}, fmt.Errorf("failed to save leave records: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"leave_id":   leave.ID,
		"staff_name": leave.StaffName,
		"from":       leave.FromDate,
		"to":         leave.ToDate,
	}).Info("Leave recorded")

	return leave, nil
}
