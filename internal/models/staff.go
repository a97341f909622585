package models

// Staff status constants
const (
	StaffStatusActive   = "Active"
	StaffStatusOnLeave  = "On Leave"
	StaffStatusResigned = "Resigned"
)

// Leave status constants
const (
	LeaveStatusApproved = "Approved"
	LeaveStatusPending  = "Pending"
	LeaveStatusRejected = "Rejected"
)

// Attendance status constants
const (
	AttendancePresent = "Present"
	AttendanceAbsent  = "Absent"
	AttendanceHalfDay = "Half Day"
	AttendanceOnLeave = "On Leave"
)

// StaffMember is a typed view of one row of the staff table
type StaffMember struct {
	ID          string `json:"staff_id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	JoiningDate string `json:"joining_date"`
	Status      string `json:"status"`
	Salary      string `json:"salary"`
	Branch      string `json:"branch"`
}

// StaffFromRow decodes row i of the staff table
func StaffFromRow(t *Table, i int) StaffMember {
	return StaffMember{
		ID:          t.Value(i, ColStaffID),
		Name:        t.Value(i, ColName),
		Role:        t.Value(i, ColRole),
		Phone:       t.Value(i, ColPhone),
		Email:       t.Value(i, ColEmail),
		JoiningDate: t.Value(i, ColJoiningDate),
		Status:      t.Value(i, ColStatus),
		Salary:      t.Value(i, ColSalary),
		Branch:      t.Value(i, ColBranch),
	}
}

// Values encodes the staff member as a column→value map
func (s StaffMember) Values() map[string]string {
	return map[string]string{
		ColStaffID:     s.ID,
		ColName:        s.Name,
		ColRole:        s.Role,
		ColPhone:       s.Phone,
		ColEmail:       s.Email,
		ColJoiningDate: s.JoiningDate,
		ColStatus:      s.Status,
		ColSalary:      s.Salary,
		ColBranch:      s.Branch,
	}
}

// LeaveRecord is a typed view of one row of the leave table
type LeaveRecord struct {
	ID        string `json:"leave_id"`
	StaffName string `json:"staff_name"`
	LeaveType string `json:"leave_type"`
	FromDate  string `json:"from_date"`
	ToDate    string `json:"to_date"`
	Status    string `json:"status"`
	Remarks   string `json:"remarks,omitempty"`
}

// LeaveFromRow decodes row i of the leave table
func LeaveFromRow(t *Table, i int) LeaveRecord {
	return LeaveRecord{
		ID:        t.Value(i, ColLeaveID),
		StaffName: t.Value(i, ColStaffName),
		LeaveType: t.Value(i, ColLeaveType),
		FromDate:  t.Value(i, ColFromDate),
		ToDate:    t.Value(i, ColToDate),
		Status:    t.Value(i, ColStatus),
		Remarks:   t.Value(i, ColRemarks),
	}
}

// Values encodes the leave record as a column→value map
func (l LeaveRecord) Values() map[string]string {
	return map[string]string{
		ColLeaveID:   l.ID,
		ColStaffName: l.StaffName,
		ColLeaveType: l.LeaveType,
		ColFromDate:  l.FromDate,
		ColToDate:    l.ToDate,
		ColStatus:    l.Status,
		ColRemarks:   l.Remarks,
	}
}

// CreateStaffRequest represents the add-staff form payload
type CreateStaffRequest struct {
	Name        string  `json:"name" binding:"required"`
	Role        string  `json:"role" binding:"required"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email" binding:"omitempty,email"`
	JoiningDate string  `json:"joining_date" binding:"required"`
	Status      string  `json:"status" binding:"omitempty,oneof=Active 'On Leave' Resigned"`
	Salary      float64 `json:"salary" binding:"min=0"`
	Branch      string  `json:"branch"`
}

// UpdateStaffRequest carries the editable staff fields. Empty fields keep their stored value.
type UpdateStaffRequest struct {
	Name   string   `json:"name"`
	Role   string   `json:"role"`
	Phone  string   `json:"phone"`
	Email  string   `json:"email" binding:"omitempty,email"`
	Status string   `json:"status" binding:"omitempty,oneof=Active 'On Leave' Resigned"`
	Salary *float64 `json:"salary" binding:"omitempty,min=0"`
	Branch string   `json:"branch"`
}

// CreateLeaveRequest represents the leave application payload
type CreateLeaveRequest struct {
	StaffName string `json:"staff_name" binding:"required"`
	LeaveType string `json:"leave_type" binding:"required"`
	FromDate  string `json:"from_date" binding:"required"`
	ToDate    string `json:"to_date" binding:"required"`
	Remarks   string `json:"remarks"`
}

// StaffSearchFilter narrows the staff list. "All" or empty means no filter.
type StaffSearchFilter struct {
	Name   string `form:"name"`
	Role   string `form:"role"`
	Branch string `form:"branch"`
	Status string `form:"status"`
}
