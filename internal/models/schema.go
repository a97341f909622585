package models

// Transaction columns shared by the service and product sales exports
const (
	ColTimestamp  = "Timestamp"
	ColBillAmount = "Bill Amount"

	// Service sales
	ColName        = "Name"
	ColPhoneNumber = "Phone Number"
	ColServiceBy   = "Service done by"

	// Product sales
	ColClientName   = "Client Name"
	ColClientNumber = "Client Number"
	ColSoldBy       = "Sold by"
	ColProductName  = "Product Name"

	// Columns derived by the time normalizer
	ColDate  = "Date"
	ColMonth = "Month"
	ColWeek  = "Week"
	ColYear  = "Year"
)

// Appointment columns
const (
	ColAppointmentID     = "Appointment ID"
	ColServiceBooked     = "Service Booked"
	ColPreferredEmployee = "Preferred Employee"
	ColAppointmentDate   = "Appointment Date"
	ColTimeSlot          = "Time Slot"
	ColDuration          = "Duration"
	ColStatus            = "Status"
	ColSource            = "Source"
	ColNotes             = "Notes"
	ColCreatedAt         = "Created At"
)

// Staff, leave and attendance columns
const (
	ColStaffID     = "Staff ID"
	ColRole        = "Role"
	ColPhone       = "Phone"
	ColEmail       = "Email"
	ColJoiningDate = "Joining Date"
	ColSalary      = "Salary"
	ColBranch      = "Branch"

	ColLeaveID   = "Leave ID"
	ColStaffName = "Staff Name"
	ColLeaveType = "Leave Type"
	ColFromDate  = "From Date"
	ColToDate    = "To Date"
	ColRemarks   = "Remarks"

	ColCheckIn  = "Check In"
	ColCheckOut = "Check Out"
)

// Catalog columns
const (
	ColBranchID     = "Branch ID"
	ColBranchName   = "Branch Name"
	ColLocation     = "Location"
	ColManager      = "Manager"
	ColServiceName  = "Service Name"
	ColPrice        = "Price"
	ColEmployeeName = "Employee Name"
	ColAvailable    = "Available"
)

// ServiceFlagColumns are the per-service boolean columns of the service sales export
var ServiceFlagColumns = []string{
	"Waxing",
	"Facial",
	"De-tan",
	"Pedicure",
	"Manicure",
	"Bleaching",
	"Wash",
	"Massage",
	"Threading",
	"Hair Cut",
}

// DefaultColumns is the header written for a table whose file does not exist yet
var DefaultColumns = map[TableName][]string{
	TableServiceSales: append([]string{ColTimestamp, ColName, ColPhoneNumber, ColBillAmount, ColServiceBy}, ServiceFlagColumns...),
	TableProductSales: {ColTimestamp, ColClientName, ColClientNumber, ColSoldBy, ColProductName, ColBillAmount},
	TableAppointments: {
		ColAppointmentID, ColName, ColPhoneNumber, ColServiceBooked, ColPreferredEmployee,
		ColAppointmentDate, ColTimeSlot, ColDuration, ColStatus, ColSource, ColNotes, ColCreatedAt,
	},
	TableStaff:           {ColStaffID, ColName, ColRole, ColPhone, ColEmail, ColJoiningDate, ColStatus, ColSalary, ColBranch},
	TableLeaveRecords:    {ColLeaveID, ColStaffName, ColLeaveType, ColFromDate, ColToDate, ColStatus, ColRemarks},
	TableAttendance:      {ColStaffName, ColDate, ColStatus, ColCheckIn, ColCheckOut},
	TableBranches:        {ColBranchID, ColBranchName, ColLocation, ColManager},
	TableServicesCatalog: {ColServiceName, ColDuration, ColPrice},
	TableEmployees:       {ColEmployeeName, ColRole, ColAvailable},
}

// EmptyTable returns an empty table carrying the default header for name
func EmptyTable(name TableName) *Table {
	return NewTable(name, DefaultColumns[name])
}
