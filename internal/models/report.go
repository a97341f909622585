package models

// PeriodStat is the sales total and visit count for one period
type PeriodStat struct {
	Sales  float64 `json:"sales"`
	Visits int     `json:"visits"`
}

// ClientSplit counts today's distinct clients by whether they were seen before today
type ClientSplit struct {
	New      int `json:"new_clients"`
	Repeated int `json:"repeated_clients"`
}

// DashboardSummary holds the home tab KPIs
type DashboardSummary struct {
	Today          PeriodStat  `json:"today"`
	ThisWeek       PeriodStat  `json:"this_week"`
	ThisMonth      PeriodStat  `json:"this_month"`
	PreviousWeek   PeriodStat  `json:"previous_week"`
	PreviousMonth  PeriodStat  `json:"previous_month"`
	CustomersToday int         `json:"customers_today"`
	TotalServices  int         `json:"total_services"`
	Clients        ClientSplit `json:"clients"`
	ProductRevenue float64     `json:"product_revenue"`
	ProductsSold   int         `json:"products_sold"`
	ProductsToday  int         `json:"products_sold_today"`
	GeneratedAt    string      `json:"generated_at"`
}

// CumulativeSales is month-to-date and year-to-date revenue
type CumulativeSales struct {
	MonthSales float64 `json:"month_sales"`
	YearSales  float64 `json:"year_sales"`
}

// ClientSpend is one row of the top/bottom client tables
type ClientSpend struct {
	PhoneNumber string  `json:"phone_number"`
	Name        string  `json:"name"`
	Visits      int     `json:"visits"`
	TotalSpent  float64 `json:"total_spent"`
}

// SpendVsVisits is spend and visit count per client name
type SpendVsVisits struct {
	Name             string  `json:"name"`
	Visits           int     `json:"visits"`
	TotalSpent       float64 `json:"total_spent"`
	AvgSpendPerVisit float64 `json:"avg_spend_per_visit"`
}

// ClientRecency is how long ago a client last visited
type ClientRecency struct {
	PhoneNumber   string `json:"phone_number"`
	Name          string `json:"customer_name"`
	LastVisitDate string `json:"last_visit_date"`
	DaysSince     int    `json:"days_since_last_visit"`
}

// Incentive is an employee's sales total and 1% incentive
type Incentive struct {
	Employee   string  `json:"employee"`
	TotalSales float64 `json:"total_sales"`
	Incentive  float64 `json:"incentive"`
}

// LabelCount is a generic label → count row (services, products, employees)
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// LabelAmount is a generic label → amount row (employee revenue)
type LabelAmount struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// HourCount is the number of visits in one hour of the day
type HourCount struct {
	Hour       int `json:"hour"`
	VisitCount int `json:"visit_count"`
}

// WeekdayCount is the visit count and revenue for one day of the week (Monday=1..Sunday=7)
type WeekdayCount struct {
	Weekday    string  `json:"weekday"`
	DayNumber  int     `json:"day_number"`
	VisitCount int     `json:"visit_count"`
	TotalSold  float64 `json:"total_sold"`
}

// PerformanceRow is the number of distinct customers in one ISO week
type PerformanceRow struct {
	Year           int    `json:"year"`
	Month          string `json:"month"`
	Week           int    `json:"week"`
	CustomerVisits int    `json:"customer_visits"`
}

// RevenueSummary is the product revenue headline
type RevenueSummary struct {
	TotalRevenue  float64 `json:"total_revenue"`
	TotalSales    int     `json:"total_sales"`
	SoldToday     int     `json:"sold_today"`
	SoldLastWeek  int     `json:"sold_last_week"`
	SoldLastMonth int     `json:"sold_last_month"`
}

// BookingKPIs holds the booking tab headline numbers
type BookingKPIs struct {
	TotalToday     int `json:"total_today"`
	ConfirmedToday int `json:"confirmed_today"`
	Pending        int `json:"pending"`
	NextSevenDays  int `json:"this_week"`
}

// DateCount is a count for one calendar day (YYYY-MM-DD)
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TimelineEntry is one active booking on today's employee timeline
type TimelineEntry struct {
	AppointmentID string `json:"appointment_id"`
	Employee      string `json:"employee"`
	ClientName    string `json:"client_name"`
	Service       string `json:"service"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Status        string `json:"status"`
}

// StaffKPIs holds the staff tab headline numbers
type StaffKPIs struct {
	TotalStaff   int `json:"total_staff"`
	ActiveStaff  int `json:"active_staff"`
	OnLeaveToday int `json:"on_leave_today"`
	NewThisMonth int `json:"new_this_month"`
}

// AttendanceStat is one staff member's attendance over the reporting window
type AttendanceStat struct {
	StaffName     string  `json:"staff_name"`
	TotalDays     int     `json:"total_days"`
	PresentDays   int     `json:"present_days"`
	AttendancePct float64 `json:"attendance_pct"`
}

// AttendanceOverview summarises the attendance table for the staff performance panel
type AttendanceOverview struct {
	AveragePct         float64 `json:"average_pct"`
	TopPerformer       string  `json:"top_performer,omitempty"`
	TopPerformerPct    float64 `json:"top_performer_pct"`
	LowAttendanceCount int     `json:"low_attendance_count"`
}
