package sampledata

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/blsh/salon-dashboard/internal/services"
)

// Row counts of the generated transaction tables
const (
	ServiceRows     = 500
	ProductRows     = 200
	AppointmentRows = 150
	LeaveRows       = 20
	AttendanceDays  = 90
)

const (
	transactionLayout = "02/01/2006 15:04:05"
	billDateLayout    = "02/01/2006"
	isoDateLayout     = "2006-01-02"
)

var (
	employees = []string{"Priya", "Sneha", "Anjali", "Kavita", "Ritu"}
	staffName = []string{"Priya Sharma", "Sneha Patel", "Anjali Singh", "Kavita Reddy", "Ritu Mehta"}
	clients   = []string{
		"Anjali Sharma", "Priya Patel", "Neha Singh", "Kavita Reddy",
		"Sneha Gupta", "Ritu Mehta", "Pooja Desai", "Simran Kaur",
		"Aditi Joshi", "Divya Rao", "Sakshi Kumar", "Nisha Verma",
	}
	paymentModes = []string{"Cash", "Card", "UPI", "Wallet"}
	helpers      = []string{"Helper1", "Helper2", "Helper3", ""}
	products     = []string{
		"L'Oreal Hair Serum", "Lakme Face Cream", "Matrix Shampoo",
		"Biotique Face Pack", "VLCC Hair Oil", "Garnier Face Wash",
		"Revlon Lipstick", "Maybelline Mascara", "Dove Soap",
		"Neutrogena Sunscreen", "Plum Body Lotion", "Himalaya Neem Face Pack",
	}
	bookedServices = []string{
		"Waxing", "Facial", "De-tan", "Pedicure", "Manicure",
		"Bleaching", "Hair Cut", "Threading", "Full Body Massage",
	}
	sources = []string{
		models.AppointmentSourceWalkIn, models.AppointmentSourcePhone, models.AppointmentSourceInstagram,
		models.AppointmentSourceWhatsApp, models.AppointmentSourceWebsite,
	}
	leaveTypes = []string{"Sick Leave", "Casual Leave", "Vacation", "Personal"}
	remarks    = []string{"Family function", "Medical", "Personal work", ""}
)

// Generator produces a reproducible demo data set relative to a fixed moment
type Generator struct {
	rng   *rand.Rand
	now   time.Time
	slots *services.SlotService
}

// NewGenerator creates a generator. The same seed and now always yield the same tables.
func NewGenerator(seed int64, now time.Time) *Generator {
	return &Generator{
		rng:   rand.New(rand.NewSource(seed)),
		now:   now,
		slots: services.NewSlotService(services.NewTimeNormalizer(now.Location()).WithClock(func() time.Time { return now })),
	}
}

// Tables generates every dashboard table
func (g *Generator) Tables() []*models.Table {
	return []*models.Table{
		g.ServiceSales(),
		g.ProductSales(),
		g.Appointments(),
		g.ServiceCatalog(),
		g.Employees(),
		g.Staff(),
		g.LeaveRecords(),
		g.Attendance(),
		g.Branches(),
	}
}

// ServiceSales generates bills over the last 180 days. Each bill has one to three
// services; the flags of unused services are left blank.
func (g *Generator) ServiceSales() *models.Table {
	columns := []string{"Bill Date & Time", models.ColTimestamp, models.ColName, models.ColPhoneNumber}
	columns = append(columns, models.ServiceFlagColumns...)
	columns = append(columns, "Miscellaneous", models.ColBillAmount, models.ColServiceBy,
		"Payment Mode", "Helper for S", "Bill Date", "week", "Name of the day")
	t := models.NewTable(models.TableServiceSales, columns)

	for i := 0; i < ServiceRows; i++ {
		ts := g.pastTimestamp(180)
		used := g.rng.Perm(len(models.ServiceFlagColumns))[:1+g.rng.Intn(3)]
		amount := 0
		values := map[string]string{
			"Bill Date & Time":    ts.Format(transactionLayout),
			models.ColTimestamp:   ts.Format(transactionLayout),
			models.ColName:        g.pick(clients),
			models.ColPhoneNumber: "+91 " + g.digits(10),
			models.ColServiceBy:   g.pick(employees),
			"Payment Mode":        g.pick(paymentModes),
			"Helper for S":        g.pick(helpers),
			"Bill Date":           ts.Format(billDateLayout),
			"Name of the day":     ts.Weekday().String(),
		}
		_, week := ts.ISOWeek()
		values["week"] = strconv.Itoa(week)
		for _, idx := range used {
			values[models.ServiceFlagColumns[idx]] = "TRUE"
			amount += 200 + g.rng.Intn(601)
		}
		values[models.ColBillAmount] = strconv.Itoa(amount)
		t.Append(values)
	}
	t.MarkClean()
	return t
}

// ProductSales generates retail product bills over the last 180 days
func (g *Generator) ProductSales() *models.Table {
	t := models.NewTable(models.TableProductSales, []string{
		models.ColTimestamp, "DateTime", models.ColClientName, models.ColClientNumber,
		models.ColSoldBy, models.ColProductName, models.ColBillAmount, "Payment Mode", "Helper",
	})
	for i := 0; i < ProductRows; i++ {
		ts := g.pastTimestamp(180)
		t.Append(map[string]string{
			models.ColTimestamp:    ts.Format(transactionLayout),
			"DateTime":             ts.Format(transactionLayout),
			models.ColClientName:   g.pick(clients[:8]),
			models.ColClientNumber: "+91 " + g.digits(10),
			models.ColSoldBy:       g.pick(employees),
			models.ColProductName:  g.pick(products),
			models.ColBillAmount:   strconv.Itoa(200 + g.rng.Intn(1301)),
			"Payment Mode":         g.pick(paymentModes),
			"Helper":               g.pick(helpers),
		})
	}
	t.MarkClean()
	return t
}

// Appointments generates bookings from 30 days ago to 30 days ahead. Past bookings
// are Completed or Cancelled, future ones Confirmed or Pending. A future booking that
// would overlap an active one is generated as Cancelled.
func (g *Generator) Appointments() *models.Table {
	t := models.EmptyTable(models.TableAppointments)
	today := time.Date(g.now.Year(), g.now.Month(), g.now.Day(), 0, 0, 0, 0, g.now.Location())
	start := today.AddDate(0, 0, -30)
	durations := []int{30, 45, 60, 90}

	var booked []models.Appointment
	for i := 0; i < AppointmentRows; i++ {
		day := start.AddDate(0, 0, g.rng.Intn(61))
		startMinute := (9+g.rng.Intn(11))*60 + 30*g.rng.Intn(2)
		duration := durations[g.rng.Intn(len(durations))]
		employee := g.pick(employees)

		status := g.pick([]string{models.AppointmentStatusCompleted, models.AppointmentStatusCancelled})
		if !day.Before(today) {
			status = g.pick([]string{models.AppointmentStatusConfirmed, models.AppointmentStatusPending})
			if g.slots.HasOverlap(booked, employee, day, startMinute, duration, "") {
				status = models.AppointmentStatusCancelled
			}
		}

		appt := models.Appointment{
			ID:          fmt.Sprintf("%s%d", services.AppointmentIDPrefix, services.AppointmentIDStart+i),
			ClientName:  g.pick(clients[:10]),
			ClientPhone: "+91" + g.digits(10),
			Service:     g.pick(bookedServices),
			Employee:    employee,
			Date:        day.Format(isoDateLayout),
			TimeSlot:    services.FormatMinutes(startMinute),
			Duration:    strconv.Itoa(duration),
			Status:      status,
			Source:      g.pick(sources),
			CreatedAt:   day.AddDate(0, 0, -1-g.rng.Intn(7)).Add(10 * time.Hour).Format("2006-01-02 15:04:05"),
		}
		booked = append(booked, appt)
		t.Append(appt.Values())
	}
	t.MarkClean()
	return t
}

// ServiceCatalog returns the fixed service menu
func (g *Generator) ServiceCatalog() *models.Table {
	t := models.EmptyTable(models.TableServicesCatalog)
	menu := []struct {
		name     string
		duration int
		price    int
	}{
		{"Waxing", 45, 500}, {"Facial", 60, 800}, {"De-tan", 30, 400}, {"Pedicure", 45, 600},
		{"Manicure", 30, 400}, {"Bleaching", 45, 500}, {"Hair Cut", 30, 300}, {"Wash", 20, 200},
		{"Massage", 60, 1000}, {"Threading", 15, 150}, {"Full Body Massage", 90, 1500},
	}
	for _, m := range menu {
		t.Append(map[string]string{
			models.ColServiceName: m.name,
			models.ColDuration:    strconv.Itoa(m.duration),
			models.ColPrice:       strconv.Itoa(m.price),
		})
	}
	t.MarkClean()
	return t
}

// Employees returns the bookable employees
func (g *Generator) Employees() *models.Table {
	t := models.EmptyTable(models.TableEmployees)
	roles := []string{"Senior Stylist", "Beautician", "Hair Specialist", "Nail Technician", "Massage Therapist"}
	for i, name := range employees {
		t.Append(map[string]string{
			models.ColEmployeeName: name,
			models.ColRole:         roles[i],
			models.ColAvailable:    "True",
		})
	}
	t.MarkClean()
	return t
}

// Staff returns the five founding staff members
func (g *Generator) Staff() *models.Table {
	t := models.EmptyTable(models.TableStaff)
	rows := []struct {
		role, joined, salary, branch string
	}{
		{"Senior Stylist", "2022-01-15", "35000", "Main Branch"},
		{"Beautician", "2022-03-20", "30000", "Main Branch"},
		{"Hair Specialist", "2023-01-10", "32000", "Branch 2"},
		{"Nail Technician", "2023-06-01", "28000", "Main Branch"},
		{"Massage Therapist", "2023-08-15", "30000", "Branch 2"},
	}
	for i, r := range rows {
		member := models.StaffMember{
			ID:          fmt.Sprintf("%s%0*d", services.StaffIDPrefix, services.StaffIDWidth, i+1),
			Name:        staffName[i],
			Role:        r.role,
			Phone:       "+91987654321" + strconv.Itoa(i),
			Email:       fmt.Sprintf("%s@blsh.com", lowerFirst(employees[i])),
			JoiningDate: r.joined,
			Status:      models.StaffStatusActive,
			Salary:      r.salary,
			Branch:      r.branch,
		}
		t.Append(member.Values())
	}
	t.MarkClean()
	return t
}

// LeaveRecords generates leave applications starting between 60 days ago and 30 days ahead
func (g *Generator) LeaveRecords() *models.Table {
	t := models.EmptyTable(models.TableLeaveRecords)
	start := g.now.AddDate(0, 0, -60)
	statuses := []string{models.LeaveStatusApproved, models.LeaveStatusPending, models.LeaveStatusRejected}
	for i := 0; i < LeaveRows; i++ {
		from := start.AddDate(0, 0, g.rng.Intn(91))
		to := from.AddDate(0, 0, 1+g.rng.Intn(5))
		leave := models.LeaveRecord{
			ID:        fmt.Sprintf("%s%d", services.LeaveIDPrefix, services.LeaveIDStart+i),
			StaffName: g.pick(staffName),
			LeaveType: g.pick(leaveTypes),
			FromDate:  from.Format(isoDateLayout),
			ToDate:    to.Format(isoDateLayout),
			Status:    g.pick(statuses),
			Remarks:   g.pick(remarks),
		}
		t.Append(leave.Values())
	}
	t.MarkClean()
	return t
}

// Attendance generates one row per staff member per day for the last 90 days,
// present about nine days in ten
func (g *Generator) Attendance() *models.Table {
	t := models.EmptyTable(models.TableAttendance)
	start := g.now.AddDate(0, 0, -AttendanceDays)
	for _, name := range staffName {
		for d := 0; d < AttendanceDays; d++ {
			values := map[string]string{
				models.ColStaffName: name,
				models.ColDate:      start.AddDate(0, 0, d).Format(isoDateLayout),
				models.ColStatus:    models.AttendanceAbsent,
			}
			if g.rng.Float64() < 0.9 {
				values[models.ColStatus] = models.AttendancePresent
				values[models.ColCheckIn] = fmt.Sprintf("%d:%02d", 9+g.rng.Intn(2), g.rng.Intn(60))
				values[models.ColCheckOut] = fmt.Sprintf("%d:%02d", 18+g.rng.Intn(3), g.rng.Intn(60))
			}
			t.Append(values)
		}
	}
	t.MarkClean()
	return t
}

// Branches returns the two salon branches
func (g *Generator) Branches() *models.Table {
	t := models.EmptyTable(models.TableBranches)
	t.Append(map[string]string{models.ColBranchID: "BR001", models.ColBranchName: "Main Branch", models.ColLocation: "MG Road", models.ColManager: "Priya Sharma"})
	t.Append(map[string]string{models.ColBranchID: "BR002", models.ColBranchName: "Branch 2", models.ColLocation: "Koramangala", models.ColManager: "Anjali Singh"})
	t.MarkClean()
	return t
}

func (g *Generator) pastTimestamp(days int) time.Time {
	day := g.now.AddDate(0, 0, -days+g.rng.Intn(days+1))
	return time.Date(day.Year(), day.Month(), day.Day(), 9+g.rng.Intn(12), g.rng.Intn(60), 0, 0, day.Location())
}

func (g *Generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

func (g *Generator) digits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + g.rng.Intn(10))
	}
	return string(b)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
