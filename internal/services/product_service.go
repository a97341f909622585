package services

import (
	"sort"
	"time"

	"github.com/blsh/salon-dashboard/internal/models"
)

// ProductService computes rollups over the product sales table
type ProductService struct {
	clock *TimeNormalizer
}

// NewProductService creates a new product service
func NewProductService(clock *TimeNormalizer) *ProductService {
	return &ProductService{
		clock: clock,
	}
}

// Summary returns total product revenue, total sales and the rolling sold counts
func (s *ProductService) Summary(tt *models.TimedTable) models.RevenueSummary {
	if tt == nil || tt.IsEmpty() {
		return models.RevenueSummary{}
	}
	now := s.clock.Now()
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	return models.RevenueSummary{
		TotalRevenue:  sumAmounts(tt.Table, productSchema.Amount, allRows(tt.Table)),
		TotalSales:    tt.Len(),
		SoldToday:     len(rowsWhere(tt, func(ts time.Time) bool { return sameDay(ts, now) })),
		SoldLastWeek:  len(rowsWhere(tt, func(ts time.Time) bool { return !ts.Before(weekAgo) })),
		SoldLastMonth: len(rowsWhere(tt, func(ts time.Time) bool { return !ts.Before(monthAgo) })),
	}
}

// EmployeeSales counts products sold per employee, most first
func (s *ProductService) EmployeeSales(tt *models.TimedTable) []models.LabelCount {
	out := []models.LabelCount{}
	if tt == nil || tt.IsEmpty() {
		return out
	}
	groups := groupBy(tt.Table, allRows(tt.Table), productSchema.Employee, "", "")
	sortByCountDesc(groups)
	for _, g := range groups {
		out = append(out, models.LabelCount{Label: g.Key, Count: g.Count})
	}
	return out
}

// EmployeeRevenue sums product revenue per employee, highest first
func (s *ProductService) EmployeeRevenue(tt *models.TimedTable) []models.LabelAmount {
	if tt == nil || tt.IsEmpty() {
		return []models.LabelAmount{}
	}
	return revenueRows(tt.Table, productSchema)
}

// TopProducts counts sales per product, best seller first
func (s *ProductService) TopProducts(tt *models.TimedTable) []models.LabelCount {
	out := []models.LabelCount{}
	if tt == nil || tt.IsEmpty() {
		return out
	}
	groups := groupBy(tt.Table, allRows(tt.Table), models.ColProductName, "", "")
	sortByCountDesc(groups)
	for _, g := range groups {
		out = append(out, models.LabelCount{Label: g.Key, Count: g.Count})
	}
	return out
}

// SalesByDay returns revenue and order count per day of week, Monday first.
// Orders count rows with a bill amount.
func (s *ProductService) SalesByDay(tt *models.TimedTable) []models.WeekdayCount {
	if tt == nil || tt.IsEmpty() {
		return []models.WeekdayCount{}
	}
	days := weekdayRows(tt, productSchema.Amount)
	orders := make(map[int]int)
	for i, ts := range tt.Times {
		if !ts.Valid {
			continue
		}
		if _, ok := parseAmount(tt.Value(i, productSchema.Amount)); ok {
			orders[isoWeekdayNumber(ts.Time.Weekday())]++
		}
	}
	for i := range days {
		days[i].VisitCount = orders[days[i].DayNumber]
	}
	return days
}

// Incentives returns the 1% product incentive per employee for the current year
func (s *ProductService) Incentives(tt *models.TimedTable) []models.Incentive {
	if tt == nil || tt.IsEmpty() {
		return []models.Incentive{}
	}
	year := s.clock.Now().Year()
	rows := rowsWhere(tt, func(ts time.Time) bool { return ts.Year() == year })
	out := incentiveRows(tt.Table, rows, productSchema)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Incentive > out[j].Incentive })
	return out
}
