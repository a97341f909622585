package services

import (
	"sort"
	"time"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/blsh/salon-dashboard/pkg/validator"
)

// SalesService computes rollups over the service sales table.
// Every method takes a normalized table and never fails: missing columns and
// unparsable values yield zero or empty results.
type SalesService struct {
	clock *TimeNormalizer
}

// NewSalesService creates a new sales service
func NewSalesService(clock *TimeNormalizer) *SalesService {
	return &SalesService{
		clock: clock,
	}
}

// PeriodStat returns the sales total and distinct visits for a period
func (s *SalesService) PeriodStat(tt *models.TimedTable, period Period) models.PeriodStat {
	if tt == nil || tt.IsEmpty() {
		return models.PeriodStat{}
	}
	now := s.clock.Now()
	rows := rowsWhere(tt, func(ts time.Time) bool { return inPeriod(ts, now, period) })
	return models.PeriodStat{
		Sales:  sumAmounts(tt.Table, serviceSchema.Amount, rows),
		Visits: countVisits(tt, serviceSchema.Client, rows),
	}
}

// Summary returns the home tab KPIs for the service table
func (s *SalesService) Summary(tt *models.TimedTable) models.DashboardSummary {
	return models.DashboardSummary{
		Today:          s.PeriodStat(tt, PeriodToday),
		ThisWeek:       s.PeriodStat(tt, PeriodThisWeek),
		ThisMonth:      s.PeriodStat(tt, PeriodThisMonth),
		PreviousWeek:   s.PeriodStat(tt, PeriodPreviousWeek),
		PreviousMonth:  s.PeriodStat(tt, PeriodPreviousMonth),
		CustomersToday: s.CustomersToday(tt),
		TotalServices:  s.TotalServices(tt),
		Clients:        s.NewVsRepeated(tt),
		GeneratedAt:    s.clock.Now().Format(time.RFC3339),
	}
}

// CustomersToday counts distinct client names billed today
func (s *SalesService) CustomersToday(tt *models.TimedTable) int {
	if tt == nil || tt.IsEmpty() {
		return 0
	}
	now := s.clock.Now()
	rows := rowsWhere(tt, func(ts time.Time) bool { return sameDay(ts, now) })
	return countDistinct(tt.Table, serviceSchema.Name, rows)
}

// TotalServices counts rows with a bill amount, or all rows when there is no amount column
func (s *SalesService) TotalServices(tt *models.TimedTable) int {
	if tt == nil || tt.IsEmpty() {
		return 0
	}
	if !tt.Has(serviceSchema.Amount) {
		return tt.Len()
	}
	return countAmounts(tt.Table, serviceSchema.Amount, allRows(tt.Table))
}

// NewVsRepeated splits today's distinct clients by whether they had a transaction before today
func (s *SalesService) NewVsRepeated(tt *models.TimedTable) models.ClientSplit {
	var split models.ClientSplit
	if tt == nil || tt.IsEmpty() || !tt.Has(serviceSchema.Client) {
		return split
	}
	today := s.clock.Today()

	seenBefore := make(map[string]struct{})
	for i, ts := range tt.Times {
		if !ts.Valid || !ts.Time.Before(today) {
			continue
		}
		if client := tt.Value(i, serviceSchema.Client); !models.IsNull(client) {
			seenBefore[client] = struct{}{}
		}
	}

	counted := make(map[string]struct{})
	for i, ts := range tt.Times {
		if !ts.Valid || !sameDay(ts.Time, today) {
			continue
		}
		client := tt.Value(i, serviceSchema.Client)
		if models.IsNull(client) {
			continue
		}
		if _, done := counted[client]; done {
			continue
		}
		counted[client] = struct{}{}
		if _, ok := seenBefore[client]; ok {
			split.Repeated++
		} else {
			split.New++
		}
	}
	return split
}

// Cumulative returns month-to-date and year-to-date sales
func (s *SalesService) Cumulative(tt *models.TimedTable) models.CumulativeSales {
	if tt == nil || tt.IsEmpty() {
		return models.CumulativeSales{}
	}
	now := s.clock.Now()
	month := rowsWhere(tt, func(ts time.Time) bool { return sameMonth(ts, now) })
	year := rowsWhere(tt, func(ts time.Time) bool { return ts.Year() == now.Year() })
	return models.CumulativeSales{
		MonthSales: sumAmounts(tt.Table, serviceSchema.Amount, month),
		YearSales:  sumAmounts(tt.Table, serviceSchema.Amount, year),
	}
}

// Incentives returns each employee's total sales and 1% incentive, highest total first
func (s *SalesService) Incentives(tt *models.TimedTable) []models.Incentive {
	if tt == nil || tt.IsEmpty() {
		return []models.Incentive{}
	}
	return incentiveRows(tt.Table, allRows(tt.Table), serviceSchema)
}

func incentiveRows(t *models.Table, rows []int, schema salesSchema) []models.Incentive {
	groups := groupBy(t, rows, schema.Employee, schema.Amount, "")
	sortBySumDesc(groups)
	out := make([]models.Incentive, 0, len(groups))
	for _, g := range groups {
		out = append(out, models.Incentive{
			Employee:   g.Key,
			TotalSales: g.Sum,
			Incentive:  incentiveFor(g.Sum),
		})
	}
	return out
}

// Performance counts distinct customers per ISO week over the last 90 days, newest week first
func (s *SalesService) Performance(tt *models.TimedTable, month string) []models.PerformanceRow {
	out := []models.PerformanceRow{}
	if tt == nil || tt.IsEmpty() {
		return out
	}
	since := s.clock.Now().AddDate(0, 0, -90)

	type weekKey struct {
		year  int
		month string
		week  int
	}
	index := make(map[weekKey]int)
	names := []map[string]struct{}{}

	for i, ts := range tt.Times {
		if !ts.Valid || ts.Time.Before(since) || !matchesMonth(ts.Time, month) {
			continue
		}
		_, week := ts.Time.ISOWeek()
		key := weekKey{year: ts.Time.Year(), month: ts.Time.Month().String(), week: week}
		pos, ok := index[key]
		if !ok {
			pos = len(out)
			index[key] = pos
			out = append(out, models.PerformanceRow{Year: key.year, Month: key.month, Week: key.week})
			names = append(names, make(map[string]struct{}))
		}
		if name := tt.Value(i, serviceSchema.Name); !models.IsNull(name) {
			names[pos][name] = struct{}{}
		}
	}
	for i := range out {
		out[i].CustomerVisits = len(names[i])
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Week > out[j].Week
	})
	return out
}

// PeakHours counts visits per hour of day, busiest first
func (s *SalesService) PeakHours(tt *models.TimedTable) []models.HourCount {
	out := []models.HourCount{}
	if tt == nil || tt.IsEmpty() {
		return out
	}
	counts := make(map[int]int)
	for _, ts := range tt.Times {
		if ts.Valid {
			counts[ts.Time.Hour()]++
		}
	}
	for hour, n := range counts {
		out = append(out, models.HourCount{Hour: hour, VisitCount: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VisitCount != out[j].VisitCount {
			return out[i].VisitCount > out[j].VisitCount
		}
		return out[i].Hour < out[j].Hour
	})
	return out
}

// Weekdays counts visits per day of week, Monday first
func (s *SalesService) Weekdays(tt *models.TimedTable) []models.WeekdayCount {
	if tt == nil || tt.IsEmpty() {
		return []models.WeekdayCount{}
	}
	return weekdayRows(tt, serviceSchema.Amount)
}

func weekdayRows(tt *models.TimedTable, amountCol string) []models.WeekdayCount {
	var days [8]models.WeekdayCount
	for i, ts := range tt.Times {
		if !ts.Valid {
			continue
		}
		n := isoWeekdayNumber(ts.Time.Weekday())
		days[n].Weekday = ts.Time.Weekday().String()
		days[n].DayNumber = n
		days[n].VisitCount++
		if v, ok := parseAmount(tt.Value(i, amountCol)); ok {
			days[n].TotalSold += v
		}
	}
	out := []models.WeekdayCount{}
	for n := 1; n <= 7; n++ {
		if days[n].VisitCount > 0 {
			out = append(out, days[n])
		}
	}
	return out
}

// ServiceCounts tallies how often each service flag is set, optionally within one month
func (s *SalesService) ServiceCounts(tt *models.TimedTable, month string) []models.LabelCount {
	out := []models.LabelCount{}
	if tt == nil || tt.IsEmpty() {
		return out
	}
	filtered := month != "" && month != AllMonths

	for _, col := range models.ServiceFlagColumns {
		if !tt.Has(col) {
			continue
		}
		n := 0
		for i := 0; i < tt.Len(); i++ {
			if filtered && (!tt.Times[i].Valid || !matchesMonth(tt.Times[i].Time, month)) {
				continue
			}
			if serviceUsed(tt.Value(i, col)) {
				n++
			}
		}
		if n > 0 {
			out = append(out, models.LabelCount{Label: col, Count: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// serviceUsed reports whether a service flag cell marks the service as used.
// Any non-empty, non-null value counts, which covers true/1/yes/y and free-text marks.
func serviceUsed(v string) bool {
	return !models.IsNull(v)
}

// TopClients returns the 20 clients with the highest total spend
func (s *SalesService) TopClients(tt *models.TimedTable) []models.ClientSpend {
	return s.clientSpend(tt, true)
}

// BottomClients returns the 20 clients with the lowest total spend
func (s *SalesService) BottomClients(tt *models.TimedTable) []models.ClientSpend {
	return s.clientSpend(tt, false)
}

func (s *SalesService) clientSpend(tt *models.TimedTable, top bool) []models.ClientSpend {
	out := []models.ClientSpend{}
	if tt == nil || tt.IsEmpty() || !tt.Has(serviceSchema.Client) {
		return out
	}
	groups := groupBy(tt.Table, allRows(tt.Table), serviceSchema.Client, serviceSchema.Amount, serviceSchema.Name)
	if top {
		sortBySumDesc(groups)
	} else {
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Sum < groups[j].Sum })
	}
	if len(groups) > clientListSize {
		groups = groups[:clientListSize]
	}
	for _, g := range groups {
		out = append(out, models.ClientSpend{
			PhoneNumber: g.Key,
			Name:        g.Name,
			Visits:      g.Count,
			TotalSpent:  g.Sum,
		})
	}
	return out
}

// SpendVsVisits returns spend and visits per client name with the average spend per visit
func (s *SalesService) SpendVsVisits(tt *models.TimedTable) []models.SpendVsVisits {
	out := []models.SpendVsVisits{}
	if tt == nil || tt.IsEmpty() {
		return out
	}
	groups := groupBy(tt.Table, allRows(tt.Table), serviceSchema.Name, serviceSchema.Amount, "")
	sortBySumDesc(groups)
	for _, g := range groups {
		out = append(out, models.SpendVsVisits{
			Name:             g.Key,
			Visits:           g.Count,
			TotalSpent:       g.Sum,
			AvgSpendPerVisit: round2(g.Sum / float64(g.Count)),
		})
	}
	return out
}

// LastVisits returns the days since each client's last visit, longest-absent first.
// Clients are matched on their normalised phone number.
func (s *SalesService) LastVisits(tt *models.TimedTable) []models.ClientRecency {
	out := []models.ClientRecency{}
	if tt == nil || tt.IsEmpty() || !tt.Has(serviceSchema.Client) {
		return out
	}
	today := s.clock.Today()

	type recency struct {
		phone string
		name  string
		last  time.Time
	}
	index := make(map[string]int)
	var groups []*recency

	for i, ts := range tt.Times {
		if !ts.Valid {
			continue
		}
		raw := tt.Value(i, serviceSchema.Client)
		if models.IsNull(raw) {
			continue
		}
		key := validator.ClientKey(raw)
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, &recency{phone: raw})
		}
		g := groups[pos]
		if g.name == "" {
			if name := tt.Value(i, serviceSchema.Name); !models.IsNull(name) {
				g.name = name
			}
		}
		day := startOfDay(ts.Time)
		if day.After(g.last) {
			g.last = day
		}
	}

	for _, g := range groups {
		out = append(out, models.ClientRecency{
			PhoneNumber:   g.phone,
			Name:          g.name,
			LastVisitDate: g.last.Format(dateLayout),
			DaysSince:     daysBetween(g.last, today),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysSince > out[j].DaysSince })
	return out
}

// EmployeeServiceRanking counts services per employee, most first
func (s *SalesService) EmployeeServiceRanking(tt *models.TimedTable) []models.LabelCount {
	out := []models.LabelCount{}
	if tt == nil || tt.IsEmpty() {
		return out
	}
	groups := groupBy(tt.Table, allRows(tt.Table), serviceSchema.Employee, "", "")
	sortByCountDesc(groups)
	for _, g := range groups {
		out = append(out, models.LabelCount{Label: g.Key, Count: g.Count})
	}
	return out
}

// EmployeeRevenueRanking sums revenue per employee, highest first
func (s *SalesService) EmployeeRevenueRanking(tt *models.TimedTable) []models.LabelAmount {
	if tt == nil || tt.IsEmpty() {
		return []models.LabelAmount{}
	}
	return revenueRows(tt.Table, serviceSchema)
}

func revenueRows(t *models.Table, schema salesSchema) []models.LabelAmount {
	out := []models.LabelAmount{}
	groups := groupBy(t, allRows(t), schema.Employee, schema.Amount, "")
	sortBySumDesc(groups)
	for _, g := range groups {
		out = append(out, models.LabelAmount{Label: g.Key, Amount: g.Sum})
	}
	return out
}

// Months lists the month names present in the data, in calendar order
func (s *SalesService) Months(tt *models.TimedTable) []string {
	out := []string{}
	if tt == nil {
		return out
	}
	var present [13]bool
	for _, ts := range tt.Times {
		if ts.Valid {
			present[ts.Time.Month()] = true
		}
	}
	for m := time.January; m <= time.December; m++ {
		if present[m] {
			out = append(out, m.String())
		}
	}
	return out
}
