package services

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

// Period is a reporting window relative to the current moment
type Period string

const (
	PeriodToday         Period = "today"
	PeriodThisWeek      Period = "this_week"
	PeriodThisMonth     Period = "this_month"
	PeriodPreviousWeek  Period = "previous_week"
	PeriodPreviousMonth Period = "previous_month"
)

// AllMonths is the month filter value meaning "no filter"
const AllMonths = "All months"

const (
	incentiveRate  = "0.01"
	clientListSize = 20
)

// salesSchema names the columns one sales export uses for the shared rollups
type salesSchema struct {
	Amount   string
	Client   string
	Name     string
	Employee string
}

var (
	serviceSchema = salesSchema{
		Amount:   models.ColBillAmount,
		Client:   models.ColPhoneNumber,
		Name:     models.ColName,
		Employee: models.ColServiceBy,
	}
	productSchema = salesSchema{
		Amount:   models.ColBillAmount,
		Client:   models.ColClientNumber,
		Name:     models.ColClientName,
		Employee: models.ColSoldBy,
	}
)

// inPeriod reports whether ts falls inside period as seen from now
func inPeriod(ts, now time.Time, period Period) bool {
	switch period {
	case PeriodToday:
		return sameDay(ts, now)
	case PeriodThisWeek:
		return sameISOWeek(ts, now)
	case PeriodThisMonth:
		return sameMonth(ts, now)
	case PeriodPreviousWeek:
		return sameISOWeek(ts, now.AddDate(0, 0, -7))
	case PeriodPreviousMonth:
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return sameMonth(ts, firstOfMonth.AddDate(0, 0, -1))
	}
	return false
}

func sameISOWeek(a, b time.Time) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// rowsWhere returns the indexes of rows with a valid timestamp accepted by keep
func rowsWhere(tt *models.TimedTable, keep func(ts time.Time) bool) []int {
	var rows []int
	for i, ts := range tt.Times {
		if ts.Valid && keep(ts.Time) {
			rows = append(rows, i)
		}
	}
	return rows
}

func allRows(t *models.Table) []int {
	rows := make([]int, t.Len())
	for i := range rows {
		rows[i] = i
	}
	return rows
}

// parseAmount parses a bill amount. Thousands separators and currency marks are ignored.
func parseAmount(v string) (float64, bool) {
	if models.IsNull(v) {
		return 0, false
	}
	clean := strings.NewReplacer(",", "", " ", "", "₹", "", "Rs.", "", "Rs", "").Replace(strings.TrimSpace(v))
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// sumAmounts sums the parsable amounts of rows. Missing amounts are skipped; with none left the sum is 0.
func sumAmounts(t *models.Table, column string, rows []int) float64 {
	total := 0.0
	if !t.Has(column) {
		return total
	}
	for _, i := range rows {
		if v, ok := parseAmount(t.Value(i, column)); ok {
			total += v
		}
	}
	return total
}

// countAmounts counts rows whose amount parses
func countAmounts(t *models.Table, column string, rows []int) int {
	n := 0
	for _, i := range rows {
		if _, ok := parseAmount(t.Value(i, column)); ok {
			n++
		}
	}
	return n
}

// countVisits counts distinct (client, calendar date) pairs, or rows when there is no client column
func countVisits(tt *models.TimedTable, clientCol string, rows []int) int {
	if !tt.Has(clientCol) {
		return len(rows)
	}
	seen := make(map[string]struct{}, len(rows))
	for _, i := range rows {
		client := tt.Value(i, clientCol)
		if models.IsNull(client) {
			client = ""
		}
		key := client + "|" + tt.Times[i].Time.Format(dateLayout)
		seen[key] = struct{}{}
	}
	return len(seen)
}

// countDistinct counts distinct non-null values of column over rows
func countDistinct(t *models.Table, column string, rows []int) int {
	if !t.Has(column) {
		return 0
	}
	seen := make(map[string]struct{})
	for _, i := range rows {
		v := t.Value(i, column)
		if models.IsNull(v) {
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen)
}

// bucket accumulates one group; groups keep first-seen order
type bucket struct {
	Key   string
	Name  string
	Count int
	Sum   float64
}

type buckets struct {
	index map[string]int
	items []*bucket
}

func newBuckets() *buckets {
	return &buckets{index: make(map[string]int)}
}

func (b *buckets) get(key string) *bucket {
	if i, ok := b.index[key]; ok {
		return b.items[i]
	}
	b.index[key] = len(b.items)
	item := &bucket{Key: key}
	b.items = append(b.items, item)
	return item
}

// groupBy groups rows by the non-null values of keyCol, counting rows and summing amountCol.
// nameCol, when set, records the first non-null name seen for each group.
func groupBy(t *models.Table, rows []int, keyCol, amountCol, nameCol string) []*bucket {
	b := newBuckets()
	if !t.Has(keyCol) {
		return b.items
	}
	for _, i := range rows {
		key := t.Value(i, keyCol)
		if models.IsNull(key) {
			continue
		}
		g := b.get(key)
		g.Count++
		if amountCol != "" {
			if v, ok := parseAmount(t.Value(i, amountCol)); ok {
				g.Sum += v
			}
		}
		if nameCol != "" && g.Name == "" {
			if name := t.Value(i, nameCol); !models.IsNull(name) {
				g.Name = name
			}
		}
	}
	return b.items
}

func sortBySumDesc(items []*bucket) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Sum > items[j].Sum })
}

func sortByCountDesc(items []*bucket) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Count > items[j].Count })
}

// incentiveFor returns 1% of total rounded to 2 decimals
func incentiveFor(total float64) float64 {
	rate := decimal.RequireFromString(incentiveRate)
	f, _ := decimal.NewFromFloat(total).Mul(rate).Round(2).Float64()
	return f
}

// round2 rounds half away from zero to 2 decimals
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// percentage returns part/total*100 rounded to 2 decimals
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	f, _ := decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(total)), 2).
		Float64()
	return f
}

// daysBetween returns the number of calendar days from a to b
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// isoWeekdayNumber maps time.Weekday to Monday=1..Sunday=7
func isoWeekdayNumber(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

// matchesMonth reports whether ts falls in the named month. Empty or AllMonths matches everything.
func matchesMonth(ts time.Time, month string) bool {
	if month == "" || month == AllMonths {
		return true
	}
	return strings.EqualFold(ts.Month().String(), strings.TrimSpace(month))
}

// filterValue reports whether a search filter is set. Empty and "All" mean unset.
func filterValue(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "All") {
		return "", false
	}
	return v, true
}
