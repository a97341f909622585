package services

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/blsh/salon-dashboard/internal/models"
)

// Layouts tried, in order, over a whole column before falling back to inference
var timestampLayouts = []string{
	"2/1/2006 15:04:05",
	"2/1/2006",
	"2006-1-2 15:04:05",
	"2006-1-2",
}

// TransactionTimestampColumns are the columns a sales export may carry its bill time in
var TransactionTimestampColumns = []string{
	models.ColTimestamp,
	"DateTime",
	"Bill Date & Time",
	"Bill Date",
	"Timestamp ",
}

// TransactionDateColumns are tried when none of TransactionTimestampColumns yields a value
var TransactionDateColumns = []string{
	models.ColDate,
	models.ColAppointmentDate,
	"Bill Date",
}

const dateLayout = "2006-01-02"

// TimeNormalizer turns the free-form date columns of the CSV exports into timestamps.
// It also owns the dashboard clock so every query agrees on what "today" is.
type TimeNormalizer struct {
	loc *time.Location
	now func() time.Time
}

// NewTimeNormalizer creates a normalizer that interprets dates in loc
func NewTimeNormalizer(loc *time.Location) *TimeNormalizer {
	if loc == nil {
		loc = time.Local
	}
	return &TimeNormalizer{
		loc: loc,
		now: time.Now,
	}
}

// WithClock replaces the clock, used by tests and the sample data generator
func (n *TimeNormalizer) WithClock(now func() time.Time) *TimeNormalizer {
	n.now = now
	return n
}

// Location returns the time zone dates are interpreted in
func (n *TimeNormalizer) Location() *time.Location {
	return n.loc
}

// Now returns the current moment in the normalizer's time zone
func (n *TimeNormalizer) Now() time.Time {
	return n.now().In(n.loc)
}

// Today returns midnight of the current day
func (n *TimeNormalizer) Today() time.Time {
	return startOfDay(n.Now())
}

// ParseColumn parses every value of a column. The first fixed layout that parses at
// least one value is used for the whole column; when none does, each value is inferred.
func (n *TimeNormalizer) ParseColumn(values []string) []sql.NullTime {
	out := make([]sql.NullTime, len(values))

	for _, layout := range timestampLayouts {
		found := false
		for i, v := range values {
			if models.IsNull(v) {
				continue
			}
			ts, err := time.ParseInLocation(layout, strings.TrimSpace(v), n.loc)
			if err != nil {
				continue
			}
			out[i] = sql.NullTime{Time: ts, Valid: true}
			found = true
		}
		if found {
			return out
		}
	}

	for i, v := range values {
		if ts, ok := n.infer(v); ok {
			out[i] = sql.NullTime{Time: ts, Valid: true}
		}
	}
	return out
}

// ParseTimestamps returns the parsed timestamps of the first candidate column that exists
// and yields at least one value. When no candidate qualifies every entry is invalid.
func (n *TimeNormalizer) ParseTimestamps(t *models.Table, candidates []string) []sql.NullTime {
	for _, col := range candidates {
		if !t.Has(col) {
			continue
		}
		parsed := n.ParseColumn(columnValues(t, col))
		for _, ts := range parsed {
			if ts.Valid {
				return parsed
			}
		}
	}
	return make([]sql.NullTime, t.Len())
}

// Normalize prepares a sales table for aggregation. It resolves the bill timestamp and,
// when any row has one, adds the derived Date, Month, Week and Year columns.
// The input table is not modified.
func (n *TimeNormalizer) Normalize(t *models.Table) *models.TimedTable {
	if t == nil {
		t = models.NewTable("", nil)
	}
	out := &models.TimedTable{Table: t.Clone()}

	times := n.ParseTimestamps(out.Table, TransactionTimestampColumns)
	if !anyValid(times) {
		times = n.ParseTimestamps(out.Table, TransactionDateColumns)
	}
	out.Times = times

	if !anyValid(times) {
		return out
	}

	for i, ts := range times {
		if !ts.Valid {
			out.Set(i, models.ColDate, "")
			out.Set(i, models.ColMonth, "")
			out.Set(i, models.ColWeek, "")
			out.Set(i, models.ColYear, "")
			continue
		}
		_, week := ts.Time.ISOWeek()
		out.Set(i, models.ColDate, ts.Time.Format(dateLayout))
		out.Set(i, models.ColMonth, ts.Time.Month().String())
		out.Set(i, models.ColWeek, strconv.Itoa(week))
		out.Set(i, models.ColYear, strconv.Itoa(ts.Time.Year()))
	}
	out.MarkClean()
	return out
}

// ParseDate parses a single date value using the same layouts as ParseColumn
func (n *TimeNormalizer) ParseDate(value string) (time.Time, bool) {
	if models.IsNull(value) {
		return time.Time{}, false
	}
	v := strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, v, n.loc); err == nil {
			return ts, true
		}
	}
	return n.infer(v)
}

// ParseDay parses a date value and truncates it to midnight
func (n *TimeNormalizer) ParseDay(value string) (time.Time, bool) {
	ts, ok := n.ParseDate(value)
	if !ok {
		return time.Time{}, false
	}
	return startOfDay(ts), true
}

// ParseDays parses a date column and truncates every value to midnight
func (n *TimeNormalizer) ParseDays(t *models.Table, column string) []sql.NullTime {
	days := n.ParseTimestamps(t, []string{column})
	for i := range days {
		if days[i].Valid {
			days[i].Time = startOfDay(days[i].Time)
		}
	}
	return days
}

func (n *TimeNormalizer) infer(value string) (ts time.Time, ok bool) {
	if models.IsNull(value) {
		return time.Time{}, false
	}
	defer func() {
		if r := recover(); r != nil {
			ts, ok = time.Time{}, false
		}
	}()
	parsed, err := dateparse.ParseIn(strings.TrimSpace(value), n.loc)
	if err != nil {
		return time.Time{}, false
	}
	return parsed.In(n.loc), true
}

// ParseTimeSlot converts "HH:MM" or "HH:MM:SS" to minutes from midnight; seconds are dropped
func ParseTimeSlot(slot string) (int, bool) {
	v := strings.TrimSpace(slot)
	parts := strings.Split(v, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, false
		}
	}
	return h*60 + m, true
}

// FormatMinutes converts minutes from midnight back to "HH:MM"
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func columnValues(t *models.Table, column string) []string {
	values := make([]string, t.Len())
	for i := range values {
		values[i] = t.Value(i, column)
	}
	return values
}

func anyValid(times []sql.NullTime) bool {
	for _, ts := range times {
		if ts.Valid {
			return true
		}
	}
	return false
}
