package services

import (
	"sort"
	"strings"
	"time"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

const (
	// AttendanceWindowDays is how many calendar days, today included, attendance covers
	AttendanceWindowDays = 30

	lowAttendancePct = 80.0
)

// StaffAnalyticsService computes staff, leave and attendance statistics
type StaffAnalyticsService struct {
	clock *TimeNormalizer
}

// NewStaffAnalyticsService creates a new staff analytics service
func NewStaffAnalyticsService(clock *TimeNormalizer) *StaffAnalyticsService {
	return &StaffAnalyticsService{
		clock: clock,
	}
}

// KPIs returns headcount, active staff, staff on approved leave today and joiners this month
func (s *StaffAnalyticsService) KPIs(staff, leave *models.Table) models.StaffKPIs {
	var kpis models.StaffKPIs
	today := s.clock.Today()

	if !staff.IsEmpty() {
		kpis.TotalStaff = staff.Len()
		firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		joined := s.clock.ParseDays(staff, models.ColJoiningDate)
		for i := 0; i < staff.Len(); i++ {
			if strings.EqualFold(staff.Value(i, models.ColStatus), models.StaffStatusActive) {
				kpis.ActiveStaff++
			}
			if joined[i].Valid && !joined[i].Time.Before(firstOfMonth) {
				kpis.NewThisMonth++
			}
		}
	}

	if !leave.IsEmpty() && leave.Has(models.ColStaffName) {
		onLeave := make(map[string]struct{})
		s.eachApprovedLeave(leave, func(i int, from, to time.Time) {
			if from.After(today) || to.Before(today) {
				return
			}
			if name := leave.Value(i, models.ColStaffName); !models.IsNull(name) {
				onLeave[name] = struct{}{}
			}
		})
		kpis.OnLeaveToday = len(onLeave)
	}

	return kpis
}

// Attendance returns each staff member's attendance over the last 30 calendar days,
// best attendance first. Rows without a parsable date are ignored.
func (s *StaffAnalyticsService) Attendance(attendance *models.Table) []models.AttendanceStat {
	out := []models.AttendanceStat{}
	if attendance.IsEmpty() || !attendance.Has(models.ColStaffName) {
		return out
	}
	since := s.clock.Today().AddDate(0, 0, -(AttendanceWindowDays - 1))

	index := make(map[string]int)
	for i, day := range s.clock.ParseDays(attendance, models.ColDate) {
		if !day.Valid || day.Time.Before(since) {
			continue
		}
		name := attendance.Value(i, models.ColStaffName)
		if models.IsNull(name) {
			continue
		}
		pos, ok := index[name]
		if !ok {
			pos = len(out)
			index[name] = pos
			out = append(out, models.AttendanceStat{StaffName: name})
		}
		out[pos].TotalDays++
		if strings.EqualFold(attendance.Value(i, models.ColStatus), models.AttendancePresent) {
			out[pos].PresentDays++
		}
	}

	for i := range out {
		out[i].AttendancePct = percentage(out[i].PresentDays, out[i].TotalDays)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AttendancePct > out[j].AttendancePct })
	return out
}

// AttendanceOverview summarises attendance stats as returned by Attendance
func (s *StaffAnalyticsService) AttendanceOverview(stats []models.AttendanceStat) models.AttendanceOverview {
	var overview models.AttendanceOverview
	if len(stats) == 0 {
		return overview
	}
	total := decimal.Zero
	for _, st := range stats {
		total = total.Add(decimal.NewFromFloat(st.AttendancePct))
		if st.AttendancePct < lowAttendancePct {
			overview.LowAttendanceCount++
		}
	}
	overview.AveragePct, _ = total.DivRound(decimal.NewFromInt(int64(len(stats))), 2).Float64()
	overview.TopPerformer = stats[0].StaffName
	overview.TopPerformerPct = stats[0].AttendancePct
	return overview
}

// LeaveCalendar expands every approved leave into its days and counts leaves per day
func (s *StaffAnalyticsService) LeaveCalendar(leave *models.Table) []models.DateCount {
	out := []models.DateCount{}
	if leave.IsEmpty() {
		return out
	}
	counts := make(map[string]int)
	s.eachApprovedLeave(leave, func(_ int, from, to time.Time) {
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			counts[d.Format(dateLayout)]++
		}
	})
	for date, n := range counts {
		out = append(out, models.DateCount{Date: date, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// UpcomingLeaves returns approved leaves starting today or later, soonest first
func (s *StaffAnalyticsService) UpcomingLeaves(leave *models.Table) []models.LeaveRecord {
	out := []models.LeaveRecord{}
	if leave.IsEmpty() {
		return out
	}
	today := s.clock.Today()
	type upcoming struct {
		record models.LeaveRecord
		from   time.Time
	}
	var found []upcoming
	from := s.clock.ParseDays(leave, models.ColFromDate)
	for i := 0; i < leave.Len(); i++ {
		if !strings.EqualFold(leave.Value(i, models.ColStatus), models.LeaveStatusApproved) {
			continue
		}
		if !from[i].Valid || from[i].Time.Before(today) {
			continue
		}
		found = append(found, upcoming{record: models.LeaveFromRow(leave, i), from: from[i].Time})
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].from.Before(found[j].from) })
	for _, u := range found {
		out = append(out, u.record)
	}
	return out
}

// SearchStaff filters the staff table by name substring and exact role, branch and status.
// Results are ordered by joining date, newest first.
func (s *StaffAnalyticsService) SearchStaff(staff *models.Table, filter models.StaffSearchFilter) []models.StaffMember {
	out := []models.StaffMember{}
	if staff.IsEmpty() {
		return out
	}
	name := strings.ToLower(strings.TrimSpace(filter.Name))
	role, byRole := filterValue(filter.Role)
	branch, byBranch := filterValue(filter.Branch)
	status, byStatus := filterValue(filter.Status)

	joined := s.clock.ParseDays(staff, models.ColJoiningDate)
	type hit struct {
		member models.StaffMember
		joined time.Time
		ok     bool
	}
	var hits []hit
	for i := 0; i < staff.Len(); i++ {
		m := models.StaffFromRow(staff, i)
		if name != "" && !strings.Contains(strings.ToLower(m.Name), name) {
			continue
		}
		if byRole && m.Role != role {
			continue
		}
		if byBranch && m.Branch != branch {
			continue
		}
		if byStatus && m.Status != status {
			continue
		}
		hits = append(hits, hit{member: m, joined: joined[i].Time, ok: joined[i].Valid})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].ok != hits[j].ok {
			return hits[i].ok
		}
		return hits[i].joined.After(hits[j].joined)
	})
	for _, h := range hits {
		out = append(out, h.member)
	}
	return out
}

// eachApprovedLeave calls fn for every Approved leave with parsable, ordered dates
func (s *StaffAnalyticsService) eachApprovedLeave(leave *models.Table, fn func(i int, from, to time.Time)) {
	from := s.clock.ParseDays(leave, models.ColFromDate)
	to := s.clock.ParseDays(leave, models.ColToDate)
	for i := 0; i < leave.Len(); i++ {
		if !strings.EqualFold(leave.Value(i, models.ColStatus), models.LeaveStatusApproved) {
			continue
		}
		if !from[i].Valid || !to[i].Valid || to[i].Time.Before(from[i].Time) {
			continue
		}
		fn(i, from[i].Time, to[i].Time)
	}
}
