package services

import (
	"bytes"
	"testing"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestExportService() *ExportService {
	clock := newTestClock()
	return NewExportService(NewSalesService(clock), NewProductService(clock), NewStaffAnalyticsService(clock))
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestBuildReport_Incentives(t *testing.T) {
	service := newTestExportService()

	data, err := service.BuildReport(ReportIncentives, ReportSources{Services: serviceSales(t)})
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{"Incentives"}, f.GetSheetList())

	rows, err := f.GetRows("Incentives")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Employee", "Total Sales", "Incentive"}, rows[0])
	assert.Equal(t, "Priya", rows[1][0])
	assert.Equal(t, "1750", rows[1][1])
	assert.Equal(t, "17.5", rows[1][2])
}

func TestBuildReport_Attendance(t *testing.T) {
	service := newTestExportService()

	data, err := service.BuildReport(ReportAttendance, ReportSources{Attendance: attendanceTable()})
	require.NoError(t, err)

	rows, err := openWorkbook(t, data).GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Priya", "30", "27", "90"}, rows[1])
}

func TestBuildReport_EmptySources(t *testing.T) {
	service := newTestExportService()

	for _, report := range []string{ReportIncentives, ReportTopClients, ReportLastVisits, ReportAttendance, ReportProductIncentives} {
		t.Run(report, func(t *testing.T) {
			data, err := service.BuildReport(report, ReportSources{})
			require.NoError(t, err)
			f := openWorkbook(t, data)
			require.Len(t, f.GetSheetList(), 1)
			rows, err := f.GetRows(f.GetSheetList()[0])
			require.NoError(t, err)
			assert.Len(t, rows, 1)
		})
	}
}

func TestBuildReport_Unknown(t *testing.T) {
	service := newTestExportService()

	_, err := service.BuildReport("payroll", ReportSources{})
	assert.ErrorIs(t, err, ErrUnknownReport)
}

func TestWorkbook_TableSheets(t *testing.T) {
	service := NewExportService(nil, nil, nil)
	branches := tableOf(models.TableBranches, models.DefaultColumns[models.TableBranches],
		[]string{"BR001", "Main", "MG Road", "Lakshmi"},
	)
	staff := tableOf(models.TableStaff, []string{models.ColStaffID, models.ColName},
		[]string{"STF001"},
	)

	data, err := service.Workbook(TableSheet(branches), TableSheet(staff))
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{"branches", "staff"}, f.GetSheetList())

	rows, err := f.GetRows("branches")
	require.NoError(t, err)
	assert.Equal(t, []string{"BR001", "Main", "MG Road", "Lakshmi"}, rows[1])

	staffRows, err := f.GetRows("staff")
	require.NoError(t, err)
	require.Len(t, staffRows, 2)
	assert.Equal(t, "STF001", staffRows[1][0])
}

func TestWorkbook_NoSheets(t *testing.T) {
	_, err := NewExportService(nil, nil, nil).Workbook()
	assert.Error(t, err)
}
