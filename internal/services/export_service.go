package services

import (
	"errors"
	"fmt"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/xuri/excelize/v2"
)

// Report names accepted by the export endpoint
const (
	ReportIncentives        = "incentives"
	ReportTopClients        = "top-clients"
	ReportLastVisits        = "last-visits"
	ReportAttendance        = "attendance"
	ReportProductIncentives = "product-incentives"
)

// ErrUnknownReport is returned for an export name that has no sheet builder
var ErrUnknownReport = errors.New("unknown report")

// Sheet is one worksheet: a header row followed by data rows
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// ExportService renders dashboard tables as XLSX workbooks
type ExportService struct {
	sales      *SalesService
	products   *ProductService
	staff      *StaffAnalyticsService
	headerFill string
}

// NewExportService creates a new export service
func NewExportService(sales *SalesService, products *ProductService, staff *StaffAnalyticsService) *ExportService {
	return &ExportService{
		sales:      sales,
		products:   products,
		staff:      staff,
		headerFill: "#E8D5F2",
	}
}

// ReportSources carries the tables a report may be built from
type ReportSources struct {
	Services   *models.TimedTable
	Products   *models.TimedTable
	Attendance *models.Table
}

// BuildReport renders the named report as a single-sheet workbook
func (s *ExportService) BuildReport(report string, src ReportSources) ([]byte, error) {
	var sheet Sheet
	switch report {
	case ReportIncentives:
		sheet = IncentiveSheet("Incentives", s.sales.Incentives(src.Services))
	case ReportTopClients:
		sheet = ClientSpendSheet("Top Clients", s.sales.TopClients(src.Services))
	case ReportLastVisits:
		sheet = LastVisitSheet(s.sales.LastVisits(src.Services))
	case ReportAttendance:
		sheet = AttendanceSheet(s.staff.Attendance(src.Attendance))
	case ReportProductIncentives:
		sheet = IncentiveSheet("Product Incentives", s.products.Incentives(src.Products))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownReport, report)
	}
	return s.Workbook(sheet)
}

// Workbook writes the sheets, in order, into one workbook
func (s *ExportService) Workbook(sheets ...Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, errors.New("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{s.headerFill}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range sheets {
		index, err := f.NewSheet(sheet.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to add sheet %q: %w", sheet.Name, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}
		if err := writeSheet(f, sheet, style); err != nil {
			return nil, err
		}
	}
	if sheets[0].Name != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to remove default sheet: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	for c, v := range sheet.Header {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet.Name, cell, v); err != nil {
			return fmt.Errorf("failed to write header of %q: %w", sheet.Name, err)
		}
	}
	for r, row := range sheet.Rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet.Name, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d of %q: %w", r+1, sheet.Name, err)
			}
		}
	}

	if len(sheet.Header) > 0 {
		last, err := excelize.ColumnNumberToName(len(sheet.Header))
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, "A1", last+"1", headerStyle); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, "A", last, 18); err != nil {
			return err
		}
	}
	return nil
}

// IncentiveSheet lists employee totals and their 1% incentive
func IncentiveSheet(name string, rows []models.Incentive) Sheet {
	sheet := Sheet{Name: name, Header: []string{"Employee", "Total Sales", "Incentive"}}
	for _, r := range rows {
		sheet.Rows = append(sheet.Rows, []interface{}{r.Employee, r.TotalSales, r.Incentive})
	}
	return sheet
}

// ClientSpendSheet lists clients with their visits and total spend
func ClientSpendSheet(name string, rows []models.ClientSpend) Sheet {
	sheet := Sheet{Name: name, Header: []string{"Phone Number", "Name", "Visits", "Total Spent"}}
	for _, r := range rows {
		sheet.Rows = append(sheet.Rows, []interface{}{r.PhoneNumber, r.Name, r.Visits, r.TotalSpent})
	}
	return sheet
}

// LastVisitSheet lists clients by days since their last visit
func LastVisitSheet(rows []models.ClientRecency) Sheet {
	sheet := Sheet{Name: "Last Visits", Header: []string{"Phone Number", "Customer Name", "Last Visit Date", "Days Since Last Visit"}}
	for _, r := range rows {
		sheet.Rows = append(sheet.Rows, []interface{}{r.PhoneNumber, r.Name, r.LastVisitDate, r.DaysSince})
	}
	return sheet
}

// AttendanceSheet lists attendance percentages per staff member
func AttendanceSheet(rows []models.AttendanceStat) Sheet {
	sheet := Sheet{Name: "Attendance", Header: []string{"Staff Name", "Total Days", "Present Days", "Attendance %"}}
	for _, r := range rows {
		sheet.Rows = append(sheet.Rows, []interface{}{r.StaffName, r.TotalDays, r.PresentDays, r.AttendancePct})
	}
	return sheet
}

// TableSheet copies a raw table into a sheet named after it
func TableSheet(t *models.Table) Sheet {
	sheet := Sheet{Name: string(t.Name), Header: append([]string(nil), t.Columns...)}
	for i := range t.Rows {
		row := make([]interface{}, len(t.Columns))
		for c, col := range t.Columns {
			row[c] = t.Value(i, col)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}
