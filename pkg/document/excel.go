package document

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/clinicasys/clinica-api/internal/model"
)

// ExcelExporter builds spreadsheet exports of the reporting queries.
type ExcelExporter struct{}

func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Payments writes one row per payment with a totals row at the bottom.
func (e *ExcelExporter) Payments(payments []*model.PaymentDetail) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Payments"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Patient", "Doctor", "Method", "Amount", "Notes"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	var total float64
	for i, p := range payments {
		row := i + 2
		notes := ""
		if p.Notes != nil {
			notes = *p.Notes
		}
		values := []interface{}{
			p.PaidAt.Format("2006-01-02 15:04"),
			p.PatientName,
			p.DoctorName,
			string(p.Method),
			p.Amount,
			notes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write payment row: %w", err)
			}
		}
		total += p.Amount
	}

	totalRow := len(payments) + 2
	labelCell, _ := excelize.CoordinatesToCellName(4, totalRow)
	totalCell, _ := excelize.CoordinatesToCellName(5, totalRow)
	if err := f.SetCellValue(sheet, labelCell, "Total"); err != nil {
		return nil, fmt.Errorf("failed to write totals row: %w", err)
	}
	if err := f.SetCellValue(sheet, totalCell, total); err != nil {
		return nil, fmt.Errorf("failed to write totals row: %w", err)
	}

	return write(f)
}

// Appointments writes one row per appointment in the filtered listing.
func (e *ExcelExporter) Appointments(appointments []*model.AppointmentDetail) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Appointments"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Time", "Patient", "National ID", "Doctor", "Status", "Reason"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, apt := range appointments {
		row := i + 2
		reason := ""
		if apt.Reason != nil {
			reason = *apt.Reason
		}
		values := []interface{}{
			apt.Date.Format(model.DateOnly),
			string(apt.Slot),
			apt.PatientName,
			apt.PatientNationalID,
			apt.DoctorName,
			string(apt.Status),
			reason,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write appointment row: %w", err)
			}
		}
	}

	return write(f)
}

func write(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}
