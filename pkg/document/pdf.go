package document

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/clinicasys/clinica-api/internal/model"
)

// PDFGenerator renders printable documents for the front desk: payment
// receipts and prescription sheets.
type PDFGenerator struct {
	clinicName string
}

func NewPDFGenerator(clinicName string) *PDFGenerator {
	return &PDFGenerator{clinicName: clinicName}
}

// Receipt renders a payment receipt as a single A4 page.
func (g *PDFGenerator) Receipt(p *model.PaymentDetail) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	g.header(pdf, "Payment Receipt")

	pdf.SetFont("Arial", "", 11)
	g.row(pdf, "Receipt no.", p.ID.String())
	g.row(pdf, "Date", p.PaidAt.Format("2006-01-02 15:04"))
	g.row(pdf, "Patient", p.PatientName)
	g.row(pdf, "Doctor", p.DoctorName)
	g.row(pdf, "Appointment date", p.AppointmentDate.Format(model.DateOnly))
	g.row(pdf, "Payment method", string(p.Method))
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 10, fmt.Sprintf("Total paid: %.2f", p.Amount), "T", 1, "R", false, 0, "")

	if p.Notes != nil && *p.Notes != "" {
		pdf.Ln(2)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, "Notes: "+*p.Notes, "", "L", false)
	}

	g.footer(pdf)
	return output(pdf)
}

// Prescription renders a consultation's prescription sheet.
func (g *PDFGenerator) Prescription(record *model.MedicalRecordDetail, patient *model.Patient) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	g.header(pdf, "Medical Prescription")

	pdf.SetFont("Arial", "", 11)
	g.row(pdf, "Patient", patient.FullName)
	g.row(pdf, "National ID", patient.NationalID)
	g.row(pdf, "Age", fmt.Sprintf("%d", patient.Age(time.Now())))
	g.row(pdf, "Doctor", record.DoctorName)
	g.row(pdf, "Date", record.CreatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(4)

	g.section(pdf, "Visit reason", record.VisitReason)
	if record.Diagnosis != nil {
		g.section(pdf, "Diagnosis", *record.Diagnosis)
	}
	if record.Prescription != nil {
		g.section(pdf, "Prescription", *record.Prescription)
	}
	if record.RequestedTests != nil {
		g.section(pdf, "Requested tests", *record.RequestedTests)
	}
	if record.Notes != nil {
		g.section(pdf, "Notes", *record.Notes)
	}

	pdf.Ln(20)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "_________________________", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, record.DoctorName, "", 1, "C", false, 0, "")

	g.footer(pdf)
	return output(pdf)
}

func (g *PDFGenerator) header(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, g.clinicName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, title, "B", 1, "C", false, 0, "")
	pdf.Ln(6)
}

func (g *PDFGenerator) row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}

func (g *PDFGenerator) section(pdf *gofpdf.Fpdf, title, body string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 6, body, "", "L", false)
	pdf.Ln(2)
}

func (g *PDFGenerator) footer(pdf *gofpdf.Fpdf) {
	pdf.SetY(-25)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated on %s", time.Now().Format("2006-01-02 15:04")), "T", 1, "C", false, 0, "")
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
