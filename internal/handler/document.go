package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/service/appointment"
	"github.com/clinicasys/clinica-api/internal/service/medical"
	"github.com/clinicasys/clinica-api/internal/service/patient"
	"github.com/clinicasys/clinica-api/internal/service/payment"
	"github.com/clinicasys/clinica-api/pkg/document"
)

const (
	pdfContentType  = "application/pdf"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DocumentHandler serves printable and downloadable exports: receipts,
// prescriptions and report spreadsheets.
type DocumentHandler struct {
	pdf          *document.PDFGenerator
	excel        *document.ExcelExporter
	payments     *payment.Service
	medical      *medical.Service
	patients     *patient.Service
	appointments *appointment.Service
}

func NewDocumentHandler(
	pdf *document.PDFGenerator,
	excel *document.ExcelExporter,
	payments *payment.Service,
	medicalSvc *medical.Service,
	patients *patient.Service,
	appointments *appointment.Service,
) *DocumentHandler {
	return &DocumentHandler{
		pdf:          pdf,
		excel:        excel,
		payments:     payments,
		medical:      medicalSvc,
		patients:     patients,
		appointments: appointments,
	}
}

// Receipt renders the payment receipt PDF.
func (h *DocumentHandler) Receipt(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.payments.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.pdf.Receipt(p)
	if err != nil {
		respondError(c, err)
		return
	}
	serveFile(c, pdfContentType, fmt.Sprintf("receipt-%s.pdf", id), data)
}

// Prescription renders a consultation's prescription sheet PDF.
func (h *DocumentHandler) Prescription(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	record, err := h.medical.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	pat, err := h.patients.Get(c.Request.Context(), record.PatientID)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.pdf.Prescription(record, pat)
	if err != nil {
		respondError(c, err)
		return
	}
	serveFile(c, pdfContentType, fmt.Sprintf("prescription-%s.pdf", id), data)
}

// PaymentsExport downloads the payment listing for a date range as a
// spreadsheet.
func (h *DocumentHandler) PaymentsExport(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		respondError(c, err)
		return
	}

	payments, err := h.payments.ListRange(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.excel.Payments(payments)
	if err != nil {
		respondError(c, err)
		return
	}
	name := fmt.Sprintf("payments-%s-%s.xlsx", from.Format(model.DateOnly), to.Format(model.DateOnly))
	serveFile(c, xlsxContentType, name, data)
}

// AppointmentsExport downloads the filtered appointment listing as a
// spreadsheet.
func (h *DocumentHandler) AppointmentsExport(c *gin.Context) {
	appointments, err := h.listForExport(c)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.excel.Appointments(appointments)
	if err != nil {
		respondError(c, err)
		return
	}
	serveFile(c, xlsxContentType, "appointments.xlsx", data)
}

func (h *DocumentHandler) listForExport(c *gin.Context) ([]*model.AppointmentDetail, error) {
	aptHandler := &AppointmentHandler{svc: h.appointments}
	filter, err := aptHandler.parseFilter(c)
	if err != nil {
		return nil, err
	}
	return h.appointments.List(c.Request.Context(), filter)
}

func serveFile(c *gin.Context, contentType, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
