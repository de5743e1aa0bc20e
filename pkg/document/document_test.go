package document

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicasys/clinica-api/internal/model"
)

func TestReceipt(t *testing.T) {
	notes := "annual check-up"
	detail := &model.PaymentDetail{
		Payment: model.Payment{
			ID:     uuid.New(),
			Amount: 50.00,
			Method: model.PaymentMethodCash,
			Status: model.PaymentStatusPaid,
			PaidAt: time.Now(),
			Notes:  &notes,
		},
		AppointmentDate: time.Now(),
		PatientName:     "Ana Torres",
		DoctorName:      "Dr. Ruiz",
	}

	data, err := NewPDFGenerator("Test Clinic").Receipt(detail)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestPrescription(t *testing.T) {
	diagnosis := "seasonal allergy"
	prescription := "loratadine 10mg"
	record := &model.MedicalRecordDetail{
		MedicalRecord: model.MedicalRecord{
			ID:           uuid.New(),
			PatientID:    uuid.New(),
			DoctorID:     uuid.New(),
			VisitReason:  "itchy eyes",
			Diagnosis:    &diagnosis,
			Prescription: &prescription,
			CreatedAt:    time.Now(),
		},
		DoctorName: "Dr. Ruiz",
	}
	patient := &model.Patient{
		NationalID: "12345678",
		FullName:   "Ana Torres",
		BirthDate:  time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
	}

	data, err := NewPDFGenerator("Test Clinic").Prescription(record, patient)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestPaymentsSpreadsheet(t *testing.T) {
	payments := []*model.PaymentDetail{
		{
			Payment: model.Payment{
				ID:     uuid.New(),
				Amount: 50.00,
				Method: model.PaymentMethodCash,
				PaidAt: time.Now(),
			},
			PatientName: "Ana Torres",
			DoctorName:  "Dr. Ruiz",
		},
	}

	data, err := NewExcelExporter().Payments(payments)
	require.NoError(t, err)
	// XLSX files are zip archives.
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestAppointmentsSpreadsheetEmpty(t *testing.T) {
	data, err := NewExcelExporter().Appointments(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
