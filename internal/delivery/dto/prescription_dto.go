package dto

import (
	"time"

	"hospital-frontdesk/internal/domain/entity"
)

type MedicineRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Dosage    string `json:"dosage" validate:"required,max=100"`
	Frequency string `json:"frequency" validate:"required,max=100"`
	Duration  string `json:"duration" validate:"required,max=100"`
}

// CreatePrescriptionRequest decodes vitals through entity.Vitals so a nested
// or non-string value is rejected before validation runs
type CreatePrescriptionRequest struct {
	PatientID string            `json:"patient_id" validate:"required,max=20"`
	Diagnosis string            `json:"diagnosis" validate:"required"`
	Vitals    entity.Vitals     `json:"vitals"`
	Medicines []MedicineRequest `json:"medicines" validate:"dive"`
}

type PrescriptionResponse struct {
	ID        int64             `json:"id"`
	DoctorID  string            `json:"doctor_id"`
	PatientID string            `json:"patient_id"`
	Diagnosis string            `json:"diagnosis"`
	Vitals    entity.Vitals     `json:"vitals"`
	Medicines []entity.Medicine `json:"medicines"`
	CreatedAt time.Time         `json:"created_at"`
}

type PrescriptionListResponse struct {
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
	Total         int                    `json:"total"`
}
