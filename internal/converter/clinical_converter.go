package converter

import (
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
)

func HistoriesToResponses(histories []entity.MedicalHistory) []dto.HistoryResponse {
	responses := make([]dto.HistoryResponse, len(histories))
	for i, h := range histories {
		responses[i] = dto.HistoryResponse{
			ID:   h.ID,
			Note: h.Note,
			File: h.FilePath,
			Date: h.CreatedAt,
		}
	}
	return responses
}

// MedicineRequestsToEntities keeps the order the doctor wrote them in
func MedicineRequestsToEntities(reqs []dto.MedicineRequest) entity.Medicines {
	medicines := make(entity.Medicines, len(reqs))
	for i, m := range reqs {
		medicines[i] = entity.Medicine{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		}
	}
	return medicines
}

func PrescriptionToResponse(p *entity.Prescription) *dto.PrescriptionResponse {
	if p == nil {
		return nil
	}

	vitals := p.Vitals
	if vitals == nil {
		vitals = entity.Vitals{}
	}
	medicines := []entity.Medicine(p.Medicines)
	if medicines == nil {
		medicines = []entity.Medicine{}
	}

	return &dto.PrescriptionResponse{
		ID:        p.ID,
		DoctorID:  p.DoctorID,
		PatientID: p.PatientID,
		Diagnosis: p.Diagnosis,
		Vitals:    vitals,
		Medicines: medicines,
		CreatedAt: p.CreatedAt,
	}
}

func PrescriptionsToResponses(prescriptions []entity.Prescription) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, len(prescriptions))
	for i := range prescriptions {
		responses[i] = *PrescriptionToResponse(&prescriptions[i])
	}
	return responses
}
