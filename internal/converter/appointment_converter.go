package converter

import (
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:           appointment.ID,
		PatientID:    appointment.PatientID,
		DoctorID:     appointment.DoctorID,
		Status:       string(appointment.Status),
		TicketNumber: appointment.TicketNumber,
		CreatedAt:    appointment.CreatedAt,
	}

	// Include patient name if preloaded
	if appointment.Patient != nil {
		response.PatientName = appointment.Patient.Name
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

func AppointmentToClaimResponse(appointment *entity.Appointment) *dto.ClaimResponse {
	if appointment == nil {
		return nil
	}
	return &dto.ClaimResponse{
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		AppointmentID: appointment.ID,
		TicketNumber:  appointment.TicketNumber,
	}
}
