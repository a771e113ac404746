package dto

import "time"

type AppointmentResponse struct {
	ID           int64     `json:"id"`
	PatientID    string    `json:"patient_id"`
	PatientName  string    `json:"patient_name,omitempty"`
	DoctorID     string    `json:"doctor_id"`
	Status       string    `json:"status"`
	TicketNumber *int      `json:"ticket_number,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type CheckinResponse struct {
	Message     string               `json:"message"`
	Appointment *AppointmentResponse `json:"appointment"`
}

// ClaimResponse is what reception announces: who goes to which doctor
type ClaimResponse struct {
	PatientID     string `json:"patient_id"`
	DoctorID      string `json:"doctor_id"`
	AppointmentID int64  `json:"appointment_id"`
	TicketNumber  *int   `json:"ticket_number,omitempty"`
}

type QueueResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
