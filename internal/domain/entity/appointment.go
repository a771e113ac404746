package entity

import "time"

// AppointmentStatus represents where a patient is in the consultation queue
type AppointmentStatus string

const (
	AppointmentStatusWaiting        AppointmentStatus = "Waiting"
	AppointmentStatusInConsultation AppointmentStatus = "In-Consultation"
	AppointmentStatusCompleted      AppointmentStatus = "Completed"
)

// rank orders statuses; an appointment only ever moves to a higher rank
func (s AppointmentStatus) rank() int {
	switch s {
	case AppointmentStatusWaiting:
		return 1
	case AppointmentStatusInConsultation:
		return 2
	case AppointmentStatusCompleted:
		return 3
	}
	return 0
}

// CanAdvanceTo reports whether next is the status directly after s
func (s AppointmentStatus) CanAdvanceTo(next AppointmentStatus) bool {
	return s.rank() > 0 && next.rank() == s.rank()+1
}

// Appointment is one check-in in the global queue. Queue order is
// (CreatedAt, ID); ID is a database sequence so ties are well defined.
type Appointment struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID    string            `gorm:"type:varchar(20);not null;index" json:"patient_id"`
	DoctorID     string            `gorm:"type:varchar(20);not null;index" json:"doctor_id"`
	Status       AppointmentStatus `gorm:"type:varchar(50);not null;default:'Waiting';index" json:"status"`
	TicketNumber *int              `json:"ticket_number,omitempty"`
	CreatedAt    time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient *User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) IsWaiting() bool {
	return a.Status == AppointmentStatusWaiting
}

func (a *Appointment) IsInConsultation() bool {
	return a.Status == AppointmentStatusInConsultation
}
