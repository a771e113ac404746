package repository

import (
	"time"

	"hospital-frontdesk/internal/domain/entity"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindOldestWaiting(db *gorm.DB) (*entity.Appointment, error)
	FindWaiting(db *gorm.DB) ([]entity.Appointment, error)
	FindInConsultationByDoctor(db *gorm.DB, doctorID string) (*entity.Appointment, error)
	AdvanceStatus(db *gorm.DB, id int64, from, to entity.AppointmentStatus) (int64, error)
	MaxTicketNumberSince(db *gorm.DB, since time.Time) (int, error)
}
