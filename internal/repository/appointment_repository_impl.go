package repository

import (
	"errors"
	"time"

	"hospital-frontdesk/internal/domain/entity"
	domainRepo "hospital-frontdesk/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

// FindOldestWaiting returns the head of the queue. On PostgreSQL the row is
// locked and rows already locked by another claimer are skipped.
func (r *appointmentRepository) FindOldestWaiting(db *gorm.DB) (*entity.Appointment, error) {
	var appointment entity.Appointment
	query := db.Where("status = ?", entity.AppointmentStatusWaiting).
		Order("created_at ASC").
		Order("id ASC")
	if db.Dialector != nil && db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
	}

	err := query.First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindWaiting(db *gorm.DB) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Patient").
		Where("status = ?", entity.AppointmentStatusWaiting).
		Order("created_at ASC").
		Order("id ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindInConsultationByDoctor(db *gorm.DB, doctorID string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Patient").
		Where("doctor_id = ? AND status = ?", doctorID, entity.AppointmentStatusInConsultation).
		Order("created_at ASC").
		Order("id ASC").
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// AdvanceStatus moves an appointment from one status to the next only if it
// is still in the expected status. Returns affected rows: 1 = moved, 0 = lost the race.
func (r *appointmentRepository) AdvanceStatus(db *gorm.DB, id int64, from, to entity.AppointmentStatus) (int64, error) {
	if !from.CanAdvanceTo(to) {
		return 0, nil
	}
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) MaxTicketNumberSince(db *gorm.DB, since time.Time) (int, error) {
	var max int
	err := db.Model(&entity.Appointment{}).
		Select("COALESCE(MAX(ticket_number), 0)").
		Where("created_at >= ?", since).
		Scan(&max).Error
	return max, err
}
