package repository

import (
	"hospital-frontdesk/internal/domain/entity"

	"gorm.io/gorm"
)

type PrescriptionRepository interface {
	Create(db *gorm.DB, prescription *entity.Prescription) error
	FindByID(db *gorm.DB, id int64) (*entity.Prescription, error)
	FindByPatientID(db *gorm.DB, patientID string) ([]entity.Prescription, error)
}
