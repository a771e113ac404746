package repository

import (
	"hospital-frontdesk/internal/domain/entity"

	"gorm.io/gorm"
)

type MedicalHistoryRepository interface {
	Create(db *gorm.DB, history *entity.MedicalHistory) error
	FindByID(db *gorm.DB, id int64) (*entity.MedicalHistory, error)
	FindByPatientID(db *gorm.DB, patientID string) ([]entity.MedicalHistory, error)
}
