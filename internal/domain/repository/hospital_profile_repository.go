package repository

import (
	"hospital-frontdesk/internal/domain/entity"

	"gorm.io/gorm"
)

type HospitalProfileRepository interface {
	FindByDoctorID(db *gorm.DB, doctorID string) (*entity.HospitalProfile, error)
	FindOrCreateForUpdate(db *gorm.DB, doctorID string) (*entity.HospitalProfile, error)
	Save(db *gorm.DB, profile *entity.HospitalProfile) error
}
