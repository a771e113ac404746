package repository

import (
	"errors"

	"hospital-frontdesk/internal/domain/entity"
	domainRepo "hospital-frontdesk/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type hospitalProfileRepository struct{}

func NewHospitalProfileRepository() domainRepo.HospitalProfileRepository {
	return &hospitalProfileRepository{}
}

func (r *hospitalProfileRepository) FindByDoctorID(db *gorm.DB, doctorID string) (*entity.HospitalProfile, error) {
	var profile entity.HospitalProfile
	err := db.Where("doctor_id = ?", doctorID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// FindOrCreateForUpdate inserts the default profile unless one exists, then
// returns the stored row locked for the rest of the transaction
func (r *hospitalProfileRepository) FindOrCreateForUpdate(db *gorm.DB, doctorID string) (*entity.HospitalProfile, error) {
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doctor_id"}},
		DoNothing: true,
	}).Create(entity.NewHospitalProfile(doctorID)).Error
	if err != nil {
		return nil, err
	}

	query := db.Where("doctor_id = ?", doctorID)
	if db.Dialector != nil && db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var profile entity.HospitalProfile
	if err := query.First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Save inserts the profile when it has no ID yet, otherwise updates every column
func (r *hospitalProfileRepository) Save(db *gorm.DB, profile *entity.HospitalProfile) error {
	if profile.ID == 0 {
		return db.Create(profile).Error
	}
	return db.Save(profile).Error
}
