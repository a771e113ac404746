package repository

import (
	"errors"

	"hospital-frontdesk/internal/domain/entity"
	domainRepo "hospital-frontdesk/internal/domain/repository"

	"gorm.io/gorm"
)

type medicalHistoryRepository struct{}

func NewMedicalHistoryRepository() domainRepo.MedicalHistoryRepository {
	return &medicalHistoryRepository{}
}

func (r *medicalHistoryRepository) Create(db *gorm.DB, history *entity.MedicalHistory) error {
	return db.Create(history).Error
}

func (r *medicalHistoryRepository) FindByID(db *gorm.DB, id int64) (*entity.MedicalHistory, error) {
	var history entity.MedicalHistory
	err := db.Where("id = ?", id).First(&history).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &history, nil
}

func (r *medicalHistoryRepository) FindByPatientID(db *gorm.DB, patientID string) ([]entity.MedicalHistory, error) {
	var histories []entity.MedicalHistory
	err := db.Where("patient_id = ?", patientID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&histories).Error
	if err != nil {
		return nil, err
	}
	return histories, nil
}
