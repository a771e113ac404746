package entity

import "time"

// MedicalHistory is an append-only note a patient keeps on file, optionally
// pointing at an uploaded document
type MedicalHistory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID string    `gorm:"type:varchar(20);not null;index" json:"patient_id"`
	Note      string    `gorm:"type:text" json:"note"`
	FilePath  *string   `gorm:"type:varchar(255)" json:"file_path,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (MedicalHistory) TableName() string {
	return "medical_histories"
}
