package entity

import "time"

const DefaultHospitalName = "My Hospital"

// HospitalProfile holds per-doctor letterhead data used when printing prescriptions
type HospitalProfile struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID     string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"doctor_id"`
	HospitalName string    `gorm:"type:varchar(200);not null;default:'My Hospital'" json:"hospital_name"`
	Address      *string   `gorm:"type:varchar(255)" json:"address"`
	Phone        *string   `gorm:"type:varchar(50)" json:"phone"`
	Website      *string   `gorm:"type:varchar(200)" json:"website"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (HospitalProfile) TableName() string {
	return "hospital_profiles"
}

// NewHospitalProfile returns the profile a doctor gets on first update
func NewHospitalProfile(doctorID string) *HospitalProfile {
	return &HospitalProfile{
		DoctorID:     doctorID,
		HospitalName: DefaultHospitalName,
	}
}
