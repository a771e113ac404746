package entity

import (
	"strings"
	"time"
	"unicode"
)

// Role is the access role carried in a user's token
type Role string

const (
	RolePatient   Role = "patient"
	RoleDoctor    Role = "doctor"
	RoleReception Role = "reception"
	RoleMedical   Role = "medical"
	RoleRadiology Role = "radiology"
)

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleReception, RoleMedical, RoleRadiology:
		return true
	}
	return false
}

// User represents every account in the system: patients, doctors and hospital staff
type User struct {
	ID        string    `gorm:"type:varchar(20);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(120);not null" json:"name"`
	Role      Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	Phone     string    `gorm:"type:varchar(15);uniqueIndex;not null" json:"phone"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Age       *int      `json:"age,omitempty"`
	Gender    *string   `gorm:"type:varchar(10)" json:"gender,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Doctors only
	Degrees        *string `gorm:"type:varchar(255)" json:"degrees,omitempty"`
	Specialization *string `gorm:"type:varchar(120)" json:"specialization,omitempty"`
	Experience     *int    `json:"experience,omitempty"`

	HospitalProfile *HospitalProfile `gorm:"foreignKey:DoctorID" json:"hospital_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}

func (u *User) IsPatient() bool {
	return u.Role == RolePatient
}

// DeriveUserID builds the public user ID: the last four digits of the phone
// number followed by the first three characters of the name, capitalized.
// Titles are not skipped: "Dr. Avdhoot Patil" derives the suffix "Dr.".
func DeriveUserID(name, phone string) string {
	phone = strings.TrimSpace(phone)
	if len(phone) > 4 {
		phone = phone[len(phone)-4:]
	}

	prefix := []rune(strings.TrimSpace(name))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	for i := range prefix {
		if i == 0 {
			prefix[i] = unicode.ToUpper(prefix[i])
		} else {
			prefix[i] = unicode.ToLower(prefix[i])
		}
	}

	return phone + string(prefix)
}
