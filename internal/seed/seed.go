// Package seed loads the demo accounts used for local development and walkthroughs.
package seed

import (
	"context"
	"fmt"

	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/domain/repository"
	"hospital-frontdesk/pkg/password"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DoctorID      = "0001Avd"
	DoctorPhone   = "9999000001"
	DoctorSecret  = "Avdhoot123"
	PatientID     = "0002Pat"
	PatientPhone  = "9999000002"
	PatientSecret = "Test1234"
)

// Seeder inserts each fixture only when it is missing, so it can run on every deploy
type Seeder struct {
	db               *gorm.DB
	log              *logrus.Logger
	userRepo         repository.UserRepository
	hospitalRepo     repository.HospitalProfileRepository
	prescriptionRepo repository.PrescriptionRepository
	hashPassword     func(string) (string, error)
}

func NewSeeder(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	hospitalRepo repository.HospitalProfileRepository,
	prescriptionRepo repository.PrescriptionRepository,
) *Seeder {
	return &Seeder{
		db:               db,
		log:              log,
		userRepo:         userRepo,
		hospitalRepo:     hospitalRepo,
		prescriptionRepo: prescriptionRepo,
		hashPassword:     password.Hash,
	}
}

func (s *Seeder) Run(ctx context.Context) error {
	tx := s.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := s.ensureUser(tx, &entity.User{
		ID:             DoctorID,
		Name:           "Dr. Avdhoot Patil",
		Role:           entity.RoleDoctor,
		Phone:          DoctorPhone,
		Age:            intPtr(40),
		Gender:         strPtr("M"),
		Degrees:        strPtr("MBBS, MD"),
		Specialization: strPtr("Cardiologist"),
		Experience:     intPtr(15),
	}, DoctorSecret)
	if err != nil {
		return err
	}

	hospital, err := s.hospitalRepo.FindByDoctorID(tx, doctor.ID)
	if err != nil {
		return fmt.Errorf("find hospital profile: %w", err)
	}
	if hospital == nil {
		hospital = &entity.HospitalProfile{
			DoctorID:     doctor.ID,
			HospitalName: "KEM",
			Address:      strPtr("Shivaji Nagar, Pune"),
			Phone:        strPtr("020 445 6897"),
			Website:      strPtr("www.dravdhoot.com"),
		}
		if err := s.hospitalRepo.Save(tx, hospital); err != nil {
			return fmt.Errorf("create hospital profile: %w", err)
		}
		s.log.Infof("Seeded hospital profile for doctor: %s", doctor.Name)
	}

	patient, err := s.ensureUser(tx, &entity.User{
		ID:     PatientID,
		Name:   "Test Patient",
		Role:   entity.RolePatient,
		Phone:  PatientPhone,
		Age:    intPtr(30),
		Gender: strPtr("M"),
	}, PatientSecret)
	if err != nil {
		return err
	}

	if err := s.ensurePrescription(tx, doctor, patient); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	s.log.Info("Seeding completed")
	return nil
}

// ensureUser looks the account up by phone and creates it with secret as password if absent
func (s *Seeder) ensureUser(tx *gorm.DB, user *entity.User, secret string) (*entity.User, error) {
	existing, err := s.userRepo.FindByPhone(tx, user.Phone)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", user.Phone, err)
	}
	if existing != nil {
		return existing, nil
	}

	hashed, err := s.hashPassword(secret)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.Password = hashed

	if err := s.userRepo.Create(tx, user); err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.ID, err)
	}
	s.log.Infof("Seeded %s: %s", user.Role, user.Name)
	return user, nil
}

func (s *Seeder) ensurePrescription(tx *gorm.DB, doctor, patient *entity.User) error {
	prescriptions, err := s.prescriptionRepo.FindByPatientID(tx, patient.ID)
	if err != nil {
		return fmt.Errorf("find prescriptions: %w", err)
	}
	for _, p := range prescriptions {
		if p.DoctorID == doctor.ID {
			return nil
		}
	}

	prescription := &entity.Prescription{
		DoctorID:  doctor.ID,
		PatientID: patient.ID,
		Diagnosis: "Chest pain with mild discomfort.",
		Vitals: entity.Vitals{
			{Name: "BP", Value: "120/80"},
			{Name: "Height", Value: "170 cm"},
		},
		Medicines: entity.Medicines{
			{Name: "Tab. Atorvastatin 10mg", Dosage: "1-0-0", Frequency: "After food", Duration: "30 days"},
			{Name: "Tab. Aspirin 75mg", Dosage: "0-1-0", Frequency: "After dinner", Duration: "15 days"},
		},
	}
	if err := s.prescriptionRepo.Create(tx, prescription); err != nil {
		return fmt.Errorf("create sample prescription: %w", err)
	}
	s.log.Infof("Seeded sample prescription for patient: %s", patient.Name)
	return nil
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
