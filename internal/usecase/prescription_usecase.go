package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"hospital-frontdesk/internal/converter"
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/delivery/http/middleware"
	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/domain/repository"
	"hospital-frontdesk/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPrescriptionNotFound = errors.New("prescription not found")
)

// PrescriptionFile is a rendered prescription
type PrescriptionFile struct {
	Filename string
	Data     []byte
}

type PrescriptionUsecase interface {
	Create(ctx context.Context, req *dto.CreatePrescriptionRequest) (*dto.CreatedResponse, error)
	Get(ctx context.Context, id int64) (*dto.PrescriptionResponse, error)
	ListForPatient(ctx context.Context) (*dto.PrescriptionListResponse, error)
	Download(ctx context.Context, id int64) (*PrescriptionFile, error)
}

type prescriptionUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	userRepo         repository.UserRepository
	hospitalRepo     repository.HospitalProfileRepository
	prescriptionRepo repository.PrescriptionRepository
	renderer         *service.PrescriptionRenderer
	auditService     service.AuditService
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	hospitalRepo repository.HospitalProfileRepository,
	prescriptionRepo repository.PrescriptionRepository,
	renderer *service.PrescriptionRenderer,
	auditService service.AuditService,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:               db,
		log:              log,
		userRepo:         userRepo,
		hospitalRepo:     hospitalRepo,
		prescriptionRepo: prescriptionRepo,
		renderer:         renderer,
		auditService:     auditService,
	}
}

// Create stores a prescription written by the calling doctor in a single insert
func (u *prescriptionUsecase) Create(ctx context.Context, req *dto.CreatePrescriptionRequest) (*dto.CreatedResponse, error) {
	doctorID, _, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	prescription := &entity.Prescription{
		DoctorID:  doctorID,
		PatientID: strings.TrimSpace(req.PatientID),
		Diagnosis: strings.TrimSpace(req.Diagnosis),
		Vitals:    req.Vitals,
		Medicines: converter.MedicineRequestsToEntities(req.Medicines),
	}
	if prescription.Vitals == nil {
		prescription.Vitals = entity.Vitals{}
	}
	if err := prescription.Validate(); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.userRepo.FindByID(tx, prescription.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", prescription.PatientID, err)
		return nil, err
	}
	if patient == nil || !patient.IsPatient() {
		return nil, ErrPatientNotFound
	}

	if err := u.prescriptionRepo.Create(tx, prescription); err != nil {
		u.log.Warnf("Failed to create prescription: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, doctorID, entity.AuditActionPrescriptionCreate, "prescription", strconv.FormatInt(prescription.ID, 10), entity.JSON{
		"patient_id": prescription.PatientID,
		"medicines":  len(prescription.Medicines),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Prescription %d created by doctor %s for patient %s", prescription.ID, doctorID, prescription.PatientID)
	return &dto.CreatedResponse{Message: "Prescription created", ID: prescription.ID}, nil
}

func (u *prescriptionUsecase) Get(ctx context.Context, id int64) (*dto.PrescriptionResponse, error) {
	prescription, err := u.findAccessible(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) ListForPatient(ctx context.Context) (*dto.PrescriptionListResponse, error) {
	patientID, _, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	prescriptions, err := u.prescriptionRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find prescriptions for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.PrescriptionListResponse{
		Prescriptions: converter.PrescriptionsToResponses(prescriptions),
		Total:         len(prescriptions),
	}, nil
}

// Download renders the prescription with the authoring doctor's letterhead
func (u *prescriptionUsecase) Download(ctx context.Context, id int64) (*PrescriptionFile, error) {
	prescription, err := u.findAccessible(ctx, id)
	if err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	doctor, err := u.userRepo.FindByID(db, prescription.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", prescription.DoctorID, err)
		return nil, err
	}
	patient, err := u.userRepo.FindByID(db, prescription.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", prescription.PatientID, err)
		return nil, err
	}
	hospital, err := u.hospitalRepo.FindByDoctorID(db, prescription.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find hospital profile for doctor %s: %+v", prescription.DoctorID, err)
		return nil, err
	}

	data, err := u.renderer.Render(prescription, doctor, hospital, patient)
	if err != nil {
		u.log.Warnf("Failed to render prescription %d: %+v", id, err)
		return nil, err
	}

	return &PrescriptionFile{
		Filename: fmt.Sprintf("prescription_%d.pdf", prescription.ID),
		Data:     data,
	}, nil
}

// findAccessible loads a prescription the caller may read: the patient it was
// written for, the doctor who wrote it, or front-desk and medical staff
func (u *prescriptionUsecase) findAccessible(ctx context.Context, id int64) (*entity.Prescription, error) {
	userID, role, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	prescription, err := u.prescriptionRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find prescription %d: %+v", id, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}

	if prescription.PatientID == userID || prescription.DoctorID == userID {
		return prescription, nil
	}
	if middleware.HasRole(role, entity.RoleReception, entity.RoleMedical) {
		return prescription, nil
	}
	return nil, ErrForbidden
}
