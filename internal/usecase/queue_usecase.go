package usecase

import (
	"context"
	"errors"
	"strconv"

	"hospital-frontdesk/internal/converter"
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/domain/repository"
	"hospital-frontdesk/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrQueueBusy      = errors.New("queue is busy, please try again")
)

// maxClaimAttempts bounds how many candidates ClaimNext tries after losing a race
const maxClaimAttempts = 5

type QueueUsecase interface {
	Checkin(ctx context.Context, req *dto.CheckinRequest) (*dto.CheckinResponse, error)
	ClaimNext(ctx context.Context) (*dto.ClaimResponse, error)
	CurrentPatient(ctx context.Context) (*dto.CurrentPatientResponse, error)
	CompleteCurrent(ctx context.Context) (*dto.AppointmentResponse, error)
	ListWaiting(ctx context.Context) (*dto.QueueResponse, error)
}

type queueUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	userRepo        repository.UserRepository
	appointmentRepo repository.AppointmentRepository
	ticketService   *service.TicketService
	auditService    service.AuditService
}

func NewQueueUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	ticketService *service.TicketService,
	auditService service.AuditService,
) QueueUsecase {
	return &queueUsecase{
		db:              db,
		log:             log,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		ticketService:   ticketService,
		auditService:    auditService,
	}
}

// Checkin puts the calling patient at the back of the queue for doctorID
func (u *queueUsecase) Checkin(ctx context.Context, req *dto.CheckinRequest) (*dto.CheckinResponse, error) {
	patientID, _, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	doctor, err := u.userRepo.FindByID(u.db.WithContext(ctx), req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil || !doctor.IsDoctor() {
		return nil, ErrDoctorNotFound
	}

	appointment := &entity.Appointment{
		PatientID: patientID,
		DoctorID:  doctor.ID,
		Status:    entity.AppointmentStatusWaiting,
	}

	// Ticket numbers are for display only, the queue never depends on them
	if u.ticketService != nil {
		if n, err := u.ticketService.Next(ctx); err == nil {
			appointment.TicketNumber = &n
		} else {
			u.log.Warnf("Failed to issue ticket for patient %s: %+v", patientID, err)
		}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, patientID, entity.AuditActionAppointmentCheckin, "appointment", strconv.FormatInt(appointment.ID, 10), entity.JSON{
		"doctor_id": doctor.ID,
		"status":    string(appointment.Status),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Patient %s checked in for doctor %s: appointment_id=%d", patientID, doctor.ID, appointment.ID)
	return &dto.CheckinResponse{
		Message:     "Checked in successfully",
		Appointment: converter.AppointmentToResponse(appointment),
	}, nil
}

// ClaimNext moves the oldest Waiting appointment to In-Consultation.
// It returns nil when nobody is waiting.
func (u *queueUsecase) ClaimNext(ctx context.Context) (*dto.ClaimResponse, error) {
	userID, _, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxClaimAttempts; attempt++ {
		appointment, claimed, err := u.claimOnce(ctx, userID)
		if err != nil {
			return nil, err
		}
		if appointment == nil {
			return nil, nil
		}
		if claimed {
			u.log.Infof("Appointment %d claimed: patient=%s doctor=%s", appointment.ID, appointment.PatientID, appointment.DoctorID)
			return converter.AppointmentToClaimResponse(appointment), nil
		}
		u.log.Debugf("Lost race for appointment %d, attempt %d", appointment.ID, attempt)
	}

	u.log.Warnf("Failed to claim appointment after %d attempts", maxClaimAttempts)
	return nil, ErrQueueBusy
}

// claimOnce reports the candidate it looked at and whether this caller won it
func (u *queueUsecase) claimOnce(ctx context.Context, userID string) (*entity.Appointment, bool, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindOldestWaiting(tx)
	if err != nil {
		u.log.Warnf("Failed to find waiting appointment: %+v", err)
		return nil, false, err
	}
	if appointment == nil {
		return nil, false, nil
	}

	affected, err := u.appointmentRepo.AdvanceStatus(tx, appointment.ID, entity.AppointmentStatusWaiting, entity.AppointmentStatusInConsultation)
	if err != nil {
		u.log.Warnf("Failed to claim appointment %d: %+v", appointment.ID, err)
		return nil, false, err
	}
	if affected == 0 {
		return appointment, false, nil
	}
	appointment.Status = entity.AppointmentStatusInConsultation

	if err := u.auditService.LogUpdate(ctx, tx, userID, entity.AuditActionAppointmentClaim, "appointment", strconv.FormatInt(appointment.ID, 10),
		entity.JSON{"status": string(entity.AppointmentStatusWaiting)},
		entity.JSON{"status": string(entity.AppointmentStatusInConsultation)},
	); err != nil {
		return nil, false, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, false, err
	}

	return appointment, true, nil
}

// CurrentPatient returns the patient the calling doctor is consulting, or nil
func (u *queueUsecase) CurrentPatient(ctx context.Context) (*dto.CurrentPatientResponse, error) {
	doctorID, _, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	appointment, err := u.appointmentRepo.FindInConsultationByDoctor(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find current appointment for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if appointment == nil || appointment.Patient == nil {
		return nil, nil
	}

	return &dto.CurrentPatientResponse{
		ID:            appointment.Patient.ID,
		Name:          appointment.Patient.Name,
		Age:           appointment.Patient.Age,
		Gender:        appointment.Patient.Gender,
		AppointmentID: appointment.ID,
	}, nil
}

// CompleteCurrent closes the calling doctor's current consultation, or returns nil
// when there is none
func (u *queueUsecase) CompleteCurrent(ctx context.Context) (*dto.AppointmentResponse, error) {
	doctorID, _, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindInConsultationByDoctor(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find current appointment for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, nil
	}

	affected, err := u.appointmentRepo.AdvanceStatus(tx, appointment.ID, entity.AppointmentStatusInConsultation, entity.AppointmentStatusCompleted)
	if err != nil {
		u.log.Warnf("Failed to complete appointment %d: %+v", appointment.ID, err)
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}
	appointment.Status = entity.AppointmentStatusCompleted

	if err := u.auditService.LogUpdate(ctx, tx, doctorID, entity.AuditActionAppointmentComplete, "appointment", strconv.FormatInt(appointment.ID, 10),
		entity.JSON{"status": string(entity.AppointmentStatusInConsultation)},
		entity.JSON{"status": string(entity.AppointmentStatusCompleted)},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment %d completed by doctor %s", appointment.ID, doctorID)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *queueUsecase) ListWaiting(ctx context.Context) (*dto.QueueResponse, error) {
	appointments, err := u.appointmentRepo.FindWaiting(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find waiting appointments: %+v", err)
		return nil, err
	}

	return &dto.QueueResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}
