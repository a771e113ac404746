package usecase

import (
	"context"
	"strings"

	"hospital-frontdesk/internal/converter"
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/domain/repository"
	"hospital-frontdesk/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type HospitalUsecase interface {
	GetProfile(ctx context.Context) (*dto.HospitalProfileResponse, error)
	UpdateProfile(ctx context.Context, req *dto.UpdateHospitalRequest) error
}

type hospitalUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	hospitalRepo repository.HospitalProfileRepository
	auditService service.AuditService
}

func NewHospitalUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	hospitalRepo repository.HospitalProfileRepository,
	auditService service.AuditService,
) HospitalUsecase {
	return &hospitalUsecase{
		db:           db,
		log:          log,
		hospitalRepo: hospitalRepo,
		auditService: auditService,
	}
}

// GetProfile returns the caller's letterhead, or the default one if never saved
func (u *hospitalUsecase) GetProfile(ctx context.Context) (*dto.HospitalProfileResponse, error) {
	doctorID, _, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := u.hospitalRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find hospital profile for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if profile == nil {
		profile = entity.NewHospitalProfile(doctorID)
	}

	return converter.HospitalProfileToResponse(profile), nil
}

// UpdateProfile creates the profile on first use. Fields absent from the request
// keep their stored value.
func (u *hospitalUsecase) UpdateProfile(ctx context.Context, req *dto.UpdateHospitalRequest) error {
	doctorID, _, err := callerFromContext(ctx)
	if err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.hospitalRepo.FindOrCreateForUpdate(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to load hospital profile for doctor %s: %+v", doctorID, err)
		return err
	}
	oldValue := converter.HospitalProfileToResponse(profile)

	if req.HospitalName != nil && strings.TrimSpace(*req.HospitalName) != "" {
		profile.HospitalName = strings.TrimSpace(*req.HospitalName)
	}
	if req.Address != nil {
		profile.Address = req.Address
	}
	if req.Phone != nil {
		profile.Phone = req.Phone
	}
	if req.Website != nil {
		profile.Website = req.Website
	}

	if err := u.hospitalRepo.Save(tx, profile); err != nil {
		u.log.Warnf("Failed to save hospital profile: %+v", err)
		return err
	}

	if err := u.auditService.LogUpdate(ctx, tx, doctorID, entity.AuditActionHospitalUpdate, "hospital_profile", doctorID, oldValue, converter.HospitalProfileToResponse(profile)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Hospital profile updated for doctor %s", doctorID)
	return nil
}
