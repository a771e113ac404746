package usecase

import (
	"context"
	"strings"

	"hospital-frontdesk/internal/converter"
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditLogUsecase interface {
	ListByAction(ctx context.Context, action string) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(db *gorm.DB, log *logrus.Logger, auditLogRepo repository.AuditLogRepository) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

// ListByAction returns the trail for one action, e.g. appointment.claim
func (u *auditLogUsecase) ListByAction(ctx context.Context, action string) (*dto.AuditLogListResponse, error) {
	logs, err := u.auditLogRepo.FindByAction(u.db.WithContext(ctx), strings.TrimSpace(action))
	if err != nil {
		u.log.Warnf("Failed to find audit logs for action %s: %+v", action, err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}
