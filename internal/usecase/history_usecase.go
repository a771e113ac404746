package usecase

import (
	"context"
	"errors"
	"io"
	"path"
	"strconv"
	"strings"

	"hospital-frontdesk/internal/converter"
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/delivery/http/middleware"
	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/domain/repository"
	"hospital-frontdesk/internal/infrastructure/storage"
	"hospital-frontdesk/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrHistoryNotFound = errors.New("medical history not found")

// HistoryFile is a stored attachment ready to be streamed back
type HistoryFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type HistoryUsecase interface {
	AddHistory(ctx context.Context, req *dto.AddHistoryRequest) (*dto.CreatedResponse, error)
	UploadHistoryFile(ctx context.Context, note string, file io.Reader) (*dto.CreatedResponse, error)
	ListHistory(ctx context.Context) ([]dto.HistoryResponse, error)
	OpenHistoryFile(ctx context.Context, id int64) (*HistoryFile, error)
}

type historyUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	historyRepo  repository.MedicalHistoryRepository
	uploader     *storage.Uploader
	auditService service.AuditService
}

func NewHistoryUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	historyRepo repository.MedicalHistoryRepository,
	uploader *storage.Uploader,
	auditService service.AuditService,
) HistoryUsecase {
	return &historyUsecase{
		db:           db,
		log:          log,
		historyRepo:  historyRepo,
		uploader:     uploader,
		auditService: auditService,
	}
}

func (u *historyUsecase) AddHistory(ctx context.Context, req *dto.AddHistoryRequest) (*dto.CreatedResponse, error) {
	patientID, _, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var filePath *string
	if req.FilePath != nil {
		filePath = optionalString(*req.FilePath)
	}
	return u.create(ctx, patientID, req.Note, filePath)
}

// UploadHistoryFile stores the document first, then records the entry pointing at it
func (u *historyUsecase) UploadHistoryFile(ctx context.Context, note string, file io.Reader) (*dto.CreatedResponse, error) {
	patientID, _, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := u.uploader.Upload(ctx, patientID, file)
	if err != nil {
		u.log.Warnf("Failed to upload history file for patient %s: %+v", patientID, err)
		return nil, err
	}

	return u.create(ctx, patientID, note, &stored.Ref)
}

func (u *historyUsecase) create(ctx context.Context, patientID, note string, filePath *string) (*dto.CreatedResponse, error) {
	history := &entity.MedicalHistory{
		PatientID: patientID,
		Note:      strings.TrimSpace(note),
		FilePath:  filePath,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.historyRepo.Create(tx, history); err != nil {
		u.log.Warnf("Failed to create medical history: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, patientID, entity.AuditActionHistoryAdd, "medical_history", strconv.FormatInt(history.ID, 10), entity.JSON{
		"has_file": filePath != nil,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return &dto.CreatedResponse{Message: "Medical history added", ID: history.ID}, nil
}

func (u *historyUsecase) ListHistory(ctx context.Context) ([]dto.HistoryResponse, error) {
	patientID, _, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	histories, err := u.historyRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find medical histories for patient %s: %+v", patientID, err)
		return nil, err
	}

	return converter.HistoriesToResponses(histories), nil
}

// OpenHistoryFile returns the attachment of a history entry. Patients may only
// open their own; clinical staff may open any.
func (u *historyUsecase) OpenHistoryFile(ctx context.Context, id int64) (*HistoryFile, error) {
	userID, role, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	history, err := u.historyRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find medical history %d: %+v", id, err)
		return nil, err
	}
	if history == nil || history.FilePath == nil {
		return nil, ErrHistoryNotFound
	}
	if history.PatientID != userID && !middleware.HasRole(role, entity.RoleDoctor, entity.RoleMedical, entity.RoleRadiology) {
		return nil, ErrForbidden
	}

	data, contentType, err := u.uploader.Read(ctx, history.PatientID, *history.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) || errors.Is(err, storage.ErrInvalidReference) {
			return nil, ErrHistoryNotFound
		}
		u.log.Warnf("Failed to read history file %s: %+v", *history.FilePath, err)
		return nil, err
	}

	return &HistoryFile{
		Filename:    path.Base(*history.FilePath),
		ContentType: contentType,
		Data:        data,
	}, nil
}
