package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/infrastructure/storage"
	"hospital-frontdesk/internal/usecase"
	"hospital-frontdesk/pkg/response"
	"hospital-frontdesk/pkg/validator"
)

// multipartOverhead is allowed on top of the file size for the other form fields
const multipartOverhead = 1 << 20

type PatientHandler struct {
	historyUsecase      usecase.HistoryUsecase
	queueUsecase        usecase.QueueUsecase
	prescriptionUsecase usecase.PrescriptionUsecase
	validator           *validator.CustomValidator
	maxUploadSize       int64
}

func NewPatientHandler(
	historyUsecase usecase.HistoryUsecase,
	queueUsecase usecase.QueueUsecase,
	prescriptionUsecase usecase.PrescriptionUsecase,
	validator *validator.CustomValidator,
	maxUploadSize int64,
) *PatientHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = storage.DefaultMaxFileSize
	}
	return &PatientHandler{
		historyUsecase:      historyUsecase,
		queueUsecase:        queueUsecase,
		prescriptionUsecase: prescriptionUsecase,
		validator:           validator,
		maxUploadSize:       maxUploadSize,
	}
}

func (h *PatientHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	histories, err := h.historyUsecase.ListHistory(r.Context())
	if err != nil {
		if accessError(w, err) {
			return
		}
		response.InternalServerError(w, "Failed to get medical history")
		return
	}

	response.JSON(w, http.StatusOK, histories)
}

func (h *PatientHandler) AddHistory(w http.ResponseWriter, r *http.Request) {
	var req dto.AddHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	res, err := h.historyUsecase.AddHistory(r.Context(), &req)
	if err != nil {
		if accessError(w, err) {
			return
		}
		response.InternalServerError(w, "Failed to add medical history")
		return
	}

	response.JSON(w, http.StatusCreated, res)
}

// UploadHistory accepts multipart/form-data with a "file" part and an optional "note"
func (h *PatientHandler) UploadHistory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.Error(w, http.StatusRequestEntityTooLarge, storage.ErrFileTooLarge.Error(), nil)
			return
		}
		response.Error(w, http.StatusBadRequest, "Invalid multipart form", nil)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.ValidationError(w, map[string]string{"file": "file is required"})
		return
	}
	defer file.Close()

	res, err := h.historyUsecase.UploadHistoryFile(r.Context(), r.FormValue("note"), file)
	if err != nil {
		if accessError(w, err) {
			return
		}
		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			response.Error(w, http.StatusRequestEntityTooLarge, err.Error(), nil)
		case errors.Is(err, storage.ErrEmptyFile), errors.Is(err, storage.ErrInvalidContentType):
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to upload medical document")
		}
		return
	}

	response.JSON(w, http.StatusCreated, res)
}

func (h *PatientHandler) GetHistoryFile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.BadRequest(w, "Invalid history ID")
		return
	}

	file, err := h.historyUsecase.OpenHistoryFile(r.Context(), id)
	if err != nil {
		if accessError(w, err) {
			return
		}
		if errors.Is(err, usecase.ErrHistoryNotFound) {
			response.NotFound(w, "File not found")
			return
		}
		response.InternalServerError(w, "Failed to read medical document")
		return
	}

	response.Attachment(w, file.Filename, file.ContentType, file.Data)
}

func (h *PatientHandler) Checkin(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	res, err := h.queueUsecase.Checkin(r.Context(), &req)
	if err != nil {
		if accessError(w, err) {
			return
		}
		if errors.Is(err, usecase.ErrDoctorNotFound) {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to check in")
		return
	}

	response.JSON(w, http.StatusCreated, res)
}

func (h *PatientHandler) GetPrescriptions(w http.ResponseWriter, r *http.Request) {
	prescriptions, err := h.prescriptionUsecase.ListForPatient(r.Context())
	if err != nil {
		if accessError(w, err) {
			return
		}
		response.InternalServerError(w, "Failed to get prescriptions")
		return
	}

	response.JSON(w, http.StatusOK, prescriptions)
}
