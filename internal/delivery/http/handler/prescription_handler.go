package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/usecase"
	"hospital-frontdesk/pkg/response"
	"hospital-frontdesk/pkg/validator"
)

type PrescriptionHandler struct {
	prescriptionUsecase usecase.PrescriptionUsecase
	validator           *validator.CustomValidator
}

func NewPrescriptionHandler(prescriptionUsecase usecase.PrescriptionUsecase, validator *validator.CustomValidator) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionUsecase: prescriptionUsecase,
		validator:           validator,
	}
}

func (h *PrescriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, entity.ErrVitalsNotFlat) {
			response.ValidationError(w, map[string]string{"vitals": err.Error()})
			return
		}
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	res, err := h.prescriptionUsecase.Create(r.Context(), &req)
	if err != nil {
		if accessError(w, err) {
			return
		}
		switch {
		case errors.Is(err, entity.ErrInvalidMedicine):
			response.ValidationError(w, map[string]string{"medicines": err.Error()})
		case errors.Is(err, entity.ErrVitalsNotFlat):
			response.ValidationError(w, map[string]string{"vitals": err.Error()})
		case errors.Is(err, usecase.ErrPatientNotFound):
			response.NotFound(w, "Patient not found")
		default:
			response.InternalServerError(w, "Failed to create prescription")
		}
		return
	}

	response.JSON(w, http.StatusCreated, res)
}

func (h *PrescriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.BadRequest(w, "Invalid prescription ID")
		return
	}

	prescription, err := h.prescriptionUsecase.Get(r.Context(), id)
	if err != nil {
		if accessError(w, err) {
			return
		}
		if errors.Is(err, usecase.ErrPrescriptionNotFound) {
			response.NotFound(w, "Prescription not found")
			return
		}
		response.InternalServerError(w, "Failed to get prescription")
		return
	}

	response.JSON(w, http.StatusOK, prescription)
}

// Download streams the rendered PDF as an attachment
func (h *PrescriptionHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.BadRequest(w, "Invalid prescription ID")
		return
	}

	file, err := h.prescriptionUsecase.Download(r.Context(), id)
	if err != nil {
		if accessError(w, err) {
			return
		}
		if errors.Is(err, usecase.ErrPrescriptionNotFound) {
			response.NotFound(w, "Prescription not found")
			return
		}
		response.InternalServerError(w, "Failed to render prescription")
		return
	}

	response.Attachment(w, file.Filename, "application/pdf", file.Data)
}
