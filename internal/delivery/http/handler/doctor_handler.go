package handler

import (
	"encoding/json"
	"net/http"

	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/usecase"
	"hospital-frontdesk/pkg/response"
	"hospital-frontdesk/pkg/validator"
)

type DoctorHandler struct {
	queueUsecase    usecase.QueueUsecase
	hospitalUsecase usecase.HospitalUsecase
	validator       *validator.CustomValidator
}

func NewDoctorHandler(queueUsecase usecase.QueueUsecase, hospitalUsecase usecase.HospitalUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		queueUsecase:    queueUsecase,
		hospitalUsecase: hospitalUsecase,
		validator:       validator,
	}
}

// CurrentPatient shows who the doctor is consulting right now
func (h *DoctorHandler) CurrentPatient(w http.ResponseWriter, r *http.Request) {
	patient, err := h.queueUsecase.CurrentPatient(r.Context())
	if err != nil {
		if accessError(w, err) {
			return
		}
		response.InternalServerError(w, "Failed to get current patient")
		return
	}
	if patient == nil {
		response.Message(w, http.StatusOK, "No patient assigned")
		return
	}

	response.JSON(w, http.StatusOK, patient)
}

func (h *DoctorHandler) CompleteCurrent(w http.ResponseWriter, r *http.Request) {
	appointment, err := h.queueUsecase.CompleteCurrent(r.Context())
	if err != nil {
		if accessError(w, err) {
			return
		}
		response.InternalServerError(w, "Failed to complete consultation")
		return
	}
	if appointment == nil {
		response.Message(w, http.StatusOK, "No patient assigned")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Consultation completed",
		"appointment": appointment,
	})
}

func (h *DoctorHandler) GetHospital(w http.ResponseWriter, r *http.Request) {
	profile, err := h.hospitalUsecase.GetProfile(r.Context())
	if err != nil {
		if accessError(w, err) {
			return
		}
		response.InternalServerError(w, "Failed to get hospital profile")
		return
	}

	response.JSON(w, http.StatusOK, profile)
}

func (h *DoctorHandler) UpdateHospital(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateHospitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.hospitalUsecase.UpdateProfile(r.Context(), &req); err != nil {
		if accessError(w, err) {
			return
		}
		response.InternalServerError(w, "Failed to update hospital profile")
		return
	}

	response.Message(w, http.StatusOK, "Hospital profile updated successfully")
}
