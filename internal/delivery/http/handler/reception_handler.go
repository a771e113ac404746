package handler

import (
	"errors"
	"net/http"

	"hospital-frontdesk/internal/usecase"
	"hospital-frontdesk/pkg/response"
)

type ReceptionHandler struct {
	queueUsecase usecase.QueueUsecase
}

func NewReceptionHandler(queueUsecase usecase.QueueUsecase) *ReceptionHandler {
	return &ReceptionHandler{
		queueUsecase: queueUsecase,
	}
}

// Next assigns the oldest waiting patient to their doctor
func (h *ReceptionHandler) Next(w http.ResponseWriter, r *http.Request) {
	claim, err := h.queueUsecase.ClaimNext(r.Context())
	if err != nil {
		if accessError(w, err) {
			return
		}
		if errors.Is(err, usecase.ErrQueueBusy) {
			response.Error(w, http.StatusServiceUnavailable, err.Error(), nil)
			return
		}
		response.InternalServerError(w, "Failed to assign next patient")
		return
	}
	if claim == nil {
		response.Message(w, http.StatusOK, "No patients waiting")
		return
	}

	response.JSON(w, http.StatusOK, claim)
}

func (h *ReceptionHandler) Queue(w http.ResponseWriter, r *http.Request) {
	queue, err := h.queueUsecase.ListWaiting(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get queue")
		return
	}

	response.JSON(w, http.StatusOK, queue)
}
