package handler

import (
	"net/http"

	"hospital-frontdesk/internal/usecase"
	"hospital-frontdesk/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

// ListByAction serves GET /audit-logs?action=appointment.claim
func (h *AuditLogHandler) ListByAction(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	if action == "" {
		response.ValidationError(w, map[string]string{"action": "action is required"})
		return
	}

	logs, err := h.auditLogUsecase.ListByAction(r.Context(), action)
	if err != nil {
		response.InternalServerError(w, "Failed to get audit logs")
		return
	}

	response.JSON(w, http.StatusOK, logs)
}
