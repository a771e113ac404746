package dto

import (
	"time"

	"hospital-frontdesk/internal/domain/entity"
)

type AuditLogResponse struct {
	ID        int64       `json:"id"`
	UserID    *string     `json:"user_id"`
	Action    string      `json:"action"`
	Metadata  entity.JSON `json:"metadata"`
	CreatedAt time.Time   `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
