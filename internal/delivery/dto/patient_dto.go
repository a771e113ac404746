package dto

import "time"

type AddHistoryRequest struct {
	Note     string  `json:"note" validate:"required,max=5000"`
	FilePath *string `json:"file_path" validate:"omitempty,max=255"`
}

type HistoryResponse struct {
	ID   int64     `json:"id"`
	Note string    `json:"note"`
	File *string   `json:"file"`
	Date time.Time `json:"date"`
}

type CreatedResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type CheckinRequest struct {
	DoctorID string `json:"doctor_id" validate:"required,max=20"`
}
