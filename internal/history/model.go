package history

import (
	"time"

	"github.com/google/uuid"
)

// ConversionLog is one persisted conversion attempt.
type ConversionLog struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	Status         string    `json:"status"`
	DurationMs     int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListParams filters and paginates history queries.
type ListParams struct {
	Page           int
	PageSize       int
	SourceLanguage string
	TargetLanguage string
	Status         string
	From           *time.Time
	To             *time.Time
}

func DefaultListParams() ListParams {
	return ListParams{Page: 1, PageSize: 20}
}
