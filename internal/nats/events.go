package nats

import (
	"time"

	"github.com/google/uuid"
)

// FetchTimeout is the default timeout for batch fetching messages from consumers.
const FetchTimeout = 2 * time.Second

// Stream names.
const (
	StreamEvents = "CODESHIFT_EVENTS"
)

// Subject constants.
const (
	SubjectConversionEvent = "codeshift.events.conversion"
)

// Conversion event outcomes.
const (
	ConversionStatusSuccess = "success"
	ConversionStatusError   = "error"
)

// ConversionEvent is published after every conversion attempt so the history
// pipeline can persist it without blocking the request path.
type ConversionEvent struct {
	UserID         uuid.UUID `json:"user_id"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	Status         string    `json:"status"` // success, error
	DurationMs     int64     `json:"duration_ms"`
	Timestamp      time.Time `json:"timestamp"`
}
