package quota

import (
	"time"

	"github.com/google/uuid"
)

// Record matches the user_quotas table schema: one row per user, counting
// conversions consumed in the current calendar-day window.
type Record struct {
	UserID      uuid.UUID `json:"user_id"`
	Count       int       `json:"count"`
	WindowStart time.Time `json:"window_start"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Status is the API-facing view of a user's quota.
type Status struct {
	Allowed   bool      `json:"-"`
	Remaining int       `json:"remaining"`
	Limit     int       `json:"limit"`
	ResetAt   time.Time `json:"resetTime"`
}
