package history

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inats "github.com/codeshift-app/codeshift/internal/nats"
)

func TestConversionEventRoundTrip(t *testing.T) {
	userID := uuid.New()
	event := inats.ConversionEvent{
		UserID:         userID,
		SourceLanguage: "python",
		TargetLanguage: "go",
		Status:         inats.ConversionStatusSuccess,
		DurationMs:     2300,
		Timestamp:      time.Now().UTC().Truncate(time.Millisecond),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded inats.ConversionEvent
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, userID, decoded.UserID)
	assert.Equal(t, "python", decoded.SourceLanguage)
	assert.Equal(t, "go", decoded.TargetLanguage)
	assert.Equal(t, inats.ConversionStatusSuccess, decoded.Status)
	assert.Equal(t, int64(2300), decoded.DurationMs)
}

func TestDefaultListParams(t *testing.T) {
	params := DefaultListParams()
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.PageSize)
	assert.Empty(t, params.Status)
}
