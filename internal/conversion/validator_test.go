package conversion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *ConvertRequest {
	return &ConvertRequest{
		SourceCode:     "print('hi')",
		SourceLanguage: "python",
		TargetLanguage: "go",
	}
}

func TestValidateRequest_OK(t *testing.T) {
	require.NoError(t, ValidateRequest(validRequest(), 5000))
}

func TestValidateRequest_MissingFields(t *testing.T) {
	req := validRequest()
	req.SourceCode = "   "
	assert.ErrorIs(t, ValidateRequest(req, 5000), ErrMissingField)

	req = validRequest()
	req.SourceLanguage = ""
	assert.ErrorIs(t, ValidateRequest(req, 5000), ErrMissingField)

	req = validRequest()
	req.TargetLanguage = ""
	assert.ErrorIs(t, ValidateRequest(req, 5000), ErrMissingField)
}

func TestValidateRequest_UnsupportedSource(t *testing.T) {
	req := validRequest()
	req.SourceLanguage = "cobol"
	assert.ErrorIs(t, ValidateRequest(req, 5000), ErrUnsupportedSource)
}

func TestValidateRequest_UnsupportedPair(t *testing.T) {
	req := validRequest()
	req.TargetLanguage = "python"
	assert.ErrorIs(t, ValidateRequest(req, 5000), ErrUnsupportedPair)

	req = validRequest()
	req.TargetLanguage = "cobol"
	assert.ErrorIs(t, ValidateRequest(req, 5000), ErrUnsupportedPair)
}

func TestValidateRequest_TooLarge(t *testing.T) {
	req := validRequest()
	req.SourceCode = strings.Repeat("x", 5001)
	assert.ErrorIs(t, ValidateRequest(req, 5000), ErrPayloadTooLarge)
}

func TestValidateRequest_MissingFieldWinsOverUnsupported(t *testing.T) {
	// Ordering: an empty body reports the missing field, not the bogus
	// language.
	req := &ConvertRequest{SourceLanguage: "cobol", TargetLanguage: "go"}
	assert.ErrorIs(t, ValidateRequest(req, 5000), ErrMissingField)
}
