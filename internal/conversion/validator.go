package conversion

import (
	"fmt"
	"strings"
)

// ValidateRequest applies the request rules in order; the first failure wins.
func ValidateRequest(req *ConvertRequest, maxSourceChars int) error {
	if strings.TrimSpace(req.SourceCode) == "" ||
		strings.TrimSpace(req.SourceLanguage) == "" ||
		strings.TrimSpace(req.TargetLanguage) == "" {
		return ErrMissingField
	}

	if !IsSupportedLanguage(req.SourceLanguage) {
		return fmt.Errorf("%w: %q", ErrUnsupportedSource, req.SourceLanguage)
	}

	if !IsSupportedPair(req.SourceLanguage, req.TargetLanguage) {
		return fmt.Errorf("%w: %q to %q", ErrUnsupportedPair, req.SourceLanguage, req.TargetLanguage)
	}

	if len(req.SourceCode) > maxSourceChars {
		return fmt.Errorf("%w: %d > %d characters", ErrPayloadTooLarge, len(req.SourceCode), maxSourceChars)
	}

	return nil
}
