package conversion

import "errors"

// Validation failures (user-correctable).
var (
	ErrMissingField      = errors.New("sourceCode, sourceLanguage and targetLanguage are required")
	ErrUnsupportedSource = errors.New("source language is not supported")
	ErrUnsupportedPair   = errors.New("conversion pair is not supported")
	ErrPayloadTooLarge   = errors.New("source code exceeds the maximum length")
	ErrUnsupportedFile   = errors.New("unsupported file type for code extraction")
)

// Quota failure.
var ErrQuotaExceeded = errors.New("daily conversion limit exceeded")

// Service failures (the external model call errored, timed out or returned
// nothing).
var (
	ErrModelUnavailable = errors.New("translation model request failed")
	ErrEmptyReply       = errors.New("translation model returned an empty reply")
)

// Parse failures (the model replied, but the reply was unusable).
var (
	ErrNoJSONFound          = errors.New("no JSON object found in model reply")
	ErrMalformedJSON        = errors.New("failed to parse the model reply")
	ErrMissingConvertedCode = errors.New("model reply missing converted code")
	ErrNoCodeFound          = errors.New("no code found in file")
)

// Stage identifies which pipeline step a failure came from.
type Stage string

const (
	StageValidate  Stage = "validate"
	StageQuota     Stage = "quota"
	StageInvoke    Stage = "invoke"
	StageNormalize Stage = "normalize"
)

// PipelineError tags a failure with the stage that produced it, so the HTTP
// boundary can map it and logs can name the failing step.
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) *PipelineError {
	return &PipelineError{Stage: stage, Err: err}
}
