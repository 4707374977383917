package conversion

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// maxUploadBytes bounds how much of an uploaded file is read.
const maxUploadBytes = 1 << 20

var allowedExtensions = map[string]bool{
	".js":   true,
	".py":   true,
	".java": true,
	".ts":   true,
	".cpp":  true,
	".c":    true,
	".cs":   true,
	".rb":   true,
	".go":   true,
	".php":  true,
	".rs":   true,
	".kt":   true,
	".txt":  true,
	".md":   true,
}

// Extractor pulls code snippets out of uploaded documents by asking the model
// to strip prose and return only the code.
type Extractor struct {
	invoker Invoker
}

func NewExtractor(invoker Invoker) *Extractor {
	return &Extractor{invoker: invoker}
}

// AllowedUpload reports whether the file looks like something code can be
// extracted from. Extension wins; the content type is a fallback for files
// uploaded without one.
func AllowedUpload(filename, contentType string) bool {
	if allowedExtensions[strings.ToLower(filepath.Ext(filename))] {
		return true
	}
	return strings.HasPrefix(contentType, "text/")
}

// ExtractCode reads the uploaded document and returns the code found in it.
func (e *Extractor) ExtractCode(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	if !AllowedUpload(filename, contentType) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, filename)
	}

	data, err := io.ReadAll(io.LimitReader(r, maxUploadBytes))
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", ErrNoCodeFound
	}

	reply, err := e.invoker.Invoke(ctx, BuildExtractionPrompt(string(data)))
	if err != nil {
		return "", err
	}

	code := strings.TrimSpace(reply)
	if code == "" {
		return "", ErrNoCodeFound
	}
	return code, nil
}
