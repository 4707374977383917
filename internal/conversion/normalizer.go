package conversion

import (
	"encoding/json"
	"fmt"
	"strings"
)

// modelReply is the JSON object the model is instructed to return.
type modelReply struct {
	ConvertedCode string   `json:"convertedCode"`
	Explanations  []string `json:"explanations"`
	Warnings      []string `json:"warnings"`
}

// Normalize extracts the JSON object embedded in a raw model reply and maps
// it onto a Result. Replies are frequently wrapped in markdown fences or
// surrounded by prose, so instead of trusting the whole string we attempt a
// decode at every '{' offset and keep the first object that carries converted
// code. A decoded object without convertedCode is remembered so the caller
// gets the more specific error when nothing better turns up.
func Normalize(raw string) (*Result, error) {
	sawObject := false

	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' {
			continue
		}

		var reply modelReply
		dec := json.NewDecoder(strings.NewReader(raw[i:]))
		if err := dec.Decode(&reply); err != nil {
			continue
		}
		sawObject = true

		if strings.TrimSpace(reply.ConvertedCode) == "" {
			continue
		}

		res := &Result{
			ConvertedCode: reply.ConvertedCode,
			Explanations:  reply.Explanations,
			Warnings:      reply.Warnings,
		}
		if res.Explanations == nil {
			res.Explanations = []string{}
		}
		if res.Warnings == nil {
			res.Warnings = []string{}
		}
		return res, nil
	}

	if sawObject {
		return nil, ErrMissingConvertedCode
	}
	if !strings.ContainsRune(raw, '{') {
		return nil, fmt.Errorf("%w: %s", ErrNoJSONFound, snippet(raw))
	}
	return nil, fmt.Errorf("%w: %s", ErrMalformedJSON, snippet(raw))
}

// snippet bounds how much of a bad reply ends up in error messages and logs.
func snippet(raw string) string {
	const max = 120
	raw = strings.TrimSpace(raw)
	if len(raw) <= max {
		return raw
	}
	return raw[:max] + "..."
}
