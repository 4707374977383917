package conversion

// ConvertRequest is the POST /code/convert body. PreserveComments defaults
// to true when omitted, matching the UI's default toggle state.
type ConvertRequest struct {
	SourceCode       string `json:"sourceCode"`
	SourceLanguage   string `json:"sourceLanguage"`
	TargetLanguage   string `json:"targetLanguage"`
	PreserveComments *bool  `json:"preserveComments,omitempty"`
	OptimizeCode     bool   `json:"optimizeCode,omitempty"`
	UserPrompt       string `json:"userPrompt,omitempty"`
}

func (r *ConvertRequest) preserveComments() bool {
	return r.PreserveComments == nil || *r.PreserveComments
}

// Result is the normalized outcome of a conversion. ConvertedCode is always
// non-empty; Explanations and Warnings are never nil.
type Result struct {
	ConvertedCode string   `json:"convertedCode"`
	Explanations  []string `json:"explanations"`
	Warnings      []string `json:"warnings"`
	ElapsedMs     int64    `json:"conversionTime"`
}
