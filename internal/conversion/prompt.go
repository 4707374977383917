package conversion

import (
	"fmt"
	"strings"
)

// BuildConversionPrompt composes the single instruction sent to the model:
// role, directive, option clauses, the output-format contract and finally the
// source code. The output is deterministic for a given request.
func BuildConversionPrompt(req *ConvertRequest) string {
	src := strings.ToLower(req.SourceLanguage)
	tgt := strings.ToLower(req.TargetLanguage)

	var b strings.Builder
	b.WriteString("You are an expert code translator.\n")
	fmt.Fprintf(&b, "Convert the following %s code to %s.\n", src, tgt)

	if req.preserveComments() {
		b.WriteString("Preserve all comments and documentation.\n")
	} else {
		b.WriteString("Only include essential comments in the output.\n")
	}

	if req.OptimizeCode {
		b.WriteString("Optimize the code for the target language, using language-specific idioms and best practices.\n")
	} else {
		b.WriteString("Keep the code structure as close to the original as possible.\n")
	}

	if req.UserPrompt != "" {
		fmt.Fprintf(&b, "Additionally, follow these specific instructions: %s\n", req.UserPrompt)
	}

	b.WriteString(`Return the result in this JSON format:
{
  "convertedCode": "the full converted code here",
  "explanations": [
    "explanation of key conversion decisions or changes",
    "explanation of any idioms or patterns used"
  ],
  "warnings": [
    "any potential issues with the conversion",
    "functionality that might not translate directly"
  ]
}
Only return valid JSON without any explanations or additional text.
`)

	fmt.Fprintf(&b, "SOURCE CODE (%s):\n\n%s\n", src, req.SourceCode)
	return b.String()
}

// BuildExtractionPrompt composes the instruction for the file-upload path:
// the model returns bare code, no JSON envelope.
func BuildExtractionPrompt(document string) string {
	return "Extract all code snippets from the following document. " +
		"Only return the code, concatenated together, and nothing else. " +
		"If there is no code, return an empty string.\n\nDOCUMENT:\n\n" + document
}
