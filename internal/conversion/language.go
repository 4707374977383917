package conversion

import "strings"

// languageNames is the closed catalog of convertible languages, keyed by
// lowercase identifier with the display name as value. Every language can
// convert to every other language in the set except itself.
var languageNames = map[string]string{
	"javascript": "JavaScript",
	"python":     "Python",
	"java":       "Java",
	"c#":         "C#",
	"typescript": "TypeScript",
	"ruby":       "Ruby",
	"go":         "Go",
	"rust":       "Rust",
	"c++":        "C++",
	"php":        "PHP",
	"kotlin":     "Kotlin",
}

// languageOrder fixes the catalog's presentation order.
var languageOrder = []string{
	"javascript", "python", "java", "c#", "typescript",
	"ruby", "go", "rust", "c++", "php", "kotlin",
}

// LanguageSupport is one catalog entry for the supported-languages endpoint.
type LanguageSupport struct {
	Language     string   `json:"language"`
	CanConvertTo []string `json:"canConvertTo"`
}

func IsSupportedLanguage(lang string) bool {
	_, ok := languageNames[strings.ToLower(lang)]
	return ok
}

// IsSupportedPair reports whether source can be converted to target. Both are
// matched case-insensitively; a language never converts to itself.
func IsSupportedPair(source, target string) bool {
	src := strings.ToLower(source)
	tgt := strings.ToLower(target)
	if !IsSupportedLanguage(src) || !IsSupportedLanguage(tgt) {
		return false
	}
	return src != tgt
}

// SupportedTargets returns the display names of every conversion target for
// the given source, or nil if the source is unsupported.
func SupportedTargets(source string) []string {
	src := strings.ToLower(source)
	if !IsSupportedLanguage(src) {
		return nil
	}
	targets := make([]string, 0, len(languageOrder)-1)
	for _, lang := range languageOrder {
		if lang == src {
			continue
		}
		targets = append(targets, languageNames[lang])
	}
	return targets
}

// Catalog returns the full source-to-targets adjacency table.
func Catalog() []LanguageSupport {
	catalog := make([]LanguageSupport, 0, len(languageOrder))
	for _, lang := range languageOrder {
		catalog = append(catalog, LanguageSupport{
			Language:     lang,
			CanConvertTo: SupportedTargets(lang),
		})
	}
	return catalog
}
