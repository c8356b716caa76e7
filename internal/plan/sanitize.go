package plan

import "strings"

const (
	maxComponentRunes = 70
	truncationMark    = "(…)"
)

// componentReplacer substitutes filesystem-unsafe characters. Unsafe runes
// are replaced rather than dropped so distinct inputs stay distinct.
var componentReplacer = strings.NewReplacer(
	": ", " - ",
	":", ";",
	"\"", "'",
	"\\", "-",
	"/", "-",
	"|", "-",
	"*", "-",
	"...", "…",
	"?", "❓",
	"<", "{",
	">", "}",
)

// Sanitize prepares a metadata field for use as a path component. It
// collapses whitespace, replaces unsafe characters, and truncates overlong
// values. An input that sanitizes to nothing yields fallback.
func Sanitize(value, fallback string) string {
	value = strings.Join(strings.Fields(value), " ")
	value = strings.TrimSpace(componentReplacer.Replace(value))
	value = strings.Trim(value, ". ")
	value = truncate(value)
	if value == "" {
		return fallback
	}
	return value
}

// SanitizeGenre handles multi-valued genre tags. By default the first
// separated value wins; with useDashes the values are hyphen-joined
// ("Black/Thrash Metal" becomes "Black-Thrash Metal").
func SanitizeGenre(value string, useDashes bool, fallback string) string {
	raw := strings.FieldsFunc(value, func(r rune) bool {
		return r == ';' || r == '/' || r == ','
	})
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		if clean := Sanitize(part, ""); clean != "" {
			parts = append(parts, clean)
		}
	}
	if len(parts) == 0 {
		return fallback
	}
	if useDashes {
		return truncate(strings.Join(parts, "-"))
	}
	return parts[0]
}

func truncate(value string) string {
	runes := []rune(value)
	if len(runes) <= maxComponentRunes {
		return value
	}
	cut := maxComponentRunes - len([]rune(truncationMark))
	return strings.TrimRight(string(runes[:cut]), " ") + truncationMark
}
