package docgen

import (
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// Substitute resolves {{key}} tokens against data. Keys are trimmed of
// surrounding whitespace; unresolved tokens are left verbatim. Substituted
// values are not re-scanned, so a value containing {{...}} cannot trigger
// another round of substitution.
func Substitute(text string, data map[string]string) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	return placeholderRe.ReplaceAllStringFunc(text, func(token string) string {
		key := strings.TrimSpace(token[2 : len(token)-2])
		if val, ok := data[key]; ok {
			return val
		}
		return token
	})
}
