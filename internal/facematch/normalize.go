package facematch

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CleanName normalizes an operator-entered name for storage: NFC form,
// trimmed, with inner whitespace runs collapsed to a single space. The
// result is empty when the input has no visible characters.
func CleanName(name string) string {
	name = norm.NFC.String(name)
	fields := strings.FieldsFunc(name, unicode.IsSpace)
	return strings.Join(fields, " ")
}
