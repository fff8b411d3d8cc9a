package vocab

import (
	"strings"
	"unicode"

	types "github.com/yungbote/rehabdir-backend/internal/domain"
)

// Normalize trims a natural key and lowercases it. Language codes and slugs are both
// stored lowercase.
func Normalize(_ types.VocabKind, key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Humanize turns a key into a display name: "sober_living" -> "Sober Living".
func Humanize(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	for i, w := range words {
		rs := []rune(strings.ToLower(w))
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " ")
}
