// Package nick normalizes nicknames for case-insensitive comparison.
package nick

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Key returns the lowercased form used for lookups and set membership.
func Key(nickname string) string {
	// Casers are stateful, so one is built per call.
	return cases.Lower(language.Und).String(nickname)
}

// Equal reports whether two nicknames are the same ignoring case.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// StartsWithLetter reports whether the first rune of nickname is a letter.
func StartsWithLetter(nickname string) bool {
	r, _ := utf8.DecodeRuneInString(nickname)
	return r != utf8.RuneError && unicode.IsLetter(r)
}

// IsPseudo reports whether nickname is a server-generated fake name such as
// "[server]" or "(room)"; those never get linked or highlighted.
func IsPseudo(nickname string) bool {
	return strings.HasPrefix(nickname, "[") || strings.HasPrefix(nickname, "(")
}
