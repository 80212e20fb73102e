package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Letters without a canonical decomposition.
var foldReplacer = strings.NewReplacer(
	"ø", "o", "Ø", "o",
	"ł", "l", "Ł", "l",
	"đ", "d", "Đ", "d",
	"æ", "ae", "Æ", "ae",
	"œ", "oe", "Œ", "oe",
	"ß", "ss",
	"ı", "i",
)

// Fold lowercases s, strips diacritics from Latin letters and collapses
// whitespace, so that "Pau Cubarsí" and "pau  cubarsi" compare equal.
// Combining marks on other scripts are kept; in scripts such as Devanagari
// they are vowel signs that tell names apart.
func Fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(stripLatinMarks(foldReplacer.Replace(s)))), " ")
}

func stripLatinMarks(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	latin := false
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			if latin {
				continue
			}
		} else {
			latin = unicode.Is(unicode.Latin, r)
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}
