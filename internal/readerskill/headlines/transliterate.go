package headlines

import (
	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

// Transliterate replaces non-ASCII characters with an ASCII approximation.
// Compatibility forms (full-width letters, ellipsis) are folded first.
func Transliterate(s string) string {
	return unidecode.Unidecode(norm.NFKC.String(s))
}
