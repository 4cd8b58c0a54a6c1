package normalize

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Text folds a value for search comparison: lower-cased, diacritics stripped
// ("ação" and "acao" come out identical), surrounding whitespace trimmed.
// Anything still outside ASCII after mark stripping (CJK titles, mostly) is
// transliterated so romanized queries keep matching. Total for any input.
func Text(value string) string {
	lowered := strings.ToLower(value)
	stripped, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		stripped = lowered
	}
	if !isASCII(stripped) {
		if romanized := strings.ToLower(strings.TrimSpace(unidecode.Unidecode(stripped))); romanized != "" {
			stripped = romanized
		}
	}
	return strings.TrimSpace(stripped)
}

func isASCII(value string) bool {
	for _, r := range value {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
