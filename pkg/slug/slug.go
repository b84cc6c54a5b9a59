package slug

import (
	"regexp"
	"strings"
)

var (
	slugRegexp  = regexp.MustCompile(`[^a-z0-9]+`)
	validRegexp = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Latin letters with diacritics that show up in brand names, mapped to ASCII.
var transliterator = strings.NewReplacer(
	"à", "a", "á", "a", "â", "a", "ä", "a", "ã", "a", "å", "a",
	"ç", "c", "è", "e", "é", "e", "ê", "e", "ë", "e",
	"ì", "i", "í", "i", "î", "i", "ï", "i", "ı", "i",
	"ñ", "n", "ò", "o", "ó", "o", "ô", "o", "ö", "o", "õ", "o", "ø", "o",
	"ù", "u", "ú", "u", "û", "u", "ü", "u", "ğ", "g", "ş", "s", "ß", "ss",
)

// Generate creates a URL-friendly slug from the given name.
// Apostrophes are dropped rather than split on, so possessive brand names stay
// one word.
//
// Examples:
//   - "McDonald's" → "mcdonalds"
//   - "Café Noir" → "cafe-noir"
//   - "Hello   World!" → "hello-world"
func Generate(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.NewReplacer("'", "", "’", "").Replace(slug)
	slug = transliterator.Replace(slug)

	// Any run of non-alphanumerics becomes a single hyphen.
	slug = slugRegexp.ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}

// IsValid reports whether s is already in canonical slug form: lowercase ASCII
// letters and digits separated by single hyphens.
func IsValid(s string) bool {
	return validRegexp.MatchString(s)
}
