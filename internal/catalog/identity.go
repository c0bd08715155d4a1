package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Identity is one person entry in the catalog, keyed by its folder-derived name.
// ImagePath and Embedding may be empty when no representative image matched or
// no face was detected; such identities are kept but excluded from matching.
type Identity struct {
	Name      string    `json:"name"`
	ImagePath string    `json:"image_path,omitempty"`
	Embedding []float32 `json:"-"`
}

// HasEmbedding reports whether the identity can participate in matching.
func (id *Identity) HasEmbedding() bool {
	return len(id.Embedding) > 0
}

// DisplayName converts a folder name into a human-readable identity name:
// underscores and dashes become spaces and runs of whitespace collapse.
// "Tom_Hanks" -> "Tom Hanks".
func DisplayName(folder string) string {
	name := strings.NewReplacer("_", " ", "-", " ").Replace(folder)
	return strings.Join(strings.Fields(name), " ")
}

// removeDiacritics strips diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NameKey normalizes a name for lookups and uniqueness checks
// (lowercase, no diacritics, underscores and dashes folded to spaces).
// Two folders that normalize to the same key map to a single identity.
func NameKey(name string) string {
	return strings.ToLower(removeDiacritics(DisplayName(name)))
}
