package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Brands skipped entirely during batch classification. These are
// carried by distributors with exclusive marketplace agreements, so
// resolving them is wasted quota.
var defaultBlockedBrands = []string{
	"Acer", "AMD", "Apple", "Asus", "Axis", "Brother", "Cooler Master", "Crucial", "DDIGITAL", "DJI", "Dell",
	"ELAGO", "Equip", "Ewent", "Extreme", "Gigaset", "HP", "Hoto", "Inmove", "Jabra", "Kobo", "Livall", "Maxtor",
	"Microsoft", "PNY", "QDOS", "Rapoo", "Roidmi", "SKYPOS", "SUNMI", "Samsung", "Satechi", "Serviços",
	"Seiko", "Socomec", "Spirit of Gamer", "TCL", "Team Group", "Tech-Protect", "Tooq", "Toshiba", "Trust",
	"Ubiquiti", "Vekoby", "Vivo", "Wozinsky", "Yealink",
}

// Blocklist holds canonicalized brand names to skip
type Blocklist struct {
	keys map[string]struct{}
}

// NewBlocklist builds a blocklist from brand names. Matching is exact
// after case and diacritic folding.
func NewBlocklist(brands []string) *Blocklist {
	keys := make(map[string]struct{}, len(brands))
	for _, b := range brands {
		if key := canonBrand(b); key != "" {
			keys[key] = struct{}{}
		}
	}
	return &Blocklist{keys: keys}
}

// DefaultBlocklist returns the production brand blocklist
func DefaultBlocklist() *Blocklist {
	return NewBlocklist(defaultBlockedBrands)
}

// BlocklistFromConfig builds the blocklist for a deployment. An empty
// configured list means the default list; the single entry "none"
// disables blocking entirely.
func BlocklistFromConfig(brands []string) *Blocklist {
	if len(brands) == 0 {
		return DefaultBlocklist()
	}
	if len(brands) == 1 && strings.EqualFold(strings.TrimSpace(brands[0]), "none") {
		return NewBlocklist(nil)
	}
	return NewBlocklist(brands)
}

// Blocked reports whether a brand is on the list
func (b *Blocklist) Blocked(brand string) bool {
	if b == nil {
		return false
	}
	_, ok := b.keys[canonBrand(brand)]
	return ok
}

// Len reports the number of blocked brands
func (b *Blocklist) Len() int {
	return len(b.keys)
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// canonBrand folds case and strips diacritics so "Serviços" and
// "servicos" compare equal
func canonBrand(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
