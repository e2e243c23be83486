package similarity

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var addressAbbreviations = map[string]string{
	"st":     "street",
	"str":    "street",
	"ave":    "avenue",
	"av":     "avenue",
	"rd":     "road",
	"blvd":   "boulevard",
	"dr":     "drive",
	"hwy":    "highway",
	"pl":     "place",
	"cres":   "crescent",
	"ct":     "court",
	"ln":     "lane",
	"pkwy":   "parkway",
	"sq":     "square",
	"ste":    "suite",
	"apt":    "apartment",
	"n":      "north",
	"s":      "south",
	"e":      "east",
	"w":      "west",
	"ne":     "northeast",
	"nw":     "northwest",
	"se":     "southeast",
	"sw":     "southwest",
	"mt":     "mount",
	"ctr":    "centre",
	"center": "centre",
}

var addressNoise = map[string]struct{}{
	"canada": {},
	"usa":    {},
}

// Canadian postal code halves (V6B 1A1) carry no extra signal once the street matches.
var rePostalHalf = regexp.MustCompile(`^([a-z]\d[a-z]|\d[a-z]\d)$`)

// Normalize lowercases, folds diacritics and reduces punctuation to single spaces.
func Normalize(raw string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, raw)
	if err != nil {
		folded = raw
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	lastSpace := true
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case r == '\'' || r == '’':
			// possessives collapse: "joe's" -> "joes"
		case r == '&':
			if !lastSpace {
				b.WriteByte(' ')
			}
			b.WriteString("and ")
			lastSpace = true
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// NormalizeAddress applies Normalize, expands street abbreviations and drops country and
// postal code tokens.
func NormalizeAddress(raw string) string {
	tokens := strings.Fields(Normalize(raw))
	out := tokens[:0]
	for _, token := range tokens {
		if _, noise := addressNoise[token]; noise {
			continue
		}
		if rePostalHalf.MatchString(token) {
			continue
		}
		if expanded, ok := addressAbbreviations[token]; ok {
			token = expanded
		}
		out = append(out, token)
	}
	return strings.Join(out, " ")
}
