package similarity

import "strings"

// Character-level and token-level similarity are blended so that reordered tokens
// ("Main St 123") and small typos ("Resturant") both score well.
const (
	charWeight  = 0.5
	tokenWeight = 0.5

	winklerPrefixScale = 0.1
	winklerMaxPrefix   = 4
	winklerBoostFloor  = 0.7
)

// TextSimilarity compares two already-normalized strings and returns a value in [0,1].
// Empty input on either side yields 0.
func TextSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	// Fixed argument order keeps the result exactly symmetric.
	if a > b {
		a, b = b, a
	}
	return charWeight*JaroWinkler(a, b) + tokenWeight*TokenDice(a, b)
}

// JaroWinkler returns the Jaro-Winkler similarity of a and b.
func JaroWinkler(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	j := jaro(ra, rb)
	if j <= winklerBoostFloor {
		return j
	}
	prefix := 0
	for prefix < len(ra) && prefix < len(rb) && prefix < winklerMaxPrefix && ra[prefix] == rb[prefix] {
		prefix++
	}
	return j + float64(prefix)*winklerPrefixScale*(1-j)
}

func jaro(a, b []rune) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	window := max(len(a), len(b))/2 - 1
	if window < 0 {
		window = 0
	}

	aMatched := make([]bool, len(a))
	bMatched := make([]bool, len(b))
	matches := 0
	for i := range a {
		lo := max(0, i-window)
		hi := min(len(b), i+window+1)
		for k := lo; k < hi; k++ {
			if bMatched[k] || a[i] != b[k] {
				continue
			}
			aMatched[i] = true
			bMatched[k] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0
	}

	transpositions := 0
	k := 0
	for i := range a {
		if !aMatched[i] {
			continue
		}
		for !bMatched[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	return (m/float64(len(a)) + m/float64(len(b)) + (m-float64(transpositions)/2)/m) / 3
}

// TokenDice is the Sørensen-Dice coefficient over the distinct whitespace tokens.
func TokenDice(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	shared := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(setA)+len(setB))
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
