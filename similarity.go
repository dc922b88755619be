package krona

import (
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// brokerMarkers are fragments some brokers add to a name after a corporate
// action. They are ignored when comparing names.
var brokerMarkers = []string{"_old", "_new", ".old/x"}

var folder = cases.Fold()

// NormalizeSymbol returns the comparison form of a broker symbol: accents
// removed, case folded, broker markers dropped, punctuation turned into
// spaces and whitespace collapsed.
func NormalizeSymbol(s string) string {
	// the transformer is stateful, one per call.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	out = folder.String(out)
	for _, m := range brokerMarkers {
		out = strings.ReplaceAll(out, m, " ")
	}
	out = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, out)
	return strings.Join(strings.Fields(out), " ")
}

// Similarity scores how likely two broker symbols name the same instrument,
// in [0, 1]. It is the mean of the token sort and token set ratios of the
// normalized names, rounded to 4 decimals.
func Similarity(a, b string) float64 {
	na, nb := NormalizeSymbol(a), NormalizeSymbol(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	score := (tokenSortRatio(na, nb) + tokenSetRatio(na, nb)) / 2
	return math.Round(score*1e4) / 1e4
}

// ratio is the levenshtein similarity of a and b, over runes.
func ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(max(la, lb))
}

// tokenSortRatio compares the names with their words sorted, so that word
// order does not matter.
func tokenSortRatio(a, b string) float64 {
	return ratio(sortedTokens(strings.Fields(a)), sortedTokens(strings.Fields(b)))
}

// tokenSetRatio compares the common words against each name, so that a name
// extended with extra words ("amazon com" and "amazon com inc") scores high.
func tokenSetRatio(a, b string) float64 {
	ta, tb := distinct(strings.Fields(a)), distinct(strings.Fields(b))
	var common, onlyA, onlyB []string
	for _, t := range ta {
		if slices.Contains(tb, t) {
			common = append(common, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range tb {
		if !slices.Contains(ta, t) {
			onlyB = append(onlyB, t)
		}
	}
	t0 := sortedTokens(common)
	t1 := strings.TrimSpace(t0 + " " + sortedTokens(onlyA))
	t2 := strings.TrimSpace(t0 + " " + sortedTokens(onlyB))
	if t0 == "" {
		return ratio(t1, t2)
	}
	return max(ratio(t0, t1), ratio(t0, t2), ratio(t1, t2))
}

func sortedTokens(tokens []string) string {
	sorted := slices.Clone(tokens)
	slices.Sort(sorted)
	return strings.Join(sorted, " ")
}

func distinct(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
