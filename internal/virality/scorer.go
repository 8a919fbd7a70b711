// Package virality scores article text against a weighted keyword table.
// The score is computed once at publication and never revised afterwards,
// even if the keyword table changes.
package virality

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const titleMultiplier = 2

var (
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	nonWord    = regexp.MustCompile(`[^a-z0-9_]+`)
)

// Normalize decomposes the text, strips diacritic marks and lower-cases it,
// so "Eleição" and "eleicao" hit the same keyword.
func Normalize(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

func tokenize(s string) []string {
	var tokens []string
	for _, t := range nonWord.Split(Normalize(s), -1) {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Score sums keyword weights over the title and body tokens. A title hit
// counts double, a body hit counts once. The function is referentially
// transparent: identical inputs always yield the identical score, and no
// normalization to a percentage happens here.
func Score(title, body string, weights Weights) float64 {
	var total float64
	for _, token := range tokenize(title) {
		if w, ok := weights[token]; ok {
			total += w * titleMultiplier
		}
	}
	for _, token := range tokenize(body) {
		if w, ok := weights[token]; ok {
			total += w
		}
	}
	return total
}

// Percent maps a raw score onto [0, 100] of the table's maximum, for
// presentation only. The scorer itself never clamps.
func Percent(score float64, weights Weights) float64 {
	total := weights.Total()
	if total <= 0 {
		return 0
	}
	p := score / total * 100
	if p > 100 {
		return 100
	}
	return p
}
