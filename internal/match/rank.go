package match

import (
	"sort"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/vmunix/linkview/internal/api"
)

// rankResults orders candidates by title similarity to the file's parsed
// title, most similar first. Ties keep the server's order, which already
// reflects provider popularity. An empty reference title leaves the order
// untouched.
func rankResults(results []api.SearchResult, against string) []api.SearchResult {
	reference := normalizeTitle(against)
	if reference == "" {
		return results
	}

	type scored struct {
		result api.SearchResult
		score  float64
	}
	entries := make([]scored, len(results))
	for i, r := range results {
		entries[i] = scored{result: r, score: similarity(reference, r)}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	ranked := make([]api.SearchResult, len(entries))
	for i, e := range entries {
		ranked[i] = e.result
	}
	return ranked
}

func similarity(reference string, r api.SearchResult) float64 {
	score := float64(edlib.JaroWinklerSimilarity(reference, normalizeTitle(r.Title)))
	if r.OriginalTitle != "" && r.OriginalTitle != r.Title {
		if alt := float64(edlib.JaroWinklerSimilarity(reference, normalizeTitle(r.OriginalTitle))); alt > score {
			score = alt
		}
	}
	return score
}

// normalizeTitle lowercases, strips accents and punctuation, and collapses
// whitespace so similarity compares titles rather than typography.
func normalizeTitle(title string) string {
	s := strings.ToLower(title)
	s = removeAccents(s)

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
