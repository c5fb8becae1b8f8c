package op

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// MaxSuggestions is the maximum number of suggestions returned by Suggest.
const MaxSuggestions = 3

// MinSimilarity is the lowest Levenshtein similarity accepted as a
// suggestion.
const MinSimilarity = 0.6

// Suggestion is a known mnemonic close to an unrecognized one.
type Suggestion struct {
	Name       string
	Similarity float32
}

// Suggest returns up to MaxSuggestions classified mnemonics similar to the
// given one, closest first. Known mnemonics produce no suggestions.
func Suggest(opname string) []Suggestion {
	opname = strings.ToUpper(strings.TrimSpace(opname))
	if opname == "" {
		return nil
	}
	if _, ok := types[opname]; ok {
		return nil
	}
	var suggestions []Suggestion
	for _, name := range Names() {
		score, err := edlib.StringsSimilarity(opname, name, edlib.Levenshtein)
		if err != nil || score < MinSimilarity {
			continue
		}
		suggestions = append(suggestions, Suggestion{Name: name, Similarity: score})
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Similarity > suggestions[j].Similarity
	})
	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions
}

// FormatSuggestions formats suggestions as a user-friendly string.
// Returns an empty string if there are none.
func FormatSuggestions(suggestions []Suggestion) string {
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return "Did you mean " + suggestions[0].Name + "?"
	}
	names := make([]string, len(suggestions))
	for i, s := range suggestions {
		names[i] = s.Name
	}
	return "Did you mean one of: " + strings.Join(names, ", ") + "?"
}
