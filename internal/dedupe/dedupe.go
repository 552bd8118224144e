// Package dedupe removes repeated members found by more than one source.
package dedupe

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/antzucaro/matchr"

	"housemembers/internal/models"
)

// minKeyLength rejects keys of near-empty or garbage names.
const minKeyLength = 3

// Key returns the normalized identity of a name: lower case with
// whitespace and periods removed.
func Key(name string) string {
	var b strings.Builder

	b.Grow(len(name))

	for _, r := range strings.ToLower(name) {
		if unicode.IsSpace(r) || r == '.' {
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// Dedupe keeps the first member for each key and drops members whose key
// is too short. The input is not modified.
func Dedupe(members []models.Member) []models.Member {
	seen := make(map[string]struct{}, len(members))
	unique := make([]models.Member, 0, len(members))

	for _, m := range members {
		key := Key(m.Name)
		if utf8.RuneCountInString(key) <= minKeyLength {
			continue
		}

		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		unique = append(unique, m)
	}

	return unique
}

// Pair is two kept members whose keys are similar but not equal.
type Pair struct {
	Left       models.Member
	Right      models.Member
	Similarity float64
}

// NearDuplicates reports pairs whose keys have a Jaro-Winkler similarity of
// at least threshold. It is a diagnostic and never changes members.
func NearDuplicates(members []models.Member, threshold float64) []Pair {
	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = Key(m.Name)
	}

	var pairs []Pair

	for i := range members {
		for j := i + 1; j < len(members); j++ {
			if keys[i] == keys[j] {
				continue
			}

			similarity := matchr.JaroWinkler(keys[i], keys[j], false)
			if similarity >= threshold {
				pairs = append(pairs, Pair{
					Left:       members[i],
					Right:      members[j],
					Similarity: similarity,
				})
			}
		}
	}

	return pairs
}
