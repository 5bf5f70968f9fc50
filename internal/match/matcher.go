package match

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/selivandex/marketpulse/internal/universe"
	"github.com/selivandex/marketpulse/pkg/models"
)

// Matcher finds instruments mentioned in a headline. Matching is pure and
// deterministic: the alias index keeps universe order, and aliases mapping
// to the same symbol collapse to the first hit.
type Matcher struct {
	universe *universe.Universe
}

// NewMatcher creates a matcher over the given universe
func NewMatcher(u *universe.Universe) *Matcher {
	return &Matcher{universe: u}
}

// Match returns the instruments whose alias occurs in the headline as a
// case-insensitive whole word. A headline may match zero, one or many
// instruments; each symbol appears at most once.
func (m *Matcher) Match(headline string) []models.MatchResult {
	lowered := strings.ToLower(headline)

	var results []models.MatchResult
	matched := make(map[string]struct{})

	for _, entry := range m.universe.Index {
		if _, dup := matched[entry.Symbol]; dup {
			continue
		}
		if !containsWholeWord(lowered, entry.Alias) {
			continue
		}

		inst, ok := m.universe.Instruments[entry.Symbol]
		if !ok {
			continue
		}

		matched[entry.Symbol] = struct{}{}
		results = append(results, models.MatchResult{
			Instrument:   inst,
			MatchedAlias: entry.Alias,
		})
	}

	return results
}

// containsWholeWord reports whether needle occurs in haystack bounded by
// non-alphanumeric runes on both sides. Both inputs must already be
// lowercased. "idea" must not hit "ideal".
func containsWholeWord(haystack, needle string) bool {
	if needle == "" {
		return false
	}

	for from := 0; ; {
		i := strings.Index(haystack[from:], needle)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(needle)

		if boundaryBefore(haystack, start) && boundaryAfter(haystack, end) {
			return true
		}
		from = start + 1
	}
}

func boundaryBefore(s string, start int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:start])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, end int) bool {
	if end >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[end:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
