package universe

import (
	"strings"

	"github.com/selivandex/marketpulse/pkg/models"
)

// Row is one raw instrument-listing row before normalization
type Row struct {
	CompanyName string
	Symbol      string
	Sector      string
}

// AliasEntry maps one normalized alias to its instrument symbol.
// Entries keep universe row order so matching is reproducible.
type AliasEntry struct {
	Alias  string
	Symbol string
}

// Normalizer turns raw listing rows into a canonical instrument table
// plus an ordered alias index
type Normalizer struct {
	suffixes       map[string]struct{}
	minAliasLength int
}

// NewNormalizer creates a normalizer with the given corporate-form suffixes
// (compared case-insensitively as whole words) and minimum alias length.
func NewNormalizer(suffixes []string, minAliasLength int) *Normalizer {
	set := make(map[string]struct{}, len(suffixes))
	for _, s := range suffixes {
		set[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	return &Normalizer{
		suffixes:       set,
		minAliasLength: minAliasLength,
	}
}

// Universe is the normalized instrument table with its alias index
type Universe struct {
	Instruments map[string]models.Instrument // keyed by symbol
	Index       []AliasEntry                 // ordered alias -> symbol
}

// Build normalizes rows into a Universe. Rows missing a symbol or company
// name are skipped. Later rows never overwrite an earlier symbol.
func (n *Normalizer) Build(rows []Row) *Universe {
	u := &Universe{
		Instruments: make(map[string]models.Instrument, len(rows)),
	}

	seen := make(map[string]struct{}, len(rows))

	for _, row := range rows {
		symbol := strings.TrimSpace(row.Symbol)
		name := strings.TrimSpace(row.CompanyName)
		if symbol == "" || name == "" {
			continue
		}
		if _, dup := seen[symbol]; dup {
			continue
		}
		seen[symbol] = struct{}{}

		inst := models.Instrument{
			Symbol:      symbol,
			DisplayName: name,
			Sector:      strings.TrimSpace(row.Sector),
		}

		// Name alias first, then symbol aliases: first alias hit wins in matching.
		aliases := []string{n.StripSuffixes(name)}
		aliases = append(aliases, symbol)
		if base := symbolBase(symbol); base != symbol {
			aliases = append(aliases, base)
		}

		registered := make(map[string]struct{}, len(aliases))
		for _, alias := range aliases {
			normalized := strings.ToLower(strings.TrimSpace(alias))
			if len(normalized) < n.minAliasLength {
				continue
			}
			if _, dup := registered[normalized]; dup {
				continue
			}
			registered[normalized] = struct{}{}

			inst.Aliases = append(inst.Aliases, normalized)
			u.Index = append(u.Index, AliasEntry{Alias: normalized, Symbol: symbol})
		}

		u.Instruments[symbol] = inst
	}

	return u
}

// StripSuffixes removes corporate-form suffix words ("Ltd", "Bank", ...) from
// a company name, case-insensitively, and collapses the remaining whitespace.
func (n *Normalizer) StripSuffixes(name string) string {
	words := strings.Fields(name)
	kept := make([]string, 0, len(words))
	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,"))
		if _, drop := n.suffixes[cleaned]; drop {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

// symbolBase returns the symbol without its exchange qualifier
// ("RELIANCE.NS" -> "RELIANCE")
func symbolBase(symbol string) string {
	if i := strings.IndexByte(symbol, '.'); i > 0 {
		return symbol[:i]
	}
	return symbol
}
