// Package entity resolves free-form user tokens (country names, ISO codes,
// flag emoji, subdivision names, "world") to canonical entity identifiers.
package entity

import (
	"iter"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tg_covid_bot/internal/domain"
)

// Countries with first-level subdivision support.
const (
	ParentUS = "us"
	ParentDE = "de"
)

const maxSuggestions = 3

var nonLetter = regexp.MustCompile(`[^a-z]`)

// Kind classifies what a token resolved to.
type Kind int

const (
	KindCountry Kind = iota
	KindWorld
	KindSubdivision
)

// Match is the result of a successful resolution.
type Match struct {
	Kind        Kind
	Code        string // country code, or domain.WorldCode for KindWorld
	Subdivision string // canonical subdivision name for KindSubdivision
	Parent      string // ParentUS or ParentDE for KindSubdivision
}

// Suggestion pairs an inline-query suggestion label with its match.
type Suggestion struct {
	Label string
	Match Match
}

// Index is the read-only lookup table built once at startup from the data
// provider's reference data. It is safe for concurrent use.
type Index struct {
	countries map[string]domain.Entity
	aliases   map[string]string // lookup key -> country code
	aliasList []string          // alias insertion order, for suggestions
	usStates  map[string]string // lowercase -> canonical name
	usList    []string
	deStates  map[string]string
	deList    []string
}

// NewIndex builds the lookup table. Each country is registered under its
// ISO2 code, ISO3 code, lowercase name, normalized name and flag glyph.
func NewIndex(countries []domain.Entity, usStates, deStates []string) *Index {
	idx := &Index{
		countries: make(map[string]domain.Entity, len(countries)),
		aliases:   make(map[string]string),
		usStates:  make(map[string]string, len(usStates)),
		deStates:  make(map[string]string, len(deStates)),
	}

	titler := cases.Title(language.English)

	for _, c := range countries {
		code := strings.ToLower(c.Code)
		if code == "" {
			continue
		}
		c.Code = code
		if c.Flag == "" {
			c.Flag = FlagForCode(code)
		}
		idx.countries[code] = c

		idx.addAlias(code, code)
		if c.ISO3 != "" {
			idx.addAlias(strings.ToLower(c.ISO3), code)
		}
		name := strings.ToLower(c.Name)
		idx.addAlias(name, code)
		idx.addAlias(NormalizeName(c.Name), code)
		if c.Flag != "" {
			idx.addAlias(c.Flag, code)
		}
	}

	for _, s := range usStates {
		canonical := titler.String(strings.ToLower(s))
		if _, seen := idx.usStates[strings.ToLower(s)]; seen {
			continue
		}
		idx.usStates[strings.ToLower(s)] = canonical
		idx.usList = append(idx.usList, canonical)
	}
	for _, s := range deStates {
		canonical := titler.String(strings.ToLower(s))
		if _, seen := idx.deStates[strings.ToLower(s)]; seen {
			continue
		}
		idx.deStates[strings.ToLower(s)] = canonical
		idx.deList = append(idx.deList, canonical)
	}

	return idx
}

func (idx *Index) addAlias(key, code string) {
	if key == "" {
		return
	}
	if _, exists := idx.aliases[key]; exists {
		return
	}
	idx.aliases[key] = code
	idx.aliasList = append(idx.aliasList, key)
}

// NormalizeName turns a display name into its command-safe alias, replacing
// every non-letter run character with an underscore.
func NormalizeName(name string) string {
	return nonLetter.ReplaceAllString(strings.ToLower(name), "_")
}

// Resolve maps a free-form token to a match. Lookup order: alias table,
// flag glyph decode, subdivision names, literal world containment.
func (idx *Index) Resolve(token string) (Match, bool) {
	tok := strings.ToLower(strings.TrimSpace(token))
	if tok == "" {
		return Match{}, false
	}

	if code, ok := idx.aliases[tok]; ok {
		return Match{Kind: KindCountry, Code: code}, true
	}

	if code, ok := CodeFromFlag(tok); ok {
		if resolved, found := idx.aliases[code]; found {
			return Match{Kind: KindCountry, Code: resolved}, true
		}
	}

	if canonical, ok := idx.usStates[tok]; ok {
		return Match{Kind: KindSubdivision, Code: ParentUS, Subdivision: canonical, Parent: ParentUS}, true
	}
	if canonical, ok := idx.deStates[tok]; ok {
		return Match{Kind: KindSubdivision, Code: ParentDE, Subdivision: canonical, Parent: ParentDE}, true
	}

	if strings.Contains(tok, domain.WorldCode) {
		return Match{Kind: KindWorld, Code: domain.WorldCode}, true
	}

	return Match{}, false
}

// Country returns the reference entity for a country code.
func (idx *Index) Country(code string) (domain.Entity, bool) {
	c, ok := idx.countries[strings.ToLower(code)]
	return c, ok
}

// DisplayName returns the name and icon for an entity identifier. Unknown
// codes fall back to the code itself with its flag glyph, matching how
// subdivision names are displayed.
func (idx *Index) DisplayName(code string) (string, string) {
	if code == domain.WorldCode {
		return "the World", domain.WorldIcon
	}
	if c, ok := idx.Country(code); ok {
		return c.Name, c.Flag
	}
	return code, FlagForCode(code)
}

// Suggest yields up to three suggestions whose lookup key has the given
// prefix: the world sentinel first, then country aliases, then US and German
// subdivisions, preserving table order. The sequence is finite and can be
// restarted.
func (idx *Index) Suggest(prefix string) iter.Seq[Suggestion] {
	prefix = strings.ToLower(strings.TrimSpace(prefix))

	return func(yield func(Suggestion) bool) {
		if prefix == "" {
			return
		}

		count := 0
		emit := func(s Suggestion) bool {
			count++
			return yield(s)
		}

		if strings.HasPrefix(domain.WorldCode, prefix) {
			if !emit(Suggestion{Label: domain.WorldCode, Match: Match{Kind: KindWorld, Code: domain.WorldCode}}) {
				return
			}
		}

		for _, alias := range idx.aliasList {
			if count >= maxSuggestions {
				return
			}
			if strings.HasPrefix(alias, prefix) {
				if !emit(Suggestion{Label: alias, Match: Match{Kind: KindCountry, Code: idx.aliases[alias]}}) {
					return
				}
			}
		}

		for _, state := range idx.usList {
			if count >= maxSuggestions {
				return
			}
			if strings.HasPrefix(strings.ToLower(state), prefix) {
				if !emit(Suggestion{Label: strings.ToLower(state), Match: Match{Kind: KindSubdivision, Code: ParentUS, Subdivision: state, Parent: ParentUS}}) {
					return
				}
			}
		}

		for _, state := range idx.deList {
			if count >= maxSuggestions {
				return
			}
			if strings.HasPrefix(strings.ToLower(state), prefix) {
				if !emit(Suggestion{Label: strings.ToLower(state), Match: Match{Kind: KindSubdivision, Code: ParentDE, Subdivision: state, Parent: ParentDE}}) {
					return
				}
			}
		}
	}
}

// SubdivisionIcon returns the fixed icon for a subdivision parent country.
func SubdivisionIcon(parent string) string {
	return FlagForCode(parent)
}
