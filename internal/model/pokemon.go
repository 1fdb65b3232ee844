// Package model contains the record shapes shared across packages: the
// persisted Pokemon record and its client-facing DisplayPokemon projection.
package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Pokemon is a stored catalog entry. Struct tags keep the persisted field
// names (id, name, types, url) stable regardless of the Go field names.
type Pokemon struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Types []string `json:"types"`
	// ImageRef is the image reference supplied on create; persisted as "url".
	ImageRef string `json:"url"`
}

// DisplayPokemon is the normalized projection served to clients.
type DisplayPokemon struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Types []string `json:"types"`
	URL   string   `json:"url"`
}

// Collection is the full ordered set of records. Order is insertion order as
// persisted and defines both pagination windows and next/previous neighbours.
type Collection []Pokemon

// ElementTypes is the fixed set of element types a record may carry.
var ElementTypes = []string{
	"bug", "dragon", "fairy", "fire", "ghost",
	"ground", "normal", "psychic", "steel", "dark",
	"electric", "fighting", "flying", "grass", "ice",
	"poison", "rock", "water",
}

var elementSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(ElementTypes))
	for _, t := range ElementTypes {
		set[t] = struct{}{}
	}
	return set
}()

// IsElementType reports whether t names a known element, ignoring case.
func IsElementType(t string) bool {
	_, ok := elementSet[strings.ToLower(t)]
	return ok
}

// ImagePath returns the public image path derived from a record name.
func ImagePath(name string) string {
	return "/images/" + strings.ToLower(name) + ".png"
}

// Format projects a record into its display shape. A nil record yields nil.
func Format(p *Pokemon) *DisplayPokemon {
	if p == nil {
		return nil
	}
	types := make([]string, len(p.Types))
	copy(types, p.Types)
	return &DisplayPokemon{
		ID:    p.ID,
		Name:  capitalize(p.Name),
		Types: types,
		URL:   ImagePath(p.Name),
	}
}

// FormatAll formats every record in order.
func FormatAll(records []Pokemon) []DisplayPokemon {
	out := make([]DisplayPokemon, 0, len(records))
	for i := range records {
		out = append(out, *Format(&records[i]))
	}
	return out
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
