// Package catalog implements the read queries and the create path over a
// record collection. The pure functions in this file and create.go take the
// collection explicitly; Service binds them to a storage.Store.
package catalog

import (
	"strconv"
	"strings"

	"github.com/dharsanguruparan/Pokedex/internal/model"
)

// Detail is a record together with its circular neighbours.
type Detail struct {
	Pokemon  *model.DisplayPokemon `json:"pokemon"`
	Next     *model.DisplayPokemon `json:"nextPokemon"`
	Previous *model.DisplayPokemon `json:"previousPokemon"`
}

// ListPage returns the window of at most limit records starting at offset
// (page-1)*limit. Pages past the end are empty. page and limit must be >= 1.
func ListPage(c model.Collection, page, limit int) ([]model.DisplayPokemon, error) {
	if page < 1 {
		return nil, invalidArgument("page must be a positive integer")
	}
	if limit < 1 {
		return nil, invalidArgument("limit must be a positive integer")
	}
	start := (page - 1) * limit
	// Guard against int overflow on absurd page values.
	if start/limit != page-1 || start >= len(c) {
		return []model.DisplayPokemon{}, nil
	}
	end := start + limit
	if end > len(c) || end < start {
		end = len(c)
	}
	return model.FormatAll(c[start:end]), nil
}

// SearchByName returns records whose name contains term, ignoring case.
func SearchByName(c model.Collection, term string) ([]model.DisplayPokemon, error) {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil, invalidArgument("search term is required")
	}
	matches := make([]model.Pokemon, 0)
	for _, p := range c {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matches = append(matches, p)
		}
	}
	return model.FormatAll(matches), nil
}

// FilterByType returns records carrying typ among their types, ignoring case.
func FilterByType(c model.Collection, typ string) ([]model.DisplayPokemon, error) {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return nil, invalidArgument("type is required")
	}
	matches := make([]model.Pokemon, 0)
	for _, p := range c {
		for _, t := range p.Types {
			if strings.EqualFold(t, typ) {
				matches = append(matches, p)
				break
			}
		}
	}
	return model.FormatAll(matches), nil
}

// GetByIDWithNeighbors finds the record with id and its neighbours, treating
// the collection as a ring: the last record's next is the first, and the
// first record's previous is the last.
func GetByIDWithNeighbors(c model.Collection, id int) (Detail, error) {
	idx := -1
	for i := range c {
		if c[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Detail{}, notFound(strconv.Itoa(id))
	}
	last := len(c) - 1
	next := idx + 1
	if idx == last {
		next = 0
	}
	prev := idx - 1
	if idx == 0 {
		prev = last
	}
	return Detail{
		Pokemon:  model.Format(&c[idx]),
		Next:     model.Format(&c[next]),
		Previous: model.Format(&c[prev]),
	}, nil
}
