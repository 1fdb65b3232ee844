// Package storage persists the record collection. Every driver loads and
// saves the whole collection at once; there is no per-record write path.
package storage

import (
	"context"

	"github.com/dharsanguruparan/Pokedex/internal/model"
)

// Store loads and replaces the full collection.
//
// Load never fails: a driver that cannot read or decode its data logs the
// problem and returns an empty collection, so the read path degrades to "no
// data" instead of erroring.
type Store interface {
	Load(ctx context.Context) model.Collection
	Save(ctx context.Context, c model.Collection) error
}

func clone(c model.Collection) model.Collection {
	if c == nil {
		return model.Collection{}
	}
	out := make(model.Collection, len(c))
	for i, p := range c {
		types := make([]string, len(p.Types))
		copy(types, p.Types)
		p.Types = types
		out[i] = p
	}
	return out
}
