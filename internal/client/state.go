// Package client keeps the list and detail view state of a Pokedex frontend
// and synchronizes it against the HTTP API.
package client

import (
	"github.com/dharsanguruparan/Pokedex/internal/catalog"
	"github.com/dharsanguruparan/Pokedex/internal/model"
)

// Mode selects which list query a load issues.
type Mode int

const (
	ModePage Mode = iota
	ModeSearch
	ModeType
)

func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeType:
		return "type"
	default:
		return "page"
	}
}

// resets reports whether a first page in this mode replaces the list.
func (m Mode) resets() bool { return m == ModeSearch || m == ModeType }

// State is the client view state. The zero value is not ready for use; call
// NewState.
type State struct {
	Items        []model.DisplayPokemon
	Page         int
	Search       string
	Type         string
	Loading      bool
	ErrorMessage string
	Detail       catalog.Detail

	// inflight is the mode and page of the most recent QueryStarted.
	inflightMode Mode
	inflightPage int
}

func NewState() State {
	return State{Items: []model.DisplayPokemon{}, Page: 1}
}

// Mode picks the list query by precedence: type, then search, then page.
func (s *State) Mode() Mode {
	switch {
	case s.Type != "":
		return ModeType
	case s.Search != "":
		return ModeSearch
	default:
		return ModePage
	}
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	out := s
	out.Items = append([]model.DisplayPokemon(nil), s.Items...)
	if out.Items == nil {
		out.Items = []model.DisplayPokemon{}
	}
	return out
}

// Event is a state transition. Apply is the only way state changes.
type Event interface {
	apply(s *State)
}

// Apply runs e against s.
func (s *State) Apply(e Event) {
	e.apply(s)
}

// QueryStarted marks a list query in flight. A search or type query for page
// 1 clears the list.
type QueryStarted struct {
	Mode Mode
	Page int
}

func (e QueryStarted) apply(s *State) {
	s.Loading = true
	s.ErrorMessage = ""
	s.inflightMode = e.Mode
	s.inflightPage = e.Page
	if e.Mode.resets() && e.Page == 1 {
		s.Items = []model.DisplayPokemon{}
	}
}

// QuerySucceeded merges a list result: a search or type query for page 1
// replaces the list, anything else appends.
type QuerySucceeded struct {
	Items []model.DisplayPokemon
}

func (e QuerySucceeded) apply(s *State) {
	s.Loading = false
	if s.inflightMode.resets() && s.inflightPage == 1 {
		s.Items = append([]model.DisplayPokemon{}, e.Items...)
		return
	}
	s.Items = append(s.Items, e.Items...)
}

type QueryFailed struct {
	Err error
}

func (e QueryFailed) apply(s *State) {
	s.Loading = false
	s.ErrorMessage = ErrorMessage(e.Err)
}

// PageAdvanced sets Page when Page > 0 and otherwise increments it.
type PageAdvanced struct {
	Page int
}

func (e PageAdvanced) apply(s *State) {
	if e.Page > 0 {
		s.Page = e.Page
		return
	}
	s.Page++
}

// SearchTermChanged sets the search term. It does not touch Page.
type SearchTermChanged struct {
	Term string
}

func (e SearchTermChanged) apply(s *State) { s.Search = e.Term }

// TypeChanged sets the type filter. It does not touch Page.
type TypeChanged struct {
	Type string
}

func (e TypeChanged) apply(s *State) { s.Type = e.Type }

type DetailStarted struct{}

func (DetailStarted) apply(s *State) {
	s.Loading = true
	s.ErrorMessage = ""
}

type DetailSucceeded struct {
	Detail catalog.Detail
}

func (e DetailSucceeded) apply(s *State) {
	s.Loading = false
	s.Detail = e.Detail
}

type DetailFailed struct {
	Err error
}

func (e DetailFailed) apply(s *State) {
	s.Loading = false
	s.ErrorMessage = ErrorMessage(e.Err)
}

type CreateStarted struct{}

func (CreateStarted) apply(s *State) {
	s.Loading = true
	s.ErrorMessage = ""
}

type CreateSucceeded struct{}

func (CreateSucceeded) apply(s *State) { s.Loading = false }

type CreateFailed struct {
	Err error
}

func (e CreateFailed) apply(s *State) {
	s.Loading = false
	s.ErrorMessage = ErrorMessage(e.Err)
}
