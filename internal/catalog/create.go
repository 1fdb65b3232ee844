package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dharsanguruparan/Pokedex/internal/model"
	"github.com/dharsanguruparan/Pokedex/internal/validation"
)

// FlexibleID accepts a JSON number or a JSON string and keeps its text form.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexibleID(n.String())
	return nil
}

// Candidate is a create submission before validation and normalization.
type Candidate struct {
	Name     string     `json:"name" validate:"required"`
	ID       FlexibleID `json:"id" validate:"required"`
	Types    []string   `json:"types" validate:"required,min=1,max=2,dive,element"`
	ImageRef string     `json:"url" validate:"required"`

	// typesNotList is set when the submitted types value is present but not
	// a JSON array.
	typesNotList bool
}

// UnmarshalJSON decodes a submission. A types value that is not an array is
// kept as a validation failure instead of a decode error, so the usual rule
// order still decides which error is reported.
func (c *Candidate) UnmarshalJSON(data []byte) error {
	var wire struct {
		Name     string          `json:"name"`
		ID       FlexibleID      `json:"id"`
		Types    json.RawMessage `json:"types"`
		ImageRef string          `json:"url"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*c = Candidate{Name: wire.Name, ID: wire.ID, ImageRef: wire.ImageRef}

	raw := bytes.TrimSpace(wire.Types)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		c.typesNotList = true
		return nil
	}
	c.Types = make([]string, len(items))
	for i, item := range items {
		// Non-string entries stay empty and fail the element check.
		_ = json.Unmarshal(item, &c.Types[i])
	}
	return nil
}

var defaultValidator = validation.New()

// Validate checks c against the create rules and returns the first failure
// in rule order: missing fields, type count, type value, id format.
func (c Candidate) Validate(v *validation.Validator) error {
	if v == nil {
		v = defaultValidator
	}
	c.Name = strings.TrimSpace(c.Name)
	c.ImageRef = strings.TrimSpace(c.ImageRef)
	// A zero id is as good as absent.
	if c.ID == "0" {
		c.ID = ""
	}
	if err := v.Struct(c); err != nil {
		errs := v.ValidationErrors(err)
		if errs == nil {
			return err
		}
		return classify(errs, c.typesNotList)
	}
	if c.typesNotList {
		return ErrInvalidTypeCount
	}
	if _, err := c.parseID(); err != nil {
		return err
	}
	return nil
}

// classify picks the highest priority failure. typesNotList counts as a type
// count failure and replaces any error reported on the Types field itself.
func classify(errs validator.ValidationErrors, typesNotList bool) error {
	worst := KindUnknown
	if typesNotList {
		worst = KindInvalidTypeCount
	}
	rank := map[Kind]int{KindMissingFields: 3, KindInvalidTypeCount: 2, KindInvalidTypeValue: 1}
	for _, fe := range errs {
		if typesNotList && fe.StructField() == "Types" {
			continue
		}
		var k Kind
		switch fe.Tag() {
		case "required":
			k = KindMissingFields
		case "min", "max":
			k = KindInvalidTypeCount
		case "element":
			k = KindInvalidTypeValue
		default:
			k = KindInvalidArgument
		}
		if rank[k] > rank[worst] || worst == KindUnknown {
			worst = k
		}
	}
	switch worst {
	case KindMissingFields:
		return ErrMissingFields
	case KindInvalidTypeCount:
		return ErrInvalidTypeCount
	case KindInvalidTypeValue:
		return ErrInvalidTypeValue
	default:
		return invalidArgument("invalid request")
	}
}

func (c Candidate) parseID() (int, error) {
	id, err := strconv.Atoi(string(c.ID))
	if err != nil || id < 1 {
		return 0, invalidArgument("id must be a positive integer")
	}
	return id, nil
}

// Normalize returns the record c describes: integer id, lowercased name and
// types. It assumes Validate succeeded.
func (c Candidate) Normalize() (model.Pokemon, error) {
	id, err := c.parseID()
	if err != nil {
		return model.Pokemon{}, err
	}
	types := make([]string, len(c.Types))
	for i, t := range c.Types {
		types[i] = strings.ToLower(strings.TrimSpace(t))
	}
	return model.Pokemon{
		ID:       id,
		Name:     strings.ToLower(strings.TrimSpace(c.Name)),
		Types:    types,
		ImageRef: strings.TrimSpace(c.ImageRef),
	}, nil
}

// Create validates cand against c and returns a new collection with the
// normalized record appended, plus its display form. c is never modified, so
// any failure leaves the caller's collection untouched.
func Create(c model.Collection, cand Candidate, v *validation.Validator) (model.Collection, model.DisplayPokemon, error) {
	if err := cand.Validate(v); err != nil {
		return nil, model.DisplayPokemon{}, err
	}
	rec, err := cand.Normalize()
	if err != nil {
		return nil, model.DisplayPokemon{}, err
	}
	for _, p := range c {
		if p.ID == rec.ID || strings.EqualFold(p.Name, rec.Name) {
			return nil, model.DisplayPokemon{}, ErrDuplicate
		}
	}
	out := make(model.Collection, len(c), len(c)+1)
	copy(out, c)
	out = append(out, rec)
	return out, *model.Format(&rec), nil
}
