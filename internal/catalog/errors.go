package catalog

import (
	"errors"
	"fmt"
)

// Kind classifies catalog failures so the transport edge can map them to
// status codes without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindMissingFields
	KindInvalidTypeCount
	KindInvalidTypeValue
	KindDuplicate
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindMissingFields:
		return "missing_fields"
	case KindInvalidTypeCount:
		return "invalid_type_count"
	case KindInvalidTypeValue:
		return "invalid_type_value"
	case KindDuplicate:
		return "duplicate"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is a catalog failure carrying its Kind and a client-facing message.
// errors.Is matches on Kind, so a NotFound error with any message satisfies
// errors.Is(err, ErrNotFound).
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidArgument  = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
	ErrMissingFields    = &Error{Kind: KindMissingFields, Message: "Missing required data."}
	ErrInvalidTypeCount = &Error{Kind: KindInvalidTypeCount, Message: "Pokémon can only have one or two types."}
	ErrInvalidTypeValue = &Error{Kind: KindInvalidTypeValue, Message: "Pokémon's type is invalid."}
	ErrDuplicate        = &Error{Kind: KindDuplicate, Message: "The Pokémon already exists."}
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "not found"}
)

func invalidArgument(format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func notFound(id string) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("Pokemon with id %s not found", id)}
}

// KindOf returns the Kind of the first catalog Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
