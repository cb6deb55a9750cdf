package state

import "github.com/aretw0/pagestate/pkg/domain"

// Def is a state declaration with a typed payload.
// The payload is stored as a domain.Context; Def only adds the conversion.
type Def[T any] struct {
	*PageState
}

// Define creates a typed state with an empty payload.
func Define[T any](name string, opts ...StateOption) Def[T] {
	return Def[T]{PageState: New(name, opts...)}
}

// DefineWith creates a typed state seeded with payload.
// It panics if the payload cannot be encoded, which only happens for
// declarations that are wrong at compile time (non-struct, non-map T).
func DefineWith[T any](name string, payload T, opts ...StateOption) Def[T] {
	opts = append([]StateOption{WithContext(domain.MustEncode(payload))}, opts...)
	return Def[T]{PageState: New(name, opts...)}
}

// Of wraps an untyped handle.
func Of[T any](ps *PageState) Def[T] {
	return Def[T]{PageState: ps}
}

// Decode converts the payload of ps into T.
func (d Def[T]) Decode(ps *PageState) (T, error) {
	if ps == nil {
		var zero T
		return zero, domain.ErrNilState
	}
	return domain.Decode[T](ps.context)
}

// Payload decodes the declaration's own payload.
func (d Def[T]) Payload() (T, error) {
	return d.Decode(d.PageState)
}

// Passing enters the target state with a typed payload.
func (d Def[T]) Passing(v T) TransitionOption {
	return PassingPayload(v)
}
