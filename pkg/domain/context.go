package domain

import (
	"fmt"
	"maps"

	"github.com/mitchellh/mapstructure"
)

// Context is the keyed payload carried by a page state.
// A nil Context is treated as empty everywhere.
type Context map[string]any

// Clone returns a shallow copy of the context. It never returns nil.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	maps.Copy(out, c)
	return out
}

// Get returns the value stored under key.
func (c Context) Get(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// String returns the value stored under key if it is a string.
func (c Context) String(key string) (string, bool) {
	v, ok := c[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Encode converts a payload into a Context.
// Maps are copied as-is; structs are flattened with mapstructure using the
// `pagestate` tag, so typed payloads and untyped maps share one storage form.
func Encode(payload any) (Context, error) {
	switch v := payload.(type) {
	case nil:
		return Context{}, nil
	case Context:
		return v.Clone(), nil
	case map[string]any:
		return Context(v).Clone(), nil
	}

	out := make(map[string]any)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: TagName,
		Result:  &out,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPayloadDecode, err)
	}
	if err := dec.Decode(payload); err != nil {
		return nil, fmt.Errorf("%w: encode %T: %w", ErrPayloadDecode, payload, err)
	}
	return Context(out), nil
}

// MustEncode is Encode for payloads known to be encodable (package-level
// state declarations). It panics on error.
func MustEncode(payload any) Context {
	c, err := Encode(payload)
	if err != nil {
		panic(err)
	}
	return c
}

// Decode converts a Context into a typed payload.
// Input is weakly typed so that values which went through JSON (float64 for
// numbers) still decode into int fields.
func Decode[T any](c Context) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          TagName,
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrPayloadDecode, err)
	}
	if err := dec.Decode(map[string]any(c)); err != nil {
		return out, fmt.Errorf("%w: decode into %T: %w", ErrPayloadDecode, out, err)
	}
	return out, nil
}
