package domain

// Field constants for mapstructure and JSON standardization.
const (
	// TagName is the struct tag used when encoding typed payloads into a Context.
	// Payload structs declare `pagestate:"user_id"` to pick their keys.
	TagName = "pagestate"

	// NameSeparator joins member names when states are combined ("a-b").
	NameSeparator = "-"
)
