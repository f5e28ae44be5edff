package core

// Secret wraps an API key (or any sensitive string) with protection against
// accidental logging or serialization. String, GoString, and the marshalers
// all emit a redacted placeholder; only Expose returns the real value.
//
//	key := core.NewSecret("vv-abc123")
//	fmt.Println(key)   // [REDACTED]
//	key.Expose()       // "vv-abc123"
type Secret struct {
	value string
}

// NewSecret wraps a sensitive string value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// String implements fmt.Stringer with a redacted placeholder.
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer so %#v stays redacted too.
func (s Secret) GoString() string {
	return "core.Secret{[REDACTED]}"
}

// MarshalJSON keeps the value out of JSON output.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

// MarshalText keeps the value out of text encodings such as YAML.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte("[REDACTED]"), nil
}

// Expose returns the actual value. Use it only where the value is genuinely
// needed, such as an Authorization header, and never log the result.
func (s Secret) Expose() string {
	return s.value
}

// IsEmpty reports whether the secret holds no value.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}
