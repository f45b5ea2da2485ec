package core

// Secret holds a credential (API key or IAM token) so that it cannot leak
// through fmt, JSON, or YAML. The raw value is only reachable through Expose.
//
//	key := NewSecret("AQVN...")
//	fmt.Println(key)        // [REDACTED]
//	fmt.Printf("%#v", key)  // core.Secret{[REDACTED]}
//	key.Expose()            // AQVN...
type Secret struct {
	value string
}

// NewSecret wraps value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// String implements fmt.Stringer.
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer.
func (s Secret) GoString() string {
	return "core.Secret{[REDACTED]}"
}

// MarshalJSON always encodes the placeholder.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

// MarshalText always encodes the placeholder.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte("[REDACTED]"), nil
}

// Expose returns the raw credential. Only call it when building the
// Authorization header.
func (s Secret) Expose() string {
	return s.value
}

// IsEmpty reports whether no credential is held.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}
