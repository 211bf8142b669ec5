package encryptedattr

// Record is the host-object seam. The library reads and writes storage
// fields (encrypted payloads, IVs, salts) exclusively through it and never
// inspects the host's structure. An absent attribute reads as nil, not as
// an error; errors are for storage failures.
type Record interface {
	// Attribute returns the stored value for name, or nil when absent.
	Attribute(name string) (any, error)

	// SetAttribute stores value under name.
	SetAttribute(name string, value any) error
}

// MapRecord is an in-memory Record backed by a plain map. Useful for tests
// and for callers without a persistence layer.
type MapRecord map[string]any

func (m MapRecord) Attribute(name string) (any, error) {
	return m[name], nil
}

func (m MapRecord) SetAttribute(name string, value any) error {
	m[name] = value
	return nil
}
