package encryptedattr

import "fmt"

// Model binds a schema to one record instance and adds the accessor-level
// behavior: decrypt-on-read with a plaintext cache, encrypt-on-write, a
// presence predicate, bulk assignment, and cache invalidation.
//
// A Model is not safe for concurrent use; bind one per goroutine.
type Model struct {
	schema *Schema
	rec    Record
	cache  map[string]any
}

// Bind wraps rec with the schema's accessor behavior.
func (s *Schema) Bind(rec Record) *Model {
	return &Model{schema: s, rec: rec, cache: make(map[string]any)}
}

// Record returns the bound record.
func (m *Model) Record() Record { return m.rec }

// Schema returns the bound schema.
func (m *Model) Schema() *Schema { return m.schema }

// Get returns the field's plaintext, decrypting the stored payload on
// first access and serving the cached plaintext afterwards. The cache
// holds whatever decryption produced, including pass-through values.
func (m *Model) Get(field string, opts ...Option) (any, error) {
	if v, ok := m.cache[field]; ok {
		return v, nil
	}
	spec, ok := m.schema.Lookup(field)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, field)
	}
	stored, err := m.rec.Attribute(spec.Attribute)
	if err != nil {
		return nil, err
	}
	v, err := m.schema.DecryptField(m.rec, field, stored, opts...)
	if err != nil {
		return nil, err
	}
	m.cache[field] = v
	return v, nil
}

// Set encrypts value, stores the payload on the record, and caches the
// plaintext.
func (m *Model) Set(field string, value any, opts ...Option) error {
	spec, ok := m.schema.Lookup(field)
	if !ok {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, field)
	}
	encrypted, err := m.schema.EncryptField(m.rec, field, value, opts...)
	if err != nil {
		return err
	}
	if err := m.rec.SetAttribute(spec.Attribute, encrypted); err != nil {
		return err
	}
	m.cache[field] = value
	return nil
}

// Present reports whether the field holds a usable plaintext: non-nil,
// non-empty for strings and byte slices, the value itself for bools.
func (m *Model) Present(field string, opts ...Option) (bool, error) {
	v, err := m.Get(field, opts...)
	if err != nil {
		return false, err
	}
	switch t := v.(type) {
	case nil:
		return false, nil
	case string:
		return t != "", nil
	case []byte:
		return len(t) > 0, nil
	case bool:
		return t, nil
	}
	return true, nil
}

// Reload drops all cached plaintext so the next Get decrypts from storage
// again. Call it after the underlying record is refreshed externally.
func (m *Model) Reload() {
	m.cache = make(map[string]any)
}

// Assign bulk-assigns values: encrypted fields route through Set, all other
// names go straight to the record. Fields apply in sorted name order so a
// partial failure is deterministic.
func (m *Model) Assign(values map[string]any, opts ...Option) error {
	for _, name := range sortedMapKeys(values) {
		v := values[name]
		if m.schema.IsEncrypted(name) {
			if err := m.Set(name, v, opts...); err != nil {
				return err
			}
			continue
		}
		if err := m.rec.SetAttribute(name, v); err != nil {
			return err
		}
	}
	return nil
}
