package encryptedattr

import "sort"

// Mode selects how IVs and salts are sourced for a field.
type Mode string

const (
	// ModePerFieldIVAndSalt provisions a random IV and salt per record on
	// first encrypt and stores them beside the encrypted payload. Default.
	ModePerFieldIVAndSalt Mode = "per_field_iv_and_salt"

	// ModeSingleIVAndSalt stores no per-record material; the cipher falls
	// back to its fixed key-derived IV. Equal plaintexts under the same key
	// produce equal ciphertexts in this mode.
	ModeSingleIVAndSalt Mode = "single_iv_and_salt"
)

// FieldSpec describes one registered encrypted field. Specs are built at
// registration and treated as immutable afterwards; Clone copies them
// structurally.
type FieldSpec struct {
	// Name is the logical field name.
	Name string

	// Attribute is the storage field holding the encrypted payload.
	Attribute string

	// IVAttribute and SaltAttribute hold the per-record IV and salt in
	// per-field mode. Both are empty in single mode.
	IVAttribute   string
	SaltAttribute string

	// Mode is the mode fixed at registration for storage-name derivation.
	// A dynamic mode option can still steer individual calls.
	Mode Mode

	options Options
}

// Options returns a copy of the registration-scope options.
func (fs *FieldSpec) Options() Options {
	return fs.options.clone()
}

// Schema is the per-record-type registry of encrypted fields. Register all
// fields before concurrent use; lookups and the transform entry points need
// no locking after that.
type Schema struct {
	name     string
	defaults Options
	fields   map[string]*FieldSpec
	handlers map[string]handlerEntry
}

// NewSchema creates an empty registry. name identifies the record type in
// emitted events. defaults become the schema scope of option resolution,
// overriding package defaults for every field of this schema.
func NewSchema(name string, defaults ...Option) *Schema {
	return &Schema{
		name:     name,
		defaults: collectOptions(defaults),
		fields:   make(map[string]*FieldSpec),
		handlers: make(map[string]handlerEntry),
	}
}

// Name returns the record-type name given to NewSchema.
func (s *Schema) Name() string {
	return s.name
}

// SetDefaults merges options into the schema scope. Affects subsequent
// resolution for all fields, including already-registered ones.
func (s *Schema) SetDefaults(opts ...Option) {
	if s.defaults == nil {
		s.defaults = make(Options)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s.defaults)
		}
	}
}

// Register declares names as encrypted fields sharing one option scope.
// No names is a no-op. Registering an existing name replaces its spec;
// handler bindings are keyed by name, so rebinding never duplicates them.
func (s *Schema) Register(names []string, opts ...Option) {
	if len(names) == 0 {
		return
	}
	scope := collectOptions(opts)
	for _, name := range names {
		spec := s.buildSpec(name, scope)
		s.fields[name] = spec
		s.handlers[encryptHandlerPrefix+name] = handlerEntry{op: opEncrypt, field: name}
		s.handlers[decryptHandlerPrefix+name] = handlerEntry{op: opDecrypt, field: name}
		emitFieldRegistered(s.name, name, spec.Attribute, spec.Mode)
	}
}

func (s *Schema) buildSpec(name string, scope Options) *FieldSpec {
	merged := mergeOptions(defaultOptions(), s.defaults, scope)

	attribute, _ := merged[optAttribute].(string)
	if attribute == "" {
		prefix, _ := merged[optPrefix].(string)
		suffix, _ := merged[optSuffix].(string)
		attribute = prefix + name + suffix
	}

	mode := registrationMode(merged[optMode])

	spec := &FieldSpec{
		Name:      name,
		Attribute: attribute,
		Mode:      mode,
		options:   scope.clone(),
	}
	if mode == ModePerFieldIVAndSalt {
		spec.IVAttribute = attribute + "_iv"
		spec.SaltAttribute = attribute + "_salt"
	}
	return spec
}

// registrationMode pins down a literal mode for storage-name derivation.
// A non-literal (dynamic) mode derives the per-field attributes so they
// exist whenever the resolved mode needs them.
func registrationMode(v any) Mode {
	switch m := v.(type) {
	case Mode:
		return m
	case string:
		return Mode(m)
	case Value:
		if lit, ok := m.literalValue(); ok {
			return registrationMode(lit)
		}
	}
	return ModePerFieldIVAndSalt
}

// Lookup returns the spec registered for the logical field name.
func (s *Schema) Lookup(name string) (*FieldSpec, bool) {
	spec, ok := s.fields[name]
	return spec, ok
}

// IsEncrypted reports whether name is a registered encrypted field.
func (s *Schema) IsEncrypted(name string) bool {
	_, ok := s.fields[name]
	return ok
}

// Fields returns the registered logical field names, sorted alphabetically.
func (s *Schema) Fields() []string {
	return sortedMapKeys(s.fields)
}

// Clone returns an independent copy of the schema. Registrations and
// default changes on the clone never touch the parent, and vice versa.
// Use this to derive a subtype registry that inherits the parent's fields.
func (s *Schema) Clone() *Schema {
	c := &Schema{
		name:     s.name,
		defaults: s.defaults.clone(),
		fields:   make(map[string]*FieldSpec, len(s.fields)),
		handlers: make(map[string]handlerEntry, len(s.handlers)),
	}
	for name, spec := range s.fields {
		cp := *spec
		cp.options = spec.options.clone()
		c.fields[name] = &cp
	}
	for name, h := range s.handlers {
		c.handlers[name] = h
	}
	return c
}

// Rename changes the record-type name reported in events. Intended for
// clones bound to a subtype.
func (s *Schema) Rename(name string) *Schema {
	s.name = name
	return s
}

// sortedMapKeys returns map keys sorted alphabetically.
func sortedMapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
