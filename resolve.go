package encryptedattr

// Resolved is the fully-concrete parameter set of one transform call. It is
// recomputed on every call: package defaults, schema defaults, registration
// options, and call-site options merge shallowly in that order, then every
// dynamic Value is resolved against the record.
type Resolved struct {
	Key       []byte
	Algorithm string
	IV        []byte
	Salt      string

	// Encoding is the transport-encoding format for cipher output, empty
	// for none. DefaultEncoding is what encode=true normalizes to and the
	// format used to store provisioned IVs.
	Encoding        string
	DefaultEncoding string

	Marshal   bool
	Marshaler Marshaler
	Encryptor Encryptor

	If         bool
	Unless     bool
	AllowEmpty bool

	Compress          bool
	CompressThreshold int

	Mode Mode

	// Extra carries resolved option keys the library does not recognize,
	// verbatim, to the cipher call.
	Extra map[string]any
}

// enabled reports whether the if/unless gate lets the transform run.
func (r *Resolved) enabled() bool {
	return r.If && !r.Unless
}

// resolveField merges the option scopes for spec and resolves every dynamic
// value against rec. rec may be nil for type-level calls; a FromRecord or
// FromAttribute option then fails, and that failure propagates unwrapped
// since it is the caller's contract to supply what its options reference.
func (s *Schema) resolveField(spec *FieldSpec, rec Record, callScope Options) (*Resolved, error) {
	merged := mergeOptions(defaultOptions(), s.defaults, spec.options, callScope)

	evaled := make(Options, len(merged))
	for k, v := range merged {
		ev, err := evalOption(v, rec)
		if err != nil {
			return nil, err
		}
		evaled[k] = ev
	}

	r := &Resolved{
		Key:               toBytes(evaled[optKey]),
		Algorithm:         toString(evaled[optAlgorithm]),
		IV:                toBytes(evaled[optIV]),
		Salt:              toString(evaled[optSalt]),
		DefaultEncoding:   toString(evaled[optDefaultEncoding]),
		Marshal:           truthy(evaled[optMarshal]),
		If:                truthy(evaled[optIf]),
		Unless:            truthy(evaled[optUnless]),
		AllowEmpty:        truthy(evaled[optAllowEmpty]),
		Compress:          truthy(evaled[optCompress]),
		CompressThreshold: toInt(evaled[optCompressThreshold], defaultCompressionThreshold),
		Mode:              toMode(evaled[optMode]),
	}
	if r.DefaultEncoding == "" {
		r.DefaultEncoding = EncodingBase64
	}
	r.Encoding = normalizeEncoding(evaled[optEncode], r.DefaultEncoding)
	r.Marshaler, _ = evaled[optMarshaler].(Marshaler)
	r.Encryptor, _ = evaled[optEncryptor].(Encryptor)

	for k, v := range evaled {
		if _, known := knownOptionKeys[k]; known {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]any)
		}
		r.Extra[k] = v
	}
	return r, nil
}

// normalizeEncoding maps the encode option to a concrete format: true means
// the default encoding, false and nil mean none, a string names a format.
func normalizeEncoding(v any, defaultEncoding string) string {
	switch e := v.(type) {
	case bool:
		if e {
			return defaultEncoding
		}
		return ""
	case string:
		return e
	}
	return ""
}

// truthy follows option-gate semantics: nil and false are falsy, everything
// else (including 0 and "") is truthy.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	}
	return true
}

func toBytes(v any) []byte {
	switch b := v.(type) {
	case []byte:
		return b
	case string:
		return []byte(b)
	}
	return nil
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case Mode:
		return string(s)
	}
	return ""
}

func toInt(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return fallback
}

func toMode(v any) Mode {
	switch m := v.(type) {
	case Mode:
		return m
	case string:
		if m != "" {
			return Mode(m)
		}
	}
	return ModePerFieldIVAndSalt
}
