package encryptedattr

// Option keys. Every recognized key has a typed With* setter below; keys set
// via WithOption that are not in this list pass through opaquely to the
// cipher call (Params.Extra).
const (
	optAttribute         = "attribute"
	optPrefix            = "prefix"
	optSuffix            = "suffix"
	optKey               = "key"
	optEncode            = "encode"
	optDefaultEncoding   = "default_encoding"
	optMarshal           = "marshal"
	optMarshaler         = "marshaler"
	optEncryptor         = "encryptor"
	optIf                = "if"
	optUnless            = "unless"
	optMode              = "mode"
	optAlgorithm         = "algorithm"
	optIV                = "iv"
	optSalt              = "salt"
	optAllowEmpty        = "allow_empty_value"
	optCompress          = "compress"
	optCompressThreshold = "compression_threshold"
)

// knownOptionKeys separates recognized options from opaque passthrough keys.
var knownOptionKeys = map[string]struct{}{
	optAttribute:         {},
	optPrefix:            {},
	optSuffix:            {},
	optKey:               {},
	optEncode:            {},
	optDefaultEncoding:   {},
	optMarshal:           {},
	optMarshaler:         {},
	optEncryptor:         {},
	optIf:                {},
	optUnless:            {},
	optMode:              {},
	optAlgorithm:         {},
	optIV:                {},
	optSalt:              {},
	optAllowEmpty:        {},
	optCompress:          {},
	optCompressThreshold: {},
}

// Options is one scope of configuration for an encrypted field. Scopes are
// merged shallowly in precedence order (package defaults, schema defaults,
// registration, call site); the last write for a key wins.
type Options map[string]any

// Option is a functional option writing into an Options scope.
type Option func(Options)

// clone returns a shallow copy of o.
func (o Options) clone() Options {
	if o == nil {
		return nil
	}
	c := make(Options, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

// mergeOptions layers scopes left to right, last write wins. nil scopes are
// skipped.
func mergeOptions(scopes ...Options) Options {
	merged := make(Options)
	for _, scope := range scopes {
		for k, v := range scope {
			merged[k] = v
		}
	}
	return merged
}

// collectOptions applies a call-site option list into a fresh scope.
func collectOptions(opts []Option) Options {
	if len(opts) == 0 {
		return nil
	}
	o := make(Options, len(opts))
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// defaultOptions returns the package-wide default scope. Every resolve call
// starts from a fresh copy.
func defaultOptions() Options {
	return Options{
		optPrefix:            defaultPrefix,
		optSuffix:            "",
		optEncode:            false,
		optDefaultEncoding:   EncodingBase64,
		optMarshal:           false,
		optMarshaler:         JSONMarshaler{},
		optEncryptor:         DefaultEncryptor{},
		optIf:                true,
		optUnless:            false,
		optMode:              ModePerFieldIVAndSalt,
		optAlgorithm:         AlgorithmAES256GCM,
		optAllowEmpty:        false,
		optCompress:          false,
		optCompressThreshold: defaultCompressionThreshold,
	}
}

const defaultPrefix = "encrypted_"

// WithAttribute overrides the derived storage field name for the field.
func WithAttribute(name string) Option {
	return func(o Options) { o[optAttribute] = name }
}

// WithPrefix sets the storage-name prefix (default "encrypted_").
func WithPrefix(prefix string) Option {
	return func(o Options) { o[optPrefix] = prefix }
}

// WithSuffix sets the storage-name suffix (default "").
func WithSuffix(suffix string) Option {
	return func(o Options) { o[optSuffix] = suffix }
}

// WithKey sets the key material. The Value may be a Literal []byte or
// string, or a FromRecord/FromAttribute reference resolved per call.
func WithKey(v Value) Option {
	return func(o Options) { o[optKey] = v }
}

// WithEncode enables or disables transport encoding of cipher output.
// true normalizes to the resolved default encoding (base64 unless
// WithDefaultEncoding says otherwise).
func WithEncode(enabled bool) Option {
	return func(o Options) { o[optEncode] = enabled }
}

// WithEncoding sets an explicit transport-encoding format.
func WithEncoding(format string) Option {
	return func(o Options) { o[optEncode] = format }
}

// WithDefaultEncoding sets the format WithEncode(true) normalizes to, and
// the format used to store per-field IVs.
func WithDefaultEncoding(format string) Option {
	return func(o Options) { o[optDefaultEncoding] = format }
}

// WithMarshal routes values through the marshaler instead of plain string
// conversion. Use for non-string values that must round-trip structurally.
func WithMarshal(enabled bool) Option {
	return func(o Options) { o[optMarshal] = enabled }
}

// WithMarshaler sets the marshaler used when WithMarshal is enabled.
func WithMarshaler(m Marshaler) Option {
	return func(o Options) { o[optMarshaler] = m }
}

// WithEncryptor replaces the cipher implementation for the field.
func WithEncryptor(e Encryptor) Option {
	return func(o Options) { o[optEncryptor] = e }
}

// WithIf gates the transform: when the resolved value is falsy the encrypt
// and decrypt calls pass the value through untouched.
func WithIf(v Value) Option {
	return func(o Options) { o[optIf] = v }
}

// WithUnless is the inverse gate: a truthy resolved value disables the
// transform.
func WithUnless(v Value) Option {
	return func(o Options) { o[optUnless] = v }
}

// WithMode selects how IVs and salts are sourced for the field.
func WithMode(m Mode) Option {
	return func(o Options) { o[optMode] = m }
}

// WithAlgorithm sets the cipher algorithm identifier. The built-in
// encryptor understands AlgorithmAES256GCM and AlgorithmSecretbox; custom
// encryptors receive the identifier via Params.
func WithAlgorithm(algorithm string) Option {
	return func(o Options) { o[optAlgorithm] = algorithm }
}

// WithIV supplies an explicit IV for this call, bypassing per-field
// provisioning. Callers without a record use this for type-level calls.
func WithIV(iv []byte) Option {
	return func(o Options) { o[optIV] = iv }
}

// WithSalt supplies an explicit salt for this call, bypassing per-field
// provisioning.
func WithSalt(salt string) Option {
	return func(o Options) { o[optSalt] = salt }
}

// WithAllowEmpty opts empty strings into encryption instead of the default
// pass-through.
func WithAllowEmpty(allow bool) Option {
	return func(o Options) { o[optAllowEmpty] = allow }
}

// WithCompression compresses serialized values with zstd before the cipher
// runs. Encrypt and decrypt must agree on this option.
func WithCompression(enabled bool) Option {
	return func(o Options) { o[optCompress] = enabled }
}

// WithCompressionThreshold sets the minimum serialized size in bytes before
// compression is attempted. Default is 1024 (1KB).
func WithCompressionThreshold(bytes int) Option {
	return func(o Options) { o[optCompressThreshold] = bytes }
}

// WithOption sets an arbitrary option key. Unrecognized keys are not
// rejected; they resolve like any other value and pass through to the
// cipher call in Params.Extra.
func WithOption(key string, value any) Option {
	return func(o Options) { o[key] = value }
}
