// Package encryptedattr provides transparent field-level encryption for
// structured records: declare which named fields of a record type must be
// persisted encrypted, and the package encrypts on write and decrypts on
// read while the field behaves like any other attribute.
//
// The package owns the option-resolution and codec pipeline only. The host
// record system (how attributes are stored and persisted) stays behind the
// small Record interface, and the symmetric cipher is a pluggable Encryptor.
//
// # Basic Usage
//
//	schema := encryptedattr.NewSchema("User",
//	    encryptedattr.WithKey(encryptedattr.Literal(masterKey)),
//	)
//	schema.Register([]string{"email"},
//	    encryptedattr.WithEncode(true),
//	)
//
//	user := schema.Bind(encryptedattr.MapRecord{})
//	_ = user.Set("email", "alice@example.com")
//
//	// The record now holds base64 ciphertext under "encrypted_email"
//	// plus "encrypted_email_iv" and "encrypted_email_salt".
//	plaintext, _ := user.Get("email") // "alice@example.com", from cache
//
// # Option Resolution
//
// Each encrypt or decrypt call resolves a concrete parameter set by layering
// four option scopes, last write wins: package defaults, schema defaults
// (NewSchema), registration options (Register), and call-site options. Any
// option value may be a Value variant that is resolved against the record at
// call time:
//
//	encryptedattr.Literal(v)            // plain value
//	encryptedattr.FromRecord(fn)        // fn(record) at resolve time
//	encryptedattr.FromAttribute("col")  // read another attribute
//
// This makes per-record keys and conditional encryption possible:
//
//	schema.Register([]string{"ssn"},
//	    encryptedattr.WithKey(encryptedattr.FromAttribute("tenant_key")),
//	    encryptedattr.WithUnless(encryptedattr.FromRecord(isTestAccount)),
//	)
//
// # IV and Salt Modes
//
// ModePerFieldIVAndSalt (the default) lazily generates a random IV and salt
// per record instance, stores them next to the ciphertext, and reuses them
// for the life of the record. ModeSingleIVAndSalt skips per-record storage
// and lets the cipher fall back to a fixed IV derived from the key.
//
// Single mode is deterministic: the same plaintext always produces the same
// ciphertext under a given key. That enables equality lookups but leaks
// equality to the database. Prefer per-field mode unless you need the
// deterministic property.
//
// # Pipeline
//
// Encrypt runs serialize -> compress (optional) -> cipher -> transport
// encode; decrypt is the exact mirror. Values serialize via a pluggable
// Marshaler (JSON, MessagePack, CBOR, YAML built in) when WithMarshal is
// set, else via plain string conversion. Transport encodings are named
// formats: base64 (default), base64url, base64raw, hex.
//
// nil and empty-string values pass through both directions untouched; the
// cipher is never invoked for them. WithAllowEmpty opts empty strings into
// encryption.
//
// # Dynamic Dispatch
//
// Registration also populates a handler table keyed by accessor-style names,
// for hosts that route ad-hoc calls:
//
//	h, ok := schema.Handler("encrypt_email")
//	if ok {
//	    ciphertext, err := h(record, "alice@example.com")
//	}
//
// Names that do not match a registered field are not intercepted.
//
// # Inheritance
//
// Schema.Clone gives a subtype its own independent copy of the field
// registry and default options. Registering fields on the clone never
// mutates the parent.
//
// # Storage Layout
//
// For a field "email" with the default prefix, records carry:
//
//	encrypted_email       -- ciphertext ([]byte, or string when encoded)
//	encrypted_email_iv    -- transport-encoded IV (per-field mode)
//	encrypted_email_salt  -- 16-char hex salt (per-field mode)
//
// MapRecord keeps attributes in memory; BoltStore persists them in a bbolt
// database with CBOR-encoded values.
package encryptedattr
