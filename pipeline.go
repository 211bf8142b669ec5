package encryptedattr

import (
	"fmt"
	"time"
)

// EncryptField runs the encrypt pipeline for the named field: resolve
// options against rec, gate, serialize, optionally compress, cipher, and
// optionally transport-encode. The result is a string when an encoding is
// resolved, raw []byte otherwise.
//
// rec supplies dynamic option values and receives provisioned IVs and
// salts. It may be nil for type-level calls; per-field provisioning is then
// skipped and the cipher falls back to its fixed IV unless WithIV is given.
//
// nil values, and empty strings unless WithAllowEmpty, bypass the pipeline
// and return unchanged. So does a field whose if/unless gate is off.
func (s *Schema) EncryptField(rec Record, field string, value any, opts ...Option) (any, error) {
	spec, ok := s.Lookup(field)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, field)
	}

	emitEncryptStart(s.name, field)
	start := time.Now()
	out, algorithm, size, err := s.encryptField(rec, spec, value, opts)
	emitEncryptComplete(s.name, field, algorithm, size, time.Since(start), err)
	return out, err
}

func (s *Schema) encryptField(rec Record, spec *FieldSpec, value any, opts []Option) (any, string, int, error) {
	r, err := s.resolveField(spec, rec, collectOptions(opts))
	if err != nil {
		return nil, "", 0, err
	}
	if skipEncrypt(value, r) {
		return value, r.Algorithm, 0, nil
	}
	if err := s.provision(rec, spec, r); err != nil {
		return nil, r.Algorithm, 0, err
	}

	data, err := serializeValue(value, r)
	if err != nil {
		return nil, r.Algorithm, 0, err
	}
	if r.Compress {
		data = compressFrame(data, r.CompressThreshold)
	}

	if r.Encryptor == nil {
		return nil, r.Algorithm, 0, ErrNoEncryptor
	}
	ciphertext, err := r.Encryptor.Encrypt(r.params(data))
	if err != nil {
		return nil, r.Algorithm, 0, err
	}

	if r.Encoding != "" {
		encoded, err := encodeToString(r.Encoding, ciphertext)
		if err != nil {
			return nil, r.Algorithm, 0, err
		}
		return encoded, r.Algorithm, len(ciphertext), nil
	}
	return ciphertext, r.Algorithm, len(ciphertext), nil
}

// DecryptField mirrors EncryptField exactly: transport-decode, cipher,
// decompress, deserialize. The encode, marshal, and compress options must
// match the ones the value was encrypted under; that symmetry is the
// caller's obligation.
//
// nil and empty stored values return unchanged without touching the cipher.
func (s *Schema) DecryptField(rec Record, field string, value any, opts ...Option) (any, error) {
	spec, ok := s.Lookup(field)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, field)
	}

	emitDecryptStart(s.name, field)
	start := time.Now()
	out, algorithm, size, err := s.decryptField(rec, spec, value, opts)
	emitDecryptComplete(s.name, field, algorithm, size, time.Since(start), err)
	return out, err
}

func (s *Schema) decryptField(rec Record, spec *FieldSpec, value any, opts []Option) (any, string, int, error) {
	r, err := s.resolveField(spec, rec, collectOptions(opts))
	if err != nil {
		return nil, "", 0, err
	}
	if skipDecrypt(value, r) {
		return value, r.Algorithm, 0, nil
	}
	if err := s.load(rec, spec, r); err != nil {
		return nil, r.Algorithm, 0, err
	}

	var data []byte
	if r.Encoding != "" {
		data, err = decodeFromString(r.Encoding, toString(value))
		if err != nil {
			return nil, r.Algorithm, 0, err
		}
	} else {
		switch v := value.(type) {
		case []byte:
			data = v
		case string:
			data = []byte(v)
		default:
			return nil, r.Algorithm, 0, fmt.Errorf("%w: stored value is %T", ErrInvalidCiphertext, value)
		}
	}

	if r.Encryptor == nil {
		return nil, r.Algorithm, 0, ErrNoEncryptor
	}
	plaintext, err := r.Encryptor.Decrypt(r.params(data))
	if err != nil {
		return nil, r.Algorithm, 0, err
	}

	if r.Compress {
		plaintext, err = decompressFrame(plaintext)
		if err != nil {
			return nil, r.Algorithm, 0, err
		}
	}

	out, err := deserializeValue(plaintext, r)
	if err != nil {
		return nil, r.Algorithm, 0, err
	}
	return out, r.Algorithm, len(data), nil
}

// provision fills r.IV and r.Salt from the record on the encrypt path,
// generating them on first use. Explicitly supplied values win; single mode
// and record-less calls leave both empty for the cipher's fallback.
func (s *Schema) provision(rec Record, spec *FieldSpec, r *Resolved) error {
	if r.Mode != ModePerFieldIVAndSalt || rec == nil {
		return nil
	}
	if len(r.IV) == 0 && spec.IVAttribute != "" {
		iv, err := ensureIV(rec, spec, r.Algorithm, r.DefaultEncoding)
		if err != nil {
			return err
		}
		r.IV = iv
	}
	if r.Salt == "" && spec.SaltAttribute != "" {
		salt, err := ensureSalt(rec, spec)
		if err != nil {
			return err
		}
		r.Salt = salt
	}
	return nil
}

// load fills r.IV and r.Salt from the record on the decrypt path. Nothing
// is generated here: a record without stored material decrypts with the
// cipher fallback, which only succeeds if it was encrypted that way.
func (s *Schema) load(rec Record, spec *FieldSpec, r *Resolved) error {
	if r.Mode != ModePerFieldIVAndSalt || rec == nil {
		return nil
	}
	if len(r.IV) == 0 && spec.IVAttribute != "" {
		iv, err := loadIV(rec, spec, r.DefaultEncoding)
		if err != nil {
			return err
		}
		r.IV = iv
	}
	if r.Salt == "" && spec.SaltAttribute != "" {
		salt, err := loadSalt(rec, spec)
		if err != nil {
			return err
		}
		r.Salt = salt
	}
	return nil
}

// params assembles the cipher inputs for one call.
func (r *Resolved) params(value []byte) Params {
	return Params{
		Value:     value,
		Key:       r.Key,
		IV:        r.IV,
		Salt:      r.Salt,
		Algorithm: r.Algorithm,
		Extra:     r.Extra,
	}
}

// skipEncrypt reports whether value bypasses encryption: gate off, nil, or
// an empty string/[]byte without WithAllowEmpty.
func skipEncrypt(value any, r *Resolved) bool {
	if !r.enabled() || value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return v == "" && !r.AllowEmpty
	case []byte:
		return v == nil || (len(v) == 0 && !r.AllowEmpty)
	}
	return false
}

// skipDecrypt reports whether a stored value bypasses decryption: gate off,
// nil, or empty. An encrypted empty string is never itself empty (the
// cipher's authentication tag alone is longer), so this loses nothing.
func skipDecrypt(value any, r *Resolved) bool {
	if !r.enabled() || value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return v == ""
	case []byte:
		return len(v) == 0
	}
	return false
}

// serializeValue renders value for the cipher. Marshal routes through the
// resolved marshaler; otherwise strings and []byte pass through and other
// types render via fmt.
func serializeValue(value any, r *Resolved) ([]byte, error) {
	if r.Marshal {
		if r.Marshaler == nil {
			return nil, ErrNoMarshaler
		}
		return r.Marshaler.Marshal(value)
	}
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return []byte(fmt.Sprint(v)), nil
	}
}

// deserializeValue reverses serializeValue. Without marshal the plaintext
// comes back as a string; with it, as whatever the marshaler decodes into
// an any value.
func deserializeValue(data []byte, r *Resolved) (any, error) {
	if r.Marshal {
		if r.Marshaler == nil {
			return nil, ErrNoMarshaler
		}
		var v any
		if err := r.Marshaler.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return string(data), nil
}
