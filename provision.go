package encryptedattr

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// saltHexLen is the length of a provisioned salt in lowercase hex characters.
const saltHexLen = 16

// loadIV returns the record's stored IV for spec as raw bytes, or nil when
// none is stored. The stored form is transport-encoded with encoding.
func loadIV(rec Record, spec *FieldSpec, encoding string) ([]byte, error) {
	stored, err := rec.Attribute(spec.IVAttribute)
	if err != nil {
		return nil, err
	}
	s := toString(stored)
	if s == "" {
		return nil, nil
	}
	return decodeFromString(encoding, s)
}

// ensureIV returns the record's IV for spec, generating, storing, and
// returning a fresh one when absent. Generation happens on the encrypt path
// only; decrypt uses loadIV. Once stored, every later call returns the same
// IV.
func ensureIV(rec Record, spec *FieldSpec, algorithm, encoding string) ([]byte, error) {
	iv, err := loadIV(rec, spec, encoding)
	if err != nil || iv != nil {
		return iv, err
	}

	size, err := ivSizeFor(algorithm)
	if err != nil {
		return nil, err
	}
	iv = make([]byte, size)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("encryptedattr: iv generation: %w", err)
	}
	encoded, err := encodeToString(encoding, iv)
	if err != nil {
		return nil, err
	}
	if err := rec.SetAttribute(spec.IVAttribute, encoded); err != nil {
		return nil, err
	}
	return iv, nil
}

// loadSalt returns the record's stored salt for spec, empty when absent.
func loadSalt(rec Record, spec *FieldSpec) (string, error) {
	stored, err := rec.Attribute(spec.SaltAttribute)
	if err != nil {
		return "", err
	}
	return toString(stored), nil
}

// ensureSalt returns the record's salt for spec, generating and storing a
// fresh crypto/rand hex salt when absent. Stored raw, not encoded. As with
// ensureIV, generation is encrypt-path only.
func ensureSalt(rec Record, spec *FieldSpec) (string, error) {
	salt, err := loadSalt(rec, spec)
	if err != nil || salt != "" {
		return salt, err
	}

	raw := make([]byte, saltHexLen/2)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("encryptedattr: salt generation: %w", err)
	}
	salt = hex.EncodeToString(raw)
	if err := rec.SetAttribute(spec.SaltAttribute, salt); err != nil {
		return "", err
	}
	return salt, nil
}
