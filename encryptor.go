package encryptedattr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/pbkdf2"
)

// Cipher algorithm identifiers understood by the built-in encryptors. The
// identifier also sizes provisioned IVs, so custom encryptors should reuse
// one of these unless they provision IVs themselves.
const (
	// AlgorithmAES256GCM is AES-256-GCM with a 12-byte IV. Default.
	AlgorithmAES256GCM = "aes-256-gcm"

	// AlgorithmSecretbox is XSalsa20-Poly1305 with a 24-byte IV.
	AlgorithmSecretbox = "xsalsa20-poly1305"
)

const (
	// pbkdf2Iterations follows the OWASP minimum for PBKDF2-SHA256.
	pbkdf2Iterations = 210000

	// infoFixedIV is the HKDF info string for the deterministic fallback IV.
	infoFixedIV = "encryptedattr-fixed-iv"
)

// Params carries the resolved cipher inputs for one encrypt or decrypt call.
// Extra holds unrecognized option keys verbatim so custom encryptors can
// define their own configuration surface.
type Params struct {
	// Value is the serialized plaintext (Encrypt) or raw ciphertext
	// (Decrypt, after transport decoding).
	Value []byte

	// Key is the key material as resolved for this call. Built-in
	// encryptors derive a 32-byte cipher key from it; see deriveKey.
	Key []byte

	// IV is the initialization vector. Empty means no IV was provisioned
	// or supplied; built-in encryptors then fall back to a fixed IV
	// derived from the key.
	IV []byte

	// Salt is mixed into key derivation when non-empty.
	Salt string

	// Algorithm is the resolved cipher algorithm identifier.
	Algorithm string

	// Extra holds resolved option keys the library does not recognize.
	Extra map[string]any
}

// Encryptor is the cipher seam of the pipeline. Implementations receive the
// fully-resolved parameters of each call and must be safe for concurrent
// use. Encrypt and Decrypt are exact inverses for fixed Key/IV/Salt.
type Encryptor interface {
	Encrypt(p Params) ([]byte, error)
	Decrypt(p Params) ([]byte, error)
}

// DefaultEncryptor dispatches to the built-in cipher named by
// Params.Algorithm. An empty algorithm means AES-256-GCM.
type DefaultEncryptor struct{}

func (DefaultEncryptor) Encrypt(p Params) ([]byte, error) {
	switch p.Algorithm {
	case "", AlgorithmAES256GCM:
		return GCMEncryptor{}.Encrypt(p)
	case AlgorithmSecretbox:
		return SecretboxEncryptor{}.Encrypt(p)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, p.Algorithm)
}

func (DefaultEncryptor) Decrypt(p Params) ([]byte, error) {
	switch p.Algorithm {
	case "", AlgorithmAES256GCM:
		return GCMEncryptor{}.Decrypt(p)
	case AlgorithmSecretbox:
		return SecretboxEncryptor{}.Decrypt(p)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, p.Algorithm)
}

// GCMEncryptor implements AES-256-GCM. The cipher key is derived from
// Params.Key: PBKDF2-SHA256 stretching when a salt is present, pass-through
// for exactly 32 bytes, SHA-256 digest otherwise.
//
// Without a provisioned IV the encryptor falls back to a fixed IV derived
// from the cipher key. That mode is deterministic: equal plaintexts under
// the same key yield equal ciphertexts. Use per-field IVs where that leak
// matters.
type GCMEncryptor struct{}

func (GCMEncryptor) Encrypt(p Params) ([]byte, error) {
	gcm, iv, err := gcmFor(p)
	if err != nil {
		return nil, err
	}
	return gcm.Seal(nil, iv, p.Value, nil), nil
}

func (GCMEncryptor) Decrypt(p Params) ([]byte, error) {
	gcm, iv, err := gcmFor(p)
	if err != nil {
		return nil, err
	}
	if len(p.Value) < gcm.Overhead() {
		return nil, fmt.Errorf("%w: shorter than authentication tag", ErrInvalidCiphertext)
	}
	plaintext, err := gcm.Open(nil, iv, p.Value, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

// gcmFor builds the AEAD and resolves the IV for one call.
func gcmFor(p Params) (cipher.AEAD, []byte, error) {
	key, err := deriveKey(p, false)
	if err != nil {
		return nil, nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}
	iv := p.IV
	if len(iv) == 0 {
		if iv, err = fixedIV(key, gcm.NonceSize()); err != nil {
			return nil, nil, err
		}
	} else if len(iv) != gcm.NonceSize() {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidIVSize, len(iv), gcm.NonceSize())
	}
	return gcm, iv, nil
}

// SecretboxEncryptor implements XSalsa20-Poly1305. Key material must be
// exactly 32 bytes unless a salt is present, in which case PBKDF2 stretches
// it. IV fallback matches GCMEncryptor.
type SecretboxEncryptor struct{}

func (SecretboxEncryptor) Encrypt(p Params) ([]byte, error) {
	key, nonce, err := secretboxFor(p)
	if err != nil {
		return nil, err
	}
	return secretbox.Seal(nil, p.Value, nonce, key), nil
}

func (SecretboxEncryptor) Decrypt(p Params) ([]byte, error) {
	key, nonce, err := secretboxFor(p)
	if err != nil {
		return nil, err
	}
	if len(p.Value) < secretbox.Overhead {
		return nil, fmt.Errorf("%w: shorter than authentication tag", ErrInvalidCiphertext)
	}
	plaintext, ok := secretbox.Open(nil, p.Value, nonce, key)
	if !ok {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func secretboxFor(p Params) (*[32]byte, *[24]byte, error) {
	raw, err := deriveKey(p, true)
	if err != nil {
		return nil, nil, err
	}
	var key [32]byte
	copy(key[:], raw)

	iv := p.IV
	if len(iv) == 0 {
		if iv, err = fixedIV(raw, 24); err != nil {
			return nil, nil, err
		}
	} else if len(iv) != 24 {
		return nil, nil, fmt.Errorf("%w: got %d, want 24", ErrInvalidIVSize, len(iv))
	}
	var nonce [24]byte
	copy(nonce[:], iv)
	return &key, &nonce, nil
}

// EncryptorFuncs adapts a pair of functions into an Encryptor. Either side
// may be nil; calling it reports ErrNoEncryptor.
type EncryptorFuncs struct {
	EncryptFunc func(p Params) ([]byte, error)
	DecryptFunc func(p Params) ([]byte, error)
}

func (f EncryptorFuncs) Encrypt(p Params) ([]byte, error) {
	if f.EncryptFunc == nil {
		return nil, ErrNoEncryptor
	}
	return f.EncryptFunc(p)
}

func (f EncryptorFuncs) Decrypt(p Params) ([]byte, error) {
	if f.DecryptFunc == nil {
		return nil, ErrNoEncryptor
	}
	return f.DecryptFunc(p)
}

// deriveKey normalizes arbitrary key material to a 32-byte cipher key. A
// non-empty salt always runs PBKDF2-SHA256; otherwise 32-byte material
// passes through. Shorter or longer material is digest-fit for GCM and
// rejected for secretbox (strict keeps parity with how XSalsa20 keys are
// handled elsewhere).
func deriveKey(p Params, strict bool) ([]byte, error) {
	if len(p.Key) == 0 {
		return nil, ErrNoKey
	}
	if p.Salt != "" {
		return pbkdf2.Key(p.Key, []byte(p.Salt), pbkdf2Iterations, 32, sha256.New), nil
	}
	if len(p.Key) == 32 {
		return p.Key, nil
	}
	if strict {
		return nil, fmt.Errorf("%w: got %d, want 32", ErrInvalidKeySize, len(p.Key))
	}
	sum := sha256.Sum256(p.Key)
	return sum[:], nil
}

// fixedIV derives a deterministic IV from the cipher key via HKDF-SHA256.
func fixedIV(key []byte, size int) ([]byte, error) {
	iv := make([]byte, size)
	r := hkdf.New(sha256.New, key, nil, []byte(infoFixedIV))
	if _, err := io.ReadFull(r, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

// ivSizeFor reports the provisioned IV length for an algorithm identifier.
func ivSizeFor(algorithm string) (int, error) {
	switch algorithm {
	case "", AlgorithmAES256GCM:
		return 12, nil
	case AlgorithmSecretbox:
		return 24, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
}
