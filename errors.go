package encryptedattr

import "errors"

var (
	// ErrFieldNotFound indicates the field name is not registered on the schema.
	ErrFieldNotFound = errors.New("encryptedattr: field not registered")

	// ErrAttributeNotFound indicates a FromAttribute option referenced an
	// attribute the record does not carry.
	ErrAttributeNotFound = errors.New("encryptedattr: attribute not found")

	// ErrNoKey indicates the resolved options carried no key material.
	ErrNoKey = errors.New("encryptedattr: no key provided")

	// ErrNoEncryptor indicates an EncryptorFuncs adapter is missing the
	// function for the requested direction.
	ErrNoEncryptor = errors.New("encryptedattr: encryptor not configured")

	// ErrNoMarshaler indicates a MarshalerFuncs adapter is missing the
	// function for the requested direction.
	ErrNoMarshaler = errors.New("encryptedattr: marshaler not configured")

	// ErrUnknownAlgorithm indicates the algorithm identifier has no built-in
	// cipher or IV size. IV provisioning fails hard on this rather than
	// silently proceeding without an IV.
	ErrUnknownAlgorithm = errors.New("encryptedattr: unknown algorithm")

	// ErrUnknownEncoding indicates the transport-encoding format name is not
	// one of the supported encodings.
	ErrUnknownEncoding = errors.New("encryptedattr: unknown transport encoding")

	// ErrInvalidIVSize indicates the supplied IV does not match the cipher's
	// nonce length.
	ErrInvalidIVSize = errors.New("encryptedattr: invalid iv size")

	// ErrInvalidKeySize indicates key material of the wrong length for a
	// cipher that cannot stretch it (secretbox requires exactly 32 bytes
	// unless a salt is present).
	ErrInvalidKeySize = errors.New("encryptedattr: invalid key size")

	// ErrInvalidCiphertext indicates the stored value cannot be fed to the
	// cipher (wrong type or malformed transport encoding).
	ErrInvalidCiphertext = errors.New("encryptedattr: invalid ciphertext")

	// ErrDecryptionFailed indicates cipher authentication failed (wrong key,
	// wrong IV, or corrupted data).
	ErrDecryptionFailed = errors.New("encryptedattr: decryption failed")

	// ErrDecompressionFailed indicates zstd decompression of a decrypted
	// payload failed.
	ErrDecompressionFailed = errors.New("encryptedattr: decompression failed")

	// ErrInvalidFrame indicates a decrypted payload carries an unknown
	// compression flag byte.
	ErrInvalidFrame = errors.New("encryptedattr: invalid compression frame")
)
