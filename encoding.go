package encryptedattr

import (
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// Transport-encoding formats accepted by WithEncoding and
// WithDefaultEncoding.
const (
	// EncodingBase64 is standard base64 with padding. This is the default
	// format when encoding is enabled without naming one.
	EncodingBase64 = "base64"

	// EncodingBase64Raw is standard base64 without padding.
	EncodingBase64Raw = "base64raw"

	// EncodingBase64URL is URL-safe base64 with padding.
	EncodingBase64URL = "base64url"

	// EncodingHex is lowercase hexadecimal.
	EncodingHex = "hex"

	// EncodingBase32 is standard base32 with padding.
	EncodingBase32 = "base32"
)

// encodeToString renders raw cipher bytes in the named format.
func encodeToString(format string, b []byte) (string, error) {
	switch format {
	case EncodingBase64:
		return base64.StdEncoding.EncodeToString(b), nil
	case EncodingBase64Raw:
		return base64.RawStdEncoding.EncodeToString(b), nil
	case EncodingBase64URL:
		return base64.URLEncoding.EncodeToString(b), nil
	case EncodingHex:
		return hex.EncodeToString(b), nil
	case EncodingBase32:
		return base32.StdEncoding.EncodeToString(b), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, format)
	}
}

// decodeFromString reverses encodeToString for the named format.
func decodeFromString(format, s string) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	switch format {
	case EncodingBase64:
		b, err = base64.StdEncoding.DecodeString(s)
	case EncodingBase64Raw:
		b, err = base64.RawStdEncoding.DecodeString(s)
	case EncodingBase64URL:
		b, err = base64.URLEncoding.DecodeString(s)
	case EncodingHex:
		b, err = hex.DecodeString(s)
	case EncodingBase32:
		b, err = base32.StdEncoding.DecodeString(s)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	return b, nil
}
