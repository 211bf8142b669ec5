package encryptedattr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncoding_RoundTrip(t *testing.T) {
	payload := []byte{0x00, 0x01, 0x7f, 0x80, 0xff}

	for _, format := range []string{
		EncodingBase64,
		EncodingBase64Raw,
		EncodingBase64URL,
		EncodingHex,
		EncodingBase32,
	} {
		t.Run(format, func(t *testing.T) {
			encoded, err := encodeToString(format, payload)
			require.NoError(t, err)
			require.NotEmpty(t, encoded)

			decoded, err := decodeFromString(format, encoded)
			require.NoError(t, err)
			require.Equal(t, payload, decoded)
		})
	}
}

func TestEncoding_UnknownFormat(t *testing.T) {
	_, err := encodeToString("base58", []byte("x"))
	require.ErrorIs(t, err, ErrUnknownEncoding)

	_, err = decodeFromString("base58", "x")
	require.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestEncoding_MalformedInput(t *testing.T) {
	_, err := decodeFromString(EncodingBase64, "!!!")
	require.ErrorIs(t, err, ErrInvalidCiphertext)

	_, err = decodeFromString(EncodingHex, "0g")
	require.ErrorIs(t, err, ErrInvalidCiphertext)
}
