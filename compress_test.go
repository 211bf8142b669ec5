package encryptedattr

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressFrame_BelowThreshold(t *testing.T) {
	data := []byte("short payload")
	framed := compressFrame(data, 1024)

	require.Equal(t, frameRaw, framed[0])
	require.Equal(t, data, framed[1:])

	out, err := decompressFrame(framed)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestCompressFrame_Compressible(t *testing.T) {
	data := bytes.Repeat([]byte("hello world "), 500)
	framed := compressFrame(data, 64)

	require.Equal(t, frameZstd, framed[0])
	require.Less(t, len(framed), len(data))

	out, err := decompressFrame(framed)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestCompressFrame_IncompressibleStaysRaw(t *testing.T) {
	// Random bytes cannot shrink 10%; the raw flag avoids paying the
	// zstd framing overhead on decrypt.
	data := make([]byte, 4096)
	_, err := rand.Read(data)
	require.NoError(t, err)

	framed := compressFrame(data, 64)
	require.Equal(t, frameRaw, framed[0])

	out, err := decompressFrame(framed)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestCompressFrame_ZeroThresholdUsesDefault(t *testing.T) {
	data := []byte("under a kilobyte")
	framed := compressFrame(data, 0)
	require.Equal(t, frameRaw, framed[0])
}

func TestDecompressFrame_Errors(t *testing.T) {
	_, err := decompressFrame(nil)
	require.ErrorIs(t, err, ErrInvalidFrame)

	_, err = decompressFrame([]byte{0x7e, 0x01, 0x02})
	require.ErrorIs(t, err, ErrInvalidFrame)

	// A zstd flag over garbage fails decompression, not framing.
	_, err = decompressFrame([]byte{frameZstd, 0xde, 0xad, 0xbe, 0xef})
	require.ErrorIs(t, err, ErrDecompressionFailed)
}
