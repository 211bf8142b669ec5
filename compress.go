package encryptedattr

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

const (
	defaultCompressionThreshold = 1024 // 1KB
	minCompressionSavings       = 0.10 // skip compression below 10% savings

	// maxDecompressedSize caps decompression output (64MB) so a small
	// malicious payload cannot expand to consume all memory.
	maxDecompressedSize = 64 * 1024 * 1024
)

// Frame flag byte, prepended to the serialized plaintext before the cipher
// runs when compression is enabled.
const (
	frameRaw  byte = 0x00
	frameZstd byte = 0x01
)

var (
	// zstd encoder and decoder are thread-safe and reusable
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	zstdOnce    sync.Once
	zstdErr     error
)

func initZstd() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEncoder, zstdErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if zstdErr != nil {
			return
		}
		zstdDecoder, zstdErr = zstd.NewReader(nil)
		if zstdErr != nil {
			zstdEncoder.Close()
			zstdEncoder = nil
		}
	})
	return zstdEncoder, zstdDecoder, zstdErr
}

func compressZstd(data []byte) ([]byte, error) {
	encoder, _, err := initZstd()
	if err != nil {
		return nil, err
	}
	return encoder.EncodeAll(data, nil), nil
}

// decompressZstd reverses compressZstd, enforcing maxDecompressedSize.
func decompressZstd(data []byte) ([]byte, error) {
	_, decoder, err := initZstd()
	if err != nil {
		return nil, err
	}
	result, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, ErrDecompressionFailed
	}
	if len(result) > maxDecompressedSize {
		return nil, ErrDecompressionFailed
	}
	return result, nil
}

// compressFrame wraps serialized plaintext in a flag-prefixed frame.
// Payloads under the threshold, and payloads zstd cannot shrink by at least
// 10%, carry the raw flag unchanged.
func compressFrame(data []byte, threshold int) []byte {
	if threshold <= 0 {
		threshold = defaultCompressionThreshold
	}
	if len(data) < threshold {
		return rawFrame(data)
	}
	compressed, err := compressZstd(data)
	if err != nil {
		return rawFrame(data)
	}
	savings := float64(len(data)-len(compressed)) / float64(len(data))
	if savings < minCompressionSavings {
		return rawFrame(data)
	}
	framed := make([]byte, 0, len(compressed)+1)
	return append(append(framed, frameZstd), compressed...)
}

func rawFrame(data []byte) []byte {
	framed := make([]byte, 0, len(data)+1)
	return append(append(framed, frameRaw), data...)
}

// decompressFrame unwraps a flag-prefixed frame.
func decompressFrame(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidFrame)
	}
	payload := data[1:]
	switch data[0] {
	case frameRaw:
		return payload, nil
	case frameZstd:
		return decompressZstd(payload)
	default:
		return nil, fmt.Errorf("%w: flag 0x%02x", ErrInvalidFrame, data[0])
	}
}
