package encryptedattr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrFieldNotFound,
		ErrAttributeNotFound,
		ErrNoKey,
		ErrNoEncryptor,
		ErrNoMarshaler,
		ErrUnknownAlgorithm,
		ErrUnknownEncoding,
		ErrInvalidIVSize,
		ErrInvalidKeySize,
		ErrInvalidCiphertext,
		ErrDecryptionFailed,
		ErrDecompressionFailed,
		ErrInvalidFrame,
	}

	for i, a := range all {
		for j, b := range all {
			if i == j {
				require.True(t, errors.Is(a, b))
				continue
			}
			require.False(t, errors.Is(a, b), "%v vs %v", a, b)
		}
	}
}

func TestErrors_WrappedMatch(t *testing.T) {
	wrapped := fmt.Errorf("%w: %q", ErrFieldNotFound, "email")
	require.ErrorIs(t, wrapped, ErrFieldNotFound)
	require.Contains(t, wrapped.Error(), "encryptedattr:")
}
