package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeVector_RoundTrips(t *testing.T) {
	t.Parallel()

	v := []float32{0.1, -0.5, 3.25, 0}
	decoded, err := decodeVector(encodeVector(v))
	require.NoError(t, err)
	assert.Equal(t, v, decoded)
}

func TestDecodeVector_RejectsMisalignedLength(t *testing.T) {
	t.Parallel()

	_, err := decodeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}
