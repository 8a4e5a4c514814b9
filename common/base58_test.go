package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase58RoundTrip(t *testing.T) {
	in := []byte{0x00, 0x01, 0xfe, 0xff}
	decoded, err := DecodeBase58ToBytes(EncodeBytesToBase58(in))
	require.NoError(t, err)
	assert.Equal(t, in, decoded)
}

func TestDecodeBase58Invalid(t *testing.T) {
	_, err := DecodeBase58ToBytes("0OIl")
	assert.Error(t, err)
}
