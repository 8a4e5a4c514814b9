package stringutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortenLog(t *testing.T) {
	assert.Equal(t, "short", ShortenLog("short"))
	assert.Equal(t, "0123456789abcdef", ShortenLog("0123456789abcdef"))
	assert.Equal(t, "01234567...uvwxyz12", ShortenLog("0123456789abcdefghijklmnopqrstuvwxyz12"))
}

func TestShortenLogN(t *testing.T) {
	assert.Equal(t, "ab...yz", ShortenLogN("abcdefghijklmnopqrstuvwxyz", 4))
	assert.Equal(t, "abc", ShortenLogN("abc", 4))
}
