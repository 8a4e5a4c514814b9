package stringutil

import "fmt"

const ShortenLogLength = 16

// ShortenLog shortens a hash string for logging purposes
func ShortenLog(hash string) string {
	return ShortenLogN(hash, ShortenLogLength)
}

// ShortenLogN keeps n characters of s, half from each end.
func ShortenLogN(s string, n int) string {
	indexCut := n / 2
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s...%s", s[:indexCut], s[len(s)-indexCut:])
}
