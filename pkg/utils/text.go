package utils

import "unicode/utf8"

// TruncateBytes returns at most maxBytes bytes of s without splitting a
// UTF-8 sequence, and whether anything was cut.
func TruncateBytes(s string, maxBytes int) (string, bool) {
	if maxBytes < 0 {
		maxBytes = 0
	}
	if len(s) <= maxBytes {
		return s, false
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}
