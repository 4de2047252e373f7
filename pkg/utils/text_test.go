package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateBytes(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		max     int
		want    string
		wantCut bool
	}{
		{"short", "abc", 5, "abc", false},
		{"exact", "abcde", 5, "abcde", false},
		{"ascii", "abcdef", 4, "abcd", true},
		{"mid rune", "aé", 2, "a", true},
		{"emoji", "ok🚀", 4, "ok", true},
		{"zero", "abc", 0, "", true},
		{"negative", "abc", -1, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cut := TruncateBytes(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCut, cut)
		})
	}
}

func TestTruncateBytes_AlwaysValidUTF8(t *testing.T) {
	s := strings.Repeat("日本", 50)
	for n := 0; n <= len(s); n++ {
		got, _ := TruncateBytes(s, n)
		assert.True(t, utf8.ValidString(got), "n=%d", n)
		assert.LessOrEqual(t, len(got), n)
	}
}
