package handlers

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{"short stays intact", "hello", 100, "hello"},
		{"exactly at limit", "abcde", 5, "abcde"},
		{"long gets ellipsis", "abcdef", 5, "abcde..."},
		{"empty", "", 100, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, preview(tt.text, tt.max))
		})
	}
}

func TestPreviewCutsOnRuneBoundary(t *testing.T) {
	// 101 multi-byte runes: a byte-index cut would split the 101st.
	text := strings.Repeat("é", 101)

	got := preview(text, 100)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 100)+"...", got)
}
