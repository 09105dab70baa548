package textextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "crlf", input: "a\r\nb\rc", want: "a\nb\nc"},
		{name: "inner whitespace", input: "Maria   \t Silva", want: "Maria Silva"},
		{name: "non-breaking space", input: "Maria\u00a0Silva", want: "Maria Silva"},
		{name: "blank line runs", input: "a\n\n\n\n\nb", want: "a\n\nb"},
		{name: "whitespace-only lines count as blank", input: "a\n  \n \t\n\nb", want: "a\n\nb"},
		{name: "form feed page break", input: "page one\fpage two", want: "page one\npage two"},
		{name: "decomposed accents composed", input: "Formac\u0327a\u0303o", want: "Formação"},
		{name: "null bytes dropped", input: "Go\x00lang", want: "Golang"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}
