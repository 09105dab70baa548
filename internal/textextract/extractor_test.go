package textextract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePages struct {
	pages []string
	fail  map[int]bool
}

func (f fakePages) NumPage() int { return len(f.pages) }

func (f fakePages) PageText(n int) (string, error) {
	if f.fail[n] {
		return "garbage", errors.New("bad content stream")
	}
	return f.pages[n-1], nil
}

func TestJoinPages(t *testing.T) {
	tests := []struct {
		name string
		src  fakePages
		want string
	}{
		{
			name: "pages in order",
			src:  fakePages{pages: []string{"Maria Silva", "Habilidades: Go"}},
			want: "Maria Silva\nHabilidades: Go",
		},
		{
			name: "empty page contributes nothing but keeps order",
			src:  fakePages{pages: []string{"first", "", "third"}},
			want: "first\n\nthird",
		},
		{
			name: "failing page treated as empty",
			src:  fakePages{pages: []string{"first", "second"}, fail: map[int]bool{2: true}},
			want: "first",
		},
		{
			name: "no text at all",
			src:  fakePages{pages: []string{"  ", ""}},
			want: "",
		},
		{
			name: "no pages",
			src:  fakePages{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinPages(tt.src))
		})
	}
}

func TestExtract_PlainText(t *testing.T) {
	res, err := Extract("cv.txt", []byte("  João Pereira\r\njoao@example.com  \n"))
	require.NoError(t, err)
	assert.True(t, res.HasText)
	assert.Equal(t, "João Pereira\njoao@example.com", res.Text)
}

func TestExtract_EmptyText(t *testing.T) {
	res, err := Extract("cv.txt", []byte(" \n\t\n"))
	require.NoError(t, err)
	assert.False(t, res.HasText)
	assert.Empty(t, res.Text)
}

func TestExtract_InvalidUTF8(t *testing.T) {
	_, err := Extract("cv.txt", []byte{0xff, 0xfe, 0xfd})
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestExtract_UnsupportedType(t *testing.T) {
	_, err := Extract("photo.png", []byte{0x89, 'P', 'N', 'G'})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestExtract_NotAPDF(t *testing.T) {
	_, err := Extract("cv.pdf", []byte("this is not a pdf"))
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestExtract_SniffsPDFWithoutExtension(t *testing.T) {
	_, err := Extract("upload", []byte("%PDF-1.4 truncated"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadable)
	assert.NotErrorIs(t, err, ErrUnsupportedType)
}

func TestSupported(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     bool
	}{
		{name: "pdf", filename: "cv.PDF", want: true},
		{name: "docx", filename: "cv.docx", want: true},
		{name: "text", filename: "notes.txt", want: true},
		{name: "image", filename: "photo.png", want: false},
		{name: "sniffed pdf", filename: "upload", data: []byte("%PDF-1.7"), want: true},
		{name: "no extension", filename: "upload", data: []byte("hello"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Supported(tt.filename, tt.data))
		})
	}
}
