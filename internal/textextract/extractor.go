// Package textextract turns uploaded résumé files into plain text.
package textextract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
)

var (
	// ErrUnreadable is returned when the file cannot be decoded at all.
	ErrUnreadable = errors.New("document is unreadable")
	// ErrUnsupportedType is returned for file extensions with no extractor.
	ErrUnsupportedType = errors.New("unsupported document type")
)

// Result is the text recovered from a document.
type Result struct {
	Text    string
	HasText bool
	Pages   int
}

func newResult(text string, pages int) *Result {
	text = CleanText(text)
	return &Result{
		Text:    text,
		HasText: len(text) > 0,
		Pages:   pages,
	}
}

// Supported reports whether Extract has an extractor for the file.
func Supported(filename string, data []byte) bool {
	switch extension(filename, data) {
	case ".pdf", ".docx", ".doc", ".odt", ".rtf", ".txt":
		return true
	}
	return false
}

// extension returns the lowercased file extension, falling back to the PDF
// magic bytes when the name carries none.
func extension(filename string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" && bytes.HasPrefix(data, []byte("%PDF-")) {
		ext = ".pdf"
	}
	return ext
}

// Extract picks an extractor from the file extension.
func Extract(filename string, data []byte) (*Result, error) {
	ext := extension(filename, data)
	switch ext {
	case ".pdf":
		return ExtractPDF(bytes.NewReader(data), int64(len(data)))
	case ".docx", ".doc", ".odt", ".rtf":
		return extractOffice(filename, data)
	case ".txt":
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("%w: text file is not valid UTF-8", ErrUnreadable)
		}
		return newResult(string(data), 1), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
}

func extractOffice(filename string, data []byte) (*Result, error) {
	res, err := docconv.Convert(bytes.NewReader(data), docconv.MimeTypeByExtension(filename), false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return newResult(res.Body, 1), nil
}
