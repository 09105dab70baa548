package textextract

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pageSource yields the text of each page, 1-indexed.
type pageSource interface {
	NumPage() int
	PageText(n int) (string, error)
}

type pdfPages struct {
	reader *pdf.Reader
}

func (p pdfPages) NumPage() int {
	return p.reader.NumPage()
}

// PageText recovers from decoder panics on malformed content streams.
func (p pdfPages) PageText(n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("page %d: %v", n, r)
		}
	}()

	page := p.reader.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// ExtractPDF reads every page in order. Pages without text, or whose content
// fails to decode, contribute an empty string.
func ExtractPDF(r io.ReaderAt, size int64) (res *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			res, err = nil, fmt.Errorf("%w: %v", ErrUnreadable, rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	src := pdfPages{reader: reader}
	return newResult(joinPages(src), src.NumPage()), nil
}

func joinPages(src pageSource) string {
	pages := make([]string, 0, src.NumPage())
	for n := 1; n <= src.NumPage(); n++ {
		text, err := src.PageText(n)
		if err != nil {
			text = ""
		}
		pages = append(pages, text)
	}
	return strings.TrimSpace(strings.Join(pages, "\n"))
}
