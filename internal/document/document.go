// Package document extracts plain text from resume files.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

var ErrUnsupportedFormat = errors.New("unsupported file format: only pdf, txt and md are allowed")

// ReadFile loads path and returns its text content
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return Text(filepath.Base(path), data)
}

// Text dispatches on the file extension of name
func Text(name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return TextFromPDF(data)
	case ".txt", ".md", "":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%s is not valid UTF-8 text", name)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w (%s)", ErrUnsupportedFormat, name)
	}
}

// TextFromPDF returns the plain text of every page joined by single spaces.
// A page whose text cannot be extracted contributes an empty string.
func TextFromPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		pages = append(pages, pageText(r.Page(i)))
	}
	return strings.Join(pages, " "), nil
}

func pageText(p pdf.Page) (text string) {
	if p.V.IsNull() {
		return ""
	}
	// the reader panics on some malformed content streams
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	text, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
