// Package document reads plain-text résumés and job descriptions from disk.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxBytes caps the size of an input document.
const MaxBytes = 8 << 20

var (
	// ErrUnsupportedFormat is returned for binary documents such as PDF or DOCX.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrEmpty is returned for a document without text.
	ErrEmpty = errors.New("document is empty")
	// ErrTooLarge is returned when a document exceeds MaxBytes.
	ErrTooLarge = errors.New("document is too large")
)

var binaryExts = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".odt":  {},
	".rtf":  {},
}

// ReadFile returns the text of a plain-text or markdown file.
func ReadFile(path string) (string, error) {
	if _, ok := binaryExts[strings.ToLower(filepath.Ext(path))]; ok {
		return "", fmt.Errorf("%w: %s (convert it to plain text first)", ErrUnsupportedFormat, filepath.Base(path))
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	text, err := Read(file)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

// Read returns the text from r after checking it is non-empty UTF-8 text.
func Read(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxBytes {
		return "", fmt.Errorf("%w: max %d bytes", ErrTooLarge, MaxBytes)
	}
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return "", fmt.Errorf("%w: not UTF-8 text", ErrUnsupportedFormat)
	}

	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return "", ErrEmpty
	}

	return string(data), nil
}
