// Package document turns uploaded resume files into plain text.
package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for files other than PDF and DOCX.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrDecode is returned when the document bytes cannot be parsed.
	ErrDecode = errors.New("decode document")
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Upload is a single resume file as received from the user.
type Upload struct {
	Filename string
	Data     []byte
}

// SupportedExtensions lists the accepted file extensions.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx"}
}

// FormatFromFilename derives the document format from the file extension.
func FormatFromFilename(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(name)))
	switch ext {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %q (accepted: %s)", ErrUnsupportedFormat, name, strings.Join(SupportedExtensions(), ", "))
	}
}

// Extract returns the plain text of the document. Pages or paragraphs
// without text contribute an empty string.
func Extract(format Format, data []byte) (text string, err error) {
	defer func() {
		// the pdf decoder panics on some malformed inputs
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %s: %v", ErrDecode, format, r)
		}
	}()

	switch format {
	case FormatPDF:
		return extractPDF(data)
	case FormatDOCX:
		return extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ExtractUpload validates the upload filename and extracts its text.
func ExtractUpload(upload Upload) (string, error) {
	format, err := FormatFromFilename(upload.Filename)
	if err != nil {
		return "", err
	}

	return Extract(format, upload.Data)
}
