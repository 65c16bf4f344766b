//go:build ocr

// Package ocr recognizes text on scanned manifest pages via Tesseract
// (gosseract). It requires Tesseract to be installed and the repository
// to be built with the "ocr" tag:
//
//	go build -tags ocr
package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"lotsheet/internal/util"
)

type Reader struct {
	client *gosseract.Client
}

// NewReader creates a Tesseract-backed reader. Close it to release the
// underlying client.
func NewReader(lang string) (*Reader, error) {
	client := gosseract.NewClient()
	if lang != "" {
		if err := client.SetLanguage(lang); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("set ocr language: %w", err)
		}
	}
	return &Reader{client: client}, nil
}

func (r *Reader) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// Lines recognizes a prepared page image and returns its text lines in
// reading order. hOCR output is preferred since it keeps line boundaries
// explicit; plain text is the fallback.
func (r *Reader) Lines(imageData []byte) ([]string, error) {
	if err := r.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("set ocr image: %w", err)
	}

	if hocr, err := r.client.HOCRText(); err == nil && hocr != "" {
		lines, err := ParseHOCRLines(hocr)
		if err == nil && len(lines) > 0 {
			return lines, nil
		}
	}

	text, err := r.client.Text()
	if err != nil {
		return nil, fmt.Errorf("ocr failed: %w", err)
	}
	return util.SplitLines(text), nil
}
