//go:build !ocr

// Package ocr recognizes text on scanned manifest pages via Tesseract.
//
// This is the stub used when the "ocr" build tag is not set; every
// operation reports ErrNotEnabled. Rebuild with
//
//	go build -tags ocr
//
// (Tesseract must be installed) to process image manifests.
package ocr

import "errors"

// ErrNotEnabled is returned when OCR is requested but the binary was
// built without the "ocr" tag.
var ErrNotEnabled = errors.New("ocr support not enabled; rebuild with -tags ocr")

type Reader struct{}

func NewReader(lang string) (*Reader, error) {
	return nil, ErrNotEnabled
}

func (r *Reader) Close() error {
	return nil
}

func (r *Reader) Lines(imageData []byte) ([]string, error) {
	return nil, ErrNotEnabled
}
