package pipeline

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	pdf "github.com/ledongthuc/pdf"

	"lotsheet/internal/ocr"
	"lotsheet/internal/util"
)

// LineRecognizer turns a prepared page image into ordered text lines.
// Satisfied by ocr.Reader when built with the ocr tag.
type LineRecognizer interface {
	Lines(imageData []byte) ([]string, error)
}

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
}

func IsManifestFileName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".pdf" || ext == ".txt" || imageExts[ext]
}

// ManifestLines resolves a manifest file into its raw line sequence,
// dispatching on the file extension: text dumps are split directly, PDFs
// are read through their text layer, images go through preprocessing and
// OCR.
func ManifestLines(fileName string, content []byte, rec LineRecognizer, opts ocr.PrepareOptions) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch {
	case ext == ".txt":
		return util.SplitLines(string(content)), nil
	case ext == ".pdf":
		return linesFromPDF(content)
	case imageExts[ext]:
		return linesFromImage(content, rec, opts)
	default:
		return nil, fmt.Errorf("unsupported manifest file: %s", fileName)
	}
}

func linesFromPDF(content []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	out := []string{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		out = append(out, util.SplitLines(text)...)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("pdf has no text layer; export scanned pages as images and process those")
	}
	return out, nil
}

func linesFromImage(content []byte, rec LineRecognizer, opts ocr.PrepareOptions) ([]string, error) {
	if rec == nil {
		return nil, fmt.Errorf("image manifests need ocr support; rebuild with -tags ocr")
	}

	src, err := imaging.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("decode manifest image: %w", err)
	}

	prepared := ocr.Prepare(src, opts)
	buf := bytes.NewBuffer(nil)
	if err := imaging.Encode(buf, prepared, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode prepared image: %w", err)
	}

	return rec.Lines(buf.Bytes())
}
