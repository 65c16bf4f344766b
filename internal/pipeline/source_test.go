package pipeline

import (
	"bytes"
	"image/color"
	"reflect"
	"testing"

	"github.com/disintegration/imaging"

	"lotsheet/internal/ocr"
)

type fakeRecognizer struct {
	lines []string
	got   []byte
}

func (f *fakeRecognizer) Lines(imageData []byte) ([]string, error) {
	f.got = imageData
	return f.lines, nil
}

func TestManifestLinesTxt(t *testing.T) {
	content := []byte("3 LOT TYPE A\n\n  trailing spaces  \r\nlast\n")
	lines, err := ManifestLines("dump.txt", content, nil, ocr.DefaultPrepareOptions())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"3 LOT TYPE A", "trailing spaces", "last"}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("got %q want %q", lines, want)
	}
}

func TestManifestLinesImage(t *testing.T) {
	page := imaging.New(600, 600, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	buf := bytes.NewBuffer(nil)
	if err := imaging.Encode(buf, page, imaging.PNG); err != nil {
		t.Fatal(err)
	}

	rec := &fakeRecognizer{lines: []string{"5 LOT TYPE C"}}
	lines, err := ManifestLines("scan.png", buf.Bytes(), rec, ocr.DefaultPrepareOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0] != "5 LOT TYPE C" {
		t.Fatalf("lines=%q", lines)
	}
	// The recognizer sees the prepared image, re-encoded as PNG.
	if len(rec.got) < 8 || !bytes.HasPrefix(rec.got, []byte("\x89PNG")) {
		t.Fatal("recognizer did not receive png data")
	}
}

func TestManifestLinesImageNeedsRecognizer(t *testing.T) {
	if _, err := ManifestLines("scan.png", []byte{1, 2, 3}, nil, ocr.DefaultPrepareOptions()); err == nil {
		t.Fatal("expected error without ocr support")
	}
}

func TestManifestLinesUnsupportedExtension(t *testing.T) {
	if _, err := ManifestLines("notes.docx", nil, nil, ocr.DefaultPrepareOptions()); err == nil {
		t.Fatal("expected error")
	}
}
