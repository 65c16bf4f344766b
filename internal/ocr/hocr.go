package ocr

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"lotsheet/internal/util"
)

// ParseHOCRLines pulls the recognized line texts out of a Tesseract hOCR
// document, in reading order. Word spacing comes from the markup's text
// nodes; each line is collapsed to single spaces and trimmed, empty lines
// are dropped.
func ParseHOCRLines(hocr string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(hocr))
	if err != nil {
		return nil, err
	}

	out := []string{}
	doc.Find(".ocr_line, .ocr_caption, .ocr_textfloat").Each(func(_ int, line *goquery.Selection) {
		text := strings.TrimSpace(util.CollapseSpaceRuns(line.Text()))
		if text != "" {
			out = append(out, text)
		}
	})
	return out, nil
}
