package ocr

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// PrepareOptions describe the crop and binarization applied to a scanned
// manifest page before recognition. The item table sits below a header
// band and to the right of a hole-punch margin, so the defaults cut both
// away.
type PrepareOptions struct {
	LeftMarginPx int
	TopFrac      float64
	BottomFrac   float64
	Threshold    uint8
}

func DefaultPrepareOptions() PrepareOptions {
	return PrepareOptions{
		LeftMarginPx: 150,
		TopFrac:      0.25,
		BottomFrac:   0.90,
		Threshold:    180,
	}
}

// Prepare crops the page to the item-table region, converts it to
// grayscale and binarizes it against the threshold.
func Prepare(src image.Image, opts PrepareOptions) *image.NRGBA {
	b := src.Bounds()
	rect := image.Rect(
		b.Min.X+opts.LeftMarginPx,
		b.Min.Y+int(float64(b.Dy())*opts.TopFrac),
		b.Max.X,
		b.Min.Y+int(float64(b.Dy())*opts.BottomFrac),
	)
	img := imaging.Crop(src, rect)
	img = imaging.Grayscale(img)
	threshold := opts.Threshold
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		v := uint8(0)
		if c.R >= threshold {
			v = 255
		}
		return color.NRGBA{R: v, G: v, B: v, A: 255}
	})
}
