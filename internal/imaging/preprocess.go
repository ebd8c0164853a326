// Package imaging prepares photographed receipts for text recognition:
// decoding the uploaded bytes, then grayscale conversion, contrast stretch
// and binarization to help the recognizer cope with uneven lighting.
package imaging

import (
	"image"
	"image/color"
)

// Default preprocessing parameters. The contrast stretch pivots around the
// luminance midpoint; the threshold splits the stretched value into pure
// black or white.
const (
	DefaultMaxWidth       = 1280
	DefaultContrastFactor = 1.6
	DefaultThreshold      = 140

	contrastMidpoint = 128
)

// Preprocessor binarizes receipt bitmaps. It is a pure transform: identical
// pixel input always produces identical output, and it never fails.
type Preprocessor struct {
	maxWidth  int
	contrast  float64
	threshold int
}

// NewPreprocessor creates a Preprocessor. Zero or negative parameters fall
// back to the defaults.
func NewPreprocessor(maxWidth int, contrast float64, threshold int) *Preprocessor {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if contrast <= 0 {
		contrast = DefaultContrastFactor
	}
	if threshold <= 0 || threshold > 255 {
		threshold = DefaultThreshold
	}
	return &Preprocessor{maxWidth: maxWidth, contrast: contrast, threshold: threshold}
}

// Process downscales the image to the width cap (preserving aspect ratio),
// converts each pixel to weighted luminance, stretches contrast around the
// midpoint and thresholds to pure black or white.
func (p *Preprocessor) Process(src image.Image) *image.Gray {
	src = p.downscale(src)

	bounds := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			// RGBA returns 16-bit channels; scale down to 8-bit first
			lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)

			stretched := (lum-contrastMidpoint)*p.contrast + contrastMidpoint

			var v uint8
			if stretched >= float64(p.threshold) {
				v = 255
			}
			dst.SetGray(x-bounds.Min.X, y-bounds.Min.Y, color.Gray{Y: v})
		}
	}

	return dst
}

// downscale resizes images wider than the cap using nearest-neighbor
// sampling. Receipts are text documents; smooth interpolation buys nothing
// before binarization.
func (p *Preprocessor) downscale(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= p.maxWidth {
		return src
	}

	newW := p.maxWidth
	newH := h * p.maxWidth / w
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	for y := 0; y < newH; y++ {
		srcY := bounds.Min.Y + y*h/newH
		for x := 0; x < newW; x++ {
			srcX := bounds.Min.X + x*w/newW
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}
	return dst
}
