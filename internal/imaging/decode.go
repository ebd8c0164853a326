package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"

	"harufuji/kakeibo/internal/parsererror"
)

// Decode turns uploaded receipt bytes into an image. JPEG, PNG and GIF come
// from the standard decoders; HEIC covers iPhone photos and PDF covers
// scanned receipts (first page only). Failures are DecodeErrors fatal to the
// scan attempt only.
func Decode(data []byte, contentType string) (image.Image, error) {
	switch {
	case isPDF(data, contentType):
		img, err := pdfFirstPage(data)
		if err != nil {
			return nil, &parsererror.DecodeError{ContentType: contentType, Err: err}
		}
		return img, nil

	case isHEIC(data, contentType):
		img, err := heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, &parsererror.DecodeError{ContentType: contentType, Err: err}
		}
		return img, nil

	default:
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, &parsererror.DecodeError{ContentType: contentType, Err: err}
		}
		return img, nil
	}
}

// EncodePNG renders an image as PNG bytes for the recognizer.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfFirstPage renders the first page of a PDF. Receipts are single page in
// practice.
func pdfFirstPage(data []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return img, nil
}

func isPDF(data []byte, contentType string) bool {
	if strings.Contains(strings.ToLower(contentType), "pdf") {
		return true
	}
	return bytes.HasPrefix(data, []byte("%PDF"))
}

// isHEIC checks the ftyp box brands iPhones emit; Go's standard image
// package cannot decode them.
func isHEIC(data []byte, contentType string) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "heic") || strings.Contains(ct, "heif") {
		return true
	}
	if len(data) < 12 || !bytes.Equal(data[4:8], []byte("ftyp")) {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "hevc", "heim", "heis", "hevm", "hevs", "mif1", "msf1":
		return true
	}
	return false
}
