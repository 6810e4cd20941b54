package ocr

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	"image/png"
)

// GrayscaleNormalizer re-encodes the submitted photo as grayscale PNG, which
// the engine reads more reliably than raw phone camera output. Any decode or
// encode failure bubbles up and the caller recognizes the raw bytes instead.
type GrayscaleNormalizer struct{}

func NewGrayscaleNormalizer() *GrayscaleNormalizer {
	return &GrayscaleNormalizer{}
}

func (n *GrayscaleNormalizer) Normalize(ctx context.Context, raw []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	decoded, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	bounds := decoded.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, decoded.At(x, y))
		}
	}

	var out bytes.Buffer
	if err := png.Encode(&out, gray); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
