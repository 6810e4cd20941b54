package contracts

import "context"

type RecognitionResult struct {
	Text       string
	Confidence float64
	Words      int
	Lines      int
}

// TextRecognizer wraps the external OCR engine. Recognize must honor ctx
// cancellation; callers bound it with a timeout since engine latency is
// unbounded.
type TextRecognizer interface {
	Recognize(ctx context.Context, image []byte) (*RecognitionResult, error)
}

// ImageNormalizer is the opaque preprocessing capability applied before
// recognition. A failed normalization is not fatal; callers fall back to the
// raw image.
type ImageNormalizer interface {
	Normalize(ctx context.Context, image []byte) ([]byte, error)
}

type ImageStore interface {
	FetchImage(ctx context.Context, objectPath string) ([]byte, error)
}
