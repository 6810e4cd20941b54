package ocr

import (
	"context"
	"io"

	"vitalwatch-service/internal/pkg/exceptions"

	"github.com/minio/minio-go/v7"
)

// MinioImageStore fetches submitted photos from the shared object bucket by
// the path carried in the submission event.
type MinioImageStore struct {
	client *minio.Client
	bucket string
}

func NewMinioImageStore(client *minio.Client, bucket string) *MinioImageStore {
	return &MinioImageStore{client: client, bucket: bucket}
}

func (s *MinioImageStore) FetchImage(ctx context.Context, objectPath string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucket, objectPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, exceptions.ErrMinioGetObject(err, s.bucket)
	}
	defer object.Close()

	raw, err := io.ReadAll(object)
	if err != nil {
		return nil, exceptions.ErrMinioGetObject(err, s.bucket)
	}
	return raw, nil
}
