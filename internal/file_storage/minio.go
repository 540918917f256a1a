package filestorage

import (
	"context"
	"fmt"

	"github.com/SeakMengs/AutoQR/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

func NewMinioClient(cfg *config.MinioConfig) (*minio.Client, error) {
	return minio.New(cfg.ENDPOINT, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ACCESS_KEY, cfg.SECRET_KEY, ""),
		Secure: cfg.USE_SSL,
		Region: "us-east-1",
	})
}

// MinioMirror copies generated documents to an S3 compatible bucket.
type MinioMirror struct {
	client *minio.Client
	bucket string
	logger *zap.SugaredLogger
}

func NewMinioMirror(client *minio.Client, bucket string, logger *zap.SugaredLogger) *MinioMirror {
	return &MinioMirror{client: client, bucket: bucket, logger: logger}
}

func (m *MinioMirror) createBucketIfNotExists(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}

	if !exists {
		err = m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return err
		}
	}

	return nil
}

// Upload stores the local file at path as objectName.
func (m *MinioMirror) Upload(ctx context.Context, objectName, path string) error {
	if err := m.createBucketIfNotExists(ctx); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	info, err := m.client.FPutObject(ctx, m.bucket, objectName, path, minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3: %w", objectName, err)
	}

	m.logger.Debugw("Mirrored document", "bucket", info.Bucket, "object", info.Key, "size", info.Size)
	return nil
}
