// internal/writer/s3/s3.go
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tamzrod/openpad-bridge/internal/writer"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseTLS    bool
	Bucket    string
	Prefix    string
}

// Putter is the subset of *minio.Client the sink uses.
type Putter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Writer uploads each document as {prefix}/{name}, overwriting the
// previous object.
type Writer struct {
	mc     Putter
	bucket string
	prefix string
}

func New(cfg Config) (*Writer, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 writer: %w", err)
	}
	return NewWithClient(mc, cfg.Bucket, cfg.Prefix), nil
}

func NewWithClient(mc Putter, bucket, prefix string) *Writer {
	return &Writer{mc: mc, bucket: bucket, prefix: prefix}
}

// ObjectName returns the key a document is stored under.
func (w *Writer) ObjectName(doc writer.Document) string {
	name := doc.Name
	if name == "" {
		name = string(doc.Kind) + ".json"
	}
	if w.prefix == "" {
		return name
	}
	return path.Join(w.prefix, name)
}

func (w *Writer) Write(ctx context.Context, doc writer.Document) error {
	obj := w.ObjectName(doc)
	_, err := w.mc.PutObject(ctx, w.bucket, obj, bytes.NewReader(doc.Body), int64(len(doc.Body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("s3 writer: put %s/%s: %w", w.bucket, obj, err)
	}
	return nil
}
