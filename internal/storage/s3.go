package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
)

// S3 serves s3://bucket/key locations from an S3-compatible object store.
type S3 struct {
	Client *minio.Client
}

// Open implements Storage.
func (s *S3) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, err := splitS3(location)
	if err != nil {
		return nil, err
	}
	obj, err := s.Client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %q: %w", location, err)
	}
	// GetObject is lazy; Stat surfaces a missing object before the first read.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, fmt.Errorf("failed to stat %q: %w", location, err)
	}
	return obj, nil
}

// Create implements Storage. The upload streams through a pipe and completes
// when the returned writer is closed. Aborting the writer fails the upload.
func (s *S3) Create(ctx context.Context, location string) (io.WriteCloser, error) {
	bucket, key, err := splitS3(location)
	if err != nil {
		return nil, err
	}

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	pr, pw := io.Pipe()
	w := &s3Writer{pw: pw, done: make(chan error, 1)}
	go func() {
		_, err := s.Client.PutObject(ctx, bucket, key, pr, -1, minio.PutObjectOptions{ContentType: contentType})
		pr.CloseWithError(err)
		w.done <- err
	}()
	return w, nil
}

type s3Writer struct {
	pw   *io.PipeWriter
	done chan error
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *s3Writer) Close() error {
	if err := w.pw.Close(); err != nil {
		return err
	}
	if err := <-w.done; err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// CloseWithError fails the pending upload so the object is never completed.
func (w *s3Writer) CloseWithError(cause error) error {
	w.pw.CloseWithError(cause)
	<-w.done
	return nil
}

func splitS3(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 location %q: %w", location, err)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 location %q: want s3://bucket/key", location)
	}
	return u.Host, key, nil
}
