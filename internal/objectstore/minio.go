// Package objectstore builds the MinIO client used for s3:// locations.
package objectstore

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/specialistvlad/recipegrid/internal/env"
)

// Config holds the connection settings for an S3-compatible object store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// Enabled reports whether an endpoint has been configured.
func (c Config) Enabled() bool {
	return c.Endpoint != ""
}

// Validate checks that an enabled config carries credentials.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("object store endpoint is required")
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return errors.New("object store access key and secret key are required")
	}
	return nil
}

// ConfigFromEnv reads the RECIPEGRID_S3_* environment variables.
func ConfigFromEnv() (Config, error) {
	useSSL, err := env.Bool("RECIPEGRID_S3_USE_SSL", true)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Endpoint:  env.String("RECIPEGRID_S3_ENDPOINT", ""),
		AccessKey: env.String("RECIPEGRID_S3_ACCESS_KEY", ""),
		SecretKey: env.String("RECIPEGRID_S3_SECRET_KEY", ""),
		Region:    env.String("RECIPEGRID_S3_REGION", ""),
		UseSSL:    useSSL,
	}, nil
}

// NewMinIOClient validates cfg and returns a client for it.
func NewMinIOClient(cfg Config) (*minio.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(),
	}
	return minio.New(cfg.Endpoint, opts)
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
