// Package storage archives exported report files in S3-compatible object
// storage (AWS S3, MinIO, R2).
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

// Archive stores exported report files
type Archive interface {
	// Put stores data under key and returns the object URI ("s3://bucket/key")
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// DownloadURL returns a presigned GET link valid for expiresIn
	DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)
}

// ErrEmptyKey is returned for operations without an object key
var ErrEmptyKey = errors.New("storage key is required")

// ReportKey builds the object key of an exported report:
// <prefix>/<client>/<YYYY>/<MM>/<filename>
func ReportKey(prefix, clientID, filename string, at time.Time) string {
	clientID = strings.Trim(clientID, "/")
	if clientID == "" {
		clientID = "unknown"
	}
	return strings.TrimPrefix(path.Join(prefix, clientID, at.UTC().Format("2006"), at.UTC().Format("01"), path.Base(filename)), "/")
}

// NopArchive discards files; used when archiving is disabled
type NopArchive struct{}

// Put implements Archive
func (NopArchive) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	return "", nil
}

// DownloadURL implements Archive
func (NopArchive) DownloadURL(context.Context, string, time.Duration) (string, error) {
	return "", fmt.Errorf("report archive disabled")
}

var _ Archive = NopArchive{}
