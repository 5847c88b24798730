package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rooted/analytics/internal/infrastructure/config"
)

// fakeS3 answers path-style PUT and HEAD requests from memory
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		f.types[r.URL.Path] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if _, ok := f.objects[r.URL.Path]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestArchive(t *testing.T, prefix string) (*S3Archive, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	a, err := NewS3Archive(context.Background(), &config.StorageConfig{
		Enabled:         true,
		Bucket:          "reports",
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		Prefix:          prefix,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		UsePathStyle:    true,
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return a, fake
}

func TestNewS3Archive_Validation(t *testing.T) {
	_, err := NewS3Archive(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration is required")

	_, err = NewS3Archive(context.Background(), &config.StorageConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")
}

func TestS3Archive_Put(t *testing.T) {
	a, fake := newTestArchive(t, "/exports/")
	ctx := context.Background()

	uri, err := a.Put(ctx, "jumbomax/2025/05/report.pdf", []byte("%PDF-1.7"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "s3://reports/exports/jumbomax/2025/05/report.pdf", uri)

	assert.Equal(t, []byte("%PDF-1.7"), fake.objects["/reports/exports/jumbomax/2025/05/report.pdf"])
	assert.Equal(t, "application/pdf", fake.types["/reports/exports/jumbomax/2025/05/report.pdf"])

	ok, err := a.Exists(ctx, "jumbomax/2025/05/report.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.Exists(ctx, "missing.pdf")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = a.Put(ctx, "", nil, "application/pdf")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestS3Archive_DownloadURL(t *testing.T) {
	a, _ := newTestArchive(t, "")

	u, err := a.DownloadURL(context.Background(), "hb/report.pdf", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, u, "/reports/hb/report.pdf")
	assert.Contains(t, u, "X-Amz-Signature=")
	assert.Contains(t, u, "X-Amz-Expires=3600")
	assert.Equal(t, "reports", a.Bucket())
}

func TestReportKey(t *testing.T) {
	at := time.Date(2025, 5, 14, 23, 0, 0, 0, time.UTC)
	tests := []struct {
		name, prefix, client, file, want string
	}{
		{"with prefix", "exports", "jumbomax", "report-jumbomax-1.pdf", "exports/jumbomax/2025/05/report-jumbomax-1.pdf"},
		{"no prefix", "", "hb", "r.pdf", "hb/2025/05/r.pdf"},
		{"path in filename is dropped", "", "hb", "../../etc/r.pdf", "hb/2025/05/r.pdf"},
		{"missing client", "", "", "r.pdf", "unknown/2025/05/r.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReportKey(tt.prefix, tt.client, tt.file, at))
		})
	}
}

func TestNopArchive(t *testing.T) {
	uri, err := NopArchive{}.Put(context.Background(), "k", []byte("x"), "text/plain")
	require.NoError(t, err)
	assert.Empty(t, uri)

	_, err = NopArchive{}.DownloadURL(context.Background(), "k", time.Minute)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "disabled"))
}
