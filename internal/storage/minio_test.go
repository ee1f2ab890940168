package storage

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"expirytracker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMinIO_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIOConfig
		want string
	}{
		{"missing endpoint", config.MinIOConfig{AccessKey: "a", SecretKey: "s", Bucket: "b"}, "minio endpoint is required"},
		{"missing credentials", config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "b"}, "minio credentials are required"},
		{"missing bucket", config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}, "minio bucket is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewMinIO(context.Background(), tt.cfg)
			assert.Nil(t, s)
			assert.EqualError(t, err, tt.want)
		})
	}
}

// fakeS3 answers the handful of path-style S3 calls the storage makes.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	if len(parts) == 1 || parts[1] == "" {
		// bucket-level request
		w.WriteHeader(http.StatusOK)
		return
	}
	key := parts[1]

	switch r.Method {
	case http.MethodPut:
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r.Body)
		body := buf.Bytes()
		if r.Header.Get("X-Amz-Decoded-Content-Length") != "" {
			body = decodeAWSChunked(body)
		}
		f.objects[key] = body
		f.types[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag-1"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		body, ok := f.objects[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("ETag", `"etag-1"`)
		w.Header().Set("Content-Type", f.types[key])
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Header().Set("Last-Modified", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC).Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// decodeAWSChunked strips the "<hex-size>;chunk-signature=...\r\n" framing of a signed streaming upload.
func decodeAWSChunked(b []byte) []byte {
	var out []byte
	for len(b) > 0 {
		eol := bytes.Index(b, []byte("\r\n"))
		if eol < 0 {
			break
		}
		header := string(b[:eol])
		if i := strings.IndexByte(header, ';'); i >= 0 {
			header = header[:i]
		}
		n, err := strconv.ParseInt(header, 16, 64)
		if err != nil || n == 0 {
			break
		}
		b = b[eol+2:]
		out = append(out, b[:n]...)
		b = b[n+2:]
	}
	return out
}

func newFakeStorage(t *testing.T) (Storage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewMinIO(context.Background(), config.MinIOConfig{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "exports",
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	return s, fake
}

func TestMinIO_PutAndStat(t *testing.T) {
	ctx := context.Background()
	s, fake := newFakeStorage(t)

	body := []byte(`{"day":"2025-06-10","keys":[]}`)
	info, err := s.Put(ctx, "ledger/2025-06-10.json", bytes.NewReader(body), PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
	})
	require.NoError(t, err)
	assert.Equal(t, "ledger/2025-06-10.json", info.Key)
	assert.Equal(t, body, fake.objects["ledger/2025-06-10.json"])

	st, err := s.Stat(ctx, "ledger/2025-06-10.json")
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), st.Size)
	assert.Equal(t, "application/json", st.ContentType)
}

func TestMinIO_StatMissing(t *testing.T) {
	s, _ := newFakeStorage(t)

	_, err := s.Stat(context.Background(), "ledger/2024-01-01.json")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestMinIO_PresignGet(t *testing.T) {
	s, _ := newFakeStorage(t)

	raw, err := s.PresignGet(context.Background(), "ledger/2025-06-10.json", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/exports/ledger/2025-06-10.json", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.Contains(t, u.Query().Get("response-content-disposition"), `filename="2025-06-10.json"`)
}
