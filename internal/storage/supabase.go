// Package storage uploads photo files to a Supabase-style object storage
// bucket and hands back stable public URLs for persistence on the report.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"path"
	"strings"
	"time"
)

// BlobStore accepts a byte payload plus content type and returns a public
// URL for the stored object.  Handlers depend on this interface so tests
// can substitute a fake.
type BlobStore interface {
	Upload(ctx context.Context, filename, contentType string, payload []byte) (string, error)
}

// Supabase talks to the storage REST API of a Supabase project.  Objects
// are uploaded into a single public bucket; the returned URL is the
// bucket's public object path.
type Supabase struct {
	baseURL string // project URL, e.g. https://xyz.supabase.co
	apiKey  string // service or anon key with storage write access
	bucket  string
	client  *http.Client
}

// NewSupabase builds a client for the given project URL, API key and
// bucket name.
func NewSupabase(baseURL, apiKey, bucket string) *Supabase {
	return &Supabase{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		bucket:  bucket,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// ObjectName builds a collision-resistant object name from the original
// filename: millisecond timestamp plus a random suffix, keeping only the
// extension of the uploaded file.
func ObjectName(filename string) string {
	ext := path.Ext(filename)
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)
}

// Upload stores the payload under a fresh object name and returns the
// public URL.  The bucket must exist and be public; a non-2xx response is
// surfaced as an error with the response body for diagnosis.
func (s *Supabase) Upload(ctx context.Context, filename, contentType string, payload []byte) (string, error) {
	object := ObjectName(filename)
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, object)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("storage: upload %s returned %d: %s", object, resp.StatusCode, body)
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, object), nil
}
