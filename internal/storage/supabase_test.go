package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadReturnsPublicURL(t *testing.T) {
	var gotAuth, gotCT, gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCT = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSupabase(srv.URL, "secret-key", "loading-photos")
	url, err := s.Upload(context.Background(), "truck.jpg", "image/jpeg", []byte("payload"))
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "image/jpeg", gotCT)
	assert.Equal(t, []byte("payload"), gotBody)
	assert.True(t, strings.HasPrefix(gotPath, "/storage/v1/object/loading-photos/"))
	assert.True(t, strings.HasSuffix(gotPath, ".jpg"), "object keeps original extension")

	object := strings.TrimPrefix(gotPath, "/storage/v1/object/loading-photos/")
	assert.Equal(t, srv.URL+"/storage/v1/object/public/loading-photos/"+object, url)
}

func TestUploadErrorSurfacesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bucket not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewSupabase(srv.URL, "key", "missing-bucket")
	_, err := s.Upload(context.Background(), "a.png", "image/png", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestObjectNameKeepsExtension(t *testing.T) {
	a := ObjectName("photo.jpeg")
	b := ObjectName("photo.jpeg")

	assert.True(t, strings.HasSuffix(a, ".jpeg"))
	assert.NotEqual(t, a, b, "names must not collide")
	assert.Equal(t, "", strings.TrimLeft(ObjectName("noext"), "0123456789-"))
}
