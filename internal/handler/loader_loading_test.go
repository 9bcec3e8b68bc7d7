package handler

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yahyaabohashemstu/yukleme/internal/model"
	"github.com/yahyaabohashemstu/yukleme/internal/repository"
	"github.com/yahyaabohashemstu/yukleme/internal/service"
)

// nopStore satisfies service.LoadingStore for handler tests that never
// reach persistence.
type nopStore struct{}

func (nopStore) Create(context.Context, model.LoadingFields, string) (model.Loading, error) {
	return model.Loading{}, nil
}
func (nopStore) GetByID(context.Context, string) (model.Loading, error) {
	return model.Loading{}, repository.ErrLoadingNotFound
}
func (nopStore) ListByCreator(context.Context, string) ([]model.Loading, error) { return nil, nil }
func (nopStore) ListAll(context.Context) ([]model.Loading, error)               { return nil, nil }
func (nopStore) ArchiveAndUpdate(context.Context, string, model.LoadingFields, string) (model.Loading, model.Loading, error) {
	return model.Loading{}, model.Loading{}, repository.ErrLoadingNotFound
}
func (nopStore) SetRecorded(context.Context, string, model.ReviewerRole, string) (model.Loading, error) {
	return model.Loading{}, repository.ErrLoadingNotFound
}
func (nopStore) ClearRecorded(context.Context, string, model.ReviewerRole) (model.Loading, error) {
	return model.Loading{}, repository.ErrLoadingNotFound
}
func (nopStore) MarkViewed(context.Context, string) error { return nil }
func (nopStore) ListVersions(context.Context, string) ([]model.LoadingVersion, error) {
	return nil, nil
}

func newTestLifecycle() *service.Lifecycle { return service.NewLifecycle(nopStore{}) }

// fakeBlobs records uploads and can be told to fail specific filenames.
type fakeBlobs struct {
	mu     sync.Mutex
	seen   []string
	failOn map[string]bool
}

func (f *fakeBlobs) Upload(_ context.Context, filename, _ string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[filename] {
		return "", errors.New("upload rejected")
	}
	f.seen = append(f.seen, filename)
	return "https://blob.example/" + filename, nil
}

func multipartRequest(t *testing.T, fields map[string][]string, files map[string]string) echo.Context {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, values := range fields {
		for _, v := range values {
			require.NoError(t, w.WriteField(name, v))
		}
	}
	for name, content := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="photos"; filename="`+name+`"`)
		h.Set("Content-Type", "image/jpeg")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/loadings", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec)
}

func TestParseLoadingForm(t *testing.T) {
	c := multipartRequest(t, map[string][]string{
		"manager":      {"Ali"},
		"plate1":       {"34 ABC 123"},
		"worker2":      {"  "},
		"products":     {`[{"name":"boxes","quantity":"4","pallets":1}]`},
		"comments":     {"geç kaldı"},
		"loading_date": {"2026-08-29"},
	}, nil)

	f := parseLoadingForm(c)
	require.NotNil(t, f.Manager)
	assert.Equal(t, "Ali", *f.Manager)
	assert.Equal(t, "34 ABC 123", *f.Plate1)
	assert.Nil(t, f.Worker1, "absent field becomes nil")
	assert.Nil(t, f.Worker2, "blank field becomes nil")
	assert.Equal(t, []model.Product{{Name: "boxes", Quantity: 4, Pallets: 1}}, f.Products)
	assert.Equal(t, "geç kaldı", *f.Comments)
	assert.Equal(t, "2026-08-29", *f.LoadingDate)
}

func TestParseLoadingFormMalformedProducts(t *testing.T) {
	c := multipartRequest(t, map[string][]string{
		"products": {`{"broken":`},
	}, nil)

	f := parseLoadingForm(c)
	assert.Equal(t, []model.Product{}, f.Products, "malformed products degrade to empty list")
}

func TestRetainedPhotos(t *testing.T) {
	c := multipartRequest(t, map[string][]string{
		"loaded_vehicle_photos": {"https://blob.example/a.jpg", " ", "https://blob.example/b.jpg"},
	}, nil)

	assert.Equal(t,
		[]string{"https://blob.example/a.jpg", "https://blob.example/b.jpg"},
		retainedPhotos(c))
}

func TestUploadPhotosFanOut(t *testing.T) {
	blobs := &fakeBlobs{}
	h := NewLoaderHandler(newTestLifecycle(), blobs)

	c := multipartRequest(t, nil, map[string]string{
		"one.jpg": "11", "two.jpg": "22", "three.jpg": "33",
	})
	urls, err := h.uploadPhotos(context.Background(), photoFiles(c))
	require.NoError(t, err)
	assert.Len(t, urls, 3)
	for _, u := range urls {
		assert.Contains(t, u, "https://blob.example/")
	}
}

func TestUploadPhotosPartialFailure(t *testing.T) {
	blobs := &fakeBlobs{failOn: map[string]bool{"bad.jpg": true}}
	h := NewLoaderHandler(newTestLifecycle(), blobs)

	c := multipartRequest(t, nil, map[string]string{
		"good.jpg": "11", "bad.jpg": "22",
	})
	_, err := h.uploadPhotos(context.Background(), photoFiles(c))
	require.Error(t, err)
	// The successful sibling upload is not rolled back.
	assert.Contains(t, blobs.seen, "good.jpg")
}
