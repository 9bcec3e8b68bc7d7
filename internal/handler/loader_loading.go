package handler

import (
	"context"        // upload contexts and DB call timeouts
	"errors"         // sentinel error comparisons
	"io"             // reading multipart file payloads
	"log"            // swallowed-error logging for notifications
	"mime/multipart" // multipart file headers from the upload form
	"net/http"       // HTTP status codes
	"strings"        // content-type checks
	"sync"           // fan-out coordination for concurrent uploads
	"time"           // DB call timeouts

	"github.com/labstack/echo/v4"

	"github.com/yahyaabohashemstu/yukleme/internal/model"
	"github.com/yahyaabohashemstu/yukleme/internal/queue"
	"github.com/yahyaabohashemstu/yukleme/internal/repository"
	"github.com/yahyaabohashemstu/yukleme/internal/service"
	"github.com/yahyaabohashemstu/yukleme/internal/storage"
)

// maxPhotoBytes caps a single uploaded photo or video at 10 MB.
const maxPhotoBytes = 10 << 20

// LoaderHandler serves the loader-facing report endpoints: create, list
// own reports and edit.  Edits go through the lifecycle's archive
// protocol; photo files are pushed to blob storage before the record is
// written.
type LoaderHandler struct {
	Lifecycle *service.Lifecycle
	Blobs     storage.BlobStore
}

// NewLoaderHandler constructs a LoaderHandler and panics if a dependency is nil.
func NewLoaderHandler(lc *service.Lifecycle, blobs storage.BlobStore) *LoaderHandler {
	if lc == nil || blobs == nil {
		panic("nil dependency passed to NewLoaderHandler")
	}
	return &LoaderHandler{Lifecycle: lc, Blobs: blobs}
}

// parseLoadingForm maps the multipart form fields of a report submission
// onto LoadingFields.  Empty or absent fields become nil (full-replace
// semantics: the stored column goes NULL).  Products arrive as a JSON
// string and degrade to an empty list when malformed.
func parseLoadingForm(c echo.Context) model.LoadingFields {
	opt := func(name string) *string {
		v := strings.TrimSpace(c.FormValue(name))
		if v == "" {
			return nil
		}
		return &v
	}
	return model.LoadingFields{
		Manager:             opt("manager"),
		Worker1:             opt("worker1"),
		Worker2:             opt("worker2"),
		Worker3:             opt("worker3"),
		Worker4:             opt("worker4"),
		Plate1:              opt("plate1"),
		Plate2:              opt("plate2"),
		ContainerNo:         opt("container_no"),
		LoadingDate:         opt("loading_date"),
		ProductWeight:       opt("product_weight"),
		VehicleWeightAfter:  opt("vehicle_weight_after"),
		DestinationCompany:  opt("destination_company"),
		DestinationCountry:  opt("destination_country"),
		DestinationCustomer: opt("destination_customer"),
		DriverName:          opt("driver_name"),
		DriverPhone:         opt("driver_phone"),
		ForkliftOperator:    opt("forklift_operator"),
		Products:            model.ParseProducts(c.FormValue("products")),
		EntryTime:           opt("entry_time"),
		ExitTime:            opt("exit_time"),
		Comments:            opt("comments"),
	}
}

// photoFiles returns the uploaded photo file headers, or an empty slice
// when the request carries no files.
func photoFiles(c echo.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["photos"]
}

// retainedPhotos returns the photo URLs the client explicitly resent in
// the edit form.  The stored photo set becomes these plus whatever was
// newly uploaded; URLs not resent are dropped from the record.
func retainedPhotos(c echo.Context) []string {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	out := []string{}
	for _, v := range form.Value["loaded_vehicle_photos"] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// uploadPhotos pushes every file to blob storage concurrently and returns
// the public URLs in submission order.  The first failure is returned,
// but uploads that already succeeded are not rolled back; their objects
// stay in the bucket unreferenced.
func (h *LoaderHandler) uploadPhotos(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}
	urls := make([]string, len(files))
	errs := make([]error, len(files))
	var wg sync.WaitGroup
	for i, fh := range files {
		wg.Add(1)
		go func(i int, fh *multipart.FileHeader) {
			defer wg.Done()
			urls[i], errs[i] = h.uploadOne(ctx, fh)
		}(i, fh)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return urls, nil
}

func (h *LoaderHandler) uploadOne(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh.Size > maxPhotoBytes {
		return "", errors.New("file too large")
	}
	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") && !strings.HasPrefix(ct, "video/") {
		return "", errors.New("only image and video files can be uploaded")
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	payload, err := io.ReadAll(io.LimitReader(f, maxPhotoBytes+1))
	if err != nil {
		return "", err
	}
	if len(payload) > maxPhotoBytes {
		return "", errors.New("file too large")
	}
	return h.Blobs.Upload(ctx, fh.Filename, ct, payload)
}

// publishReport hands the event to the broker.  Failures are logged and
// swallowed: a lost notification must never fail the request that caused
// it.
func publishReport(l model.Loading, class service.Classification) {
	if !class.Notify() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := queue.PublishLoadingReport(ctx, queue.EventFromLoading(l, class)); err != nil {
		log.Printf("loading %s: publish notification failed: %v", l.ID, err)
	}
}

// Create handles POST /api/loadings: upload photos, persist the report
// and publish the "new report" notification.
func (h *LoaderHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	fields := parseLoadingForm(c)
	urls, err := h.uploadPhotos(c.Request().Context(), photoFiles(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "photo upload failed: " + err.Error()})
	}
	fields.Photos = urls

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	rec, class, err := h.Lifecycle.Create(ctx, fields, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save loading"})
	}
	publishReport(rec, class)

	return c.JSON(http.StatusCreated, echo.Map{"message": "loading created", "loading": rec})
}

// MyLoadings handles GET /api/my-loadings: the loader's own reports,
// newest first.
func (h *LoaderHandler) MyLoadings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Lifecycle.ListMine(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch loadings"})
	}
	return c.JSON(http.StatusOK, list)
}

// Update handles PUT /api/loadings/:id: archive the current state as a
// version, apply the full-replace edit, and escalate the notification if
// a manager had already viewed the report.
func (h *LoaderHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")

	fields := parseLoadingForm(c)
	newURLs, err := h.uploadPhotos(c.Request().Context(), photoFiles(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "photo upload failed: " + err.Error()})
	}
	fields.Photos = append(retainedPhotos(c), newURLs...)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	updated, class, err := h.Lifecycle.Edit(ctx, id, fields, userID)
	if err != nil {
		if errors.Is(err, repository.ErrLoadingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "loading not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update loading"})
	}
	publishReport(updated, class)

	return c.JSON(http.StatusOK, echo.Map{"message": "loading updated", "loading": updated})
}
