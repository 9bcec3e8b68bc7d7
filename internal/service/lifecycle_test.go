package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yahyaabohashemstu/yukleme/internal/model"
	"github.com/yahyaabohashemstu/yukleme/internal/repository"
)

// fakeStore is an in-memory LoadingStore with the same transition
// semantics as the MySQL repository: edits archive-then-replace and clear
// review state, record/unrecord keep the legacy flag derived from the two
// reviewer markers, and view is first-writer-wins.
type fakeStore struct {
	seq      int
	records  map[string]model.Loading
	versions map[string][]model.LoadingVersion
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records:  map[string]model.Loading{},
		versions: map[string][]model.LoadingVersion{},
	}
}

func (f *fakeStore) Create(_ context.Context, fl model.LoadingFields, createdBy string) (model.Loading, error) {
	f.seq++
	l := applyFields(model.Loading{}, fl)
	l.ID = fmt.Sprintf("loading-%d", f.seq)
	l.CreatedBy = createdBy
	l.CreatedAt = time.Now().UTC()
	l.UpdatedAt = l.CreatedAt
	f.records[l.ID] = l
	return l, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (model.Loading, error) {
	l, ok := f.records[id]
	if !ok {
		return model.Loading{}, repository.ErrLoadingNotFound
	}
	return l, nil
}

func (f *fakeStore) ListByCreator(_ context.Context, creatorID string) ([]model.Loading, error) {
	out := []model.Loading{}
	for _, l := range f.records {
		if l.CreatedBy == creatorID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAll(_ context.Context) ([]model.Loading, error) {
	out := []model.Loading{}
	for _, l := range f.records {
		l.VersionCount = len(f.versions[l.ID])
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeStore) ArchiveAndUpdate(_ context.Context, id string, fl model.LoadingFields, archivedBy string) (model.Loading, model.Loading, error) {
	prev, ok := f.records[id]
	if !ok {
		return model.Loading{}, model.Loading{}, repository.ErrLoadingNotFound
	}
	next := len(f.versions[id]) + 1
	f.versions[id] = append(f.versions[id], model.LoadingVersion{
		ID:            fmt.Sprintf("version-%s-%d", id, next),
		LoadingID:     id,
		VersionNumber: next,
		Data:          prev,
		ArchivedBy:    archivedBy,
		CreatedAt:     time.Now().UTC(),
	})

	updated := applyFields(model.Loading{}, fl)
	updated.ID = prev.ID
	updated.CreatedBy = prev.CreatedBy
	updated.CreatedAt = prev.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	// Review state is unconditionally cleared by the update statement.
	updated.ViewedAt = nil
	updated.SafwatRecordedAt = nil
	updated.PinarRecordedAt = nil
	updated.IsRecorded = false
	updated.RecordedAt = nil
	updated.RecordedBy = nil
	f.records[id] = updated
	return prev, updated, nil
}

func (f *fakeStore) SetRecorded(_ context.Context, id string, reviewer model.ReviewerRole, recordedBy string) (model.Loading, error) {
	l, ok := f.records[id]
	if !ok {
		return model.Loading{}, repository.ErrLoadingNotFound
	}
	now := time.Now().UTC()
	if reviewer == model.ReviewerPinar {
		l.PinarRecordedAt = &now
	} else {
		l.SafwatRecordedAt = &now
	}
	l.IsRecorded = true
	l.RecordedAt = &now
	l.RecordedBy = &recordedBy
	f.records[id] = l
	return l, nil
}

func (f *fakeStore) ClearRecorded(_ context.Context, id string, reviewer model.ReviewerRole) (model.Loading, error) {
	l, ok := f.records[id]
	if !ok {
		return model.Loading{}, repository.ErrLoadingNotFound
	}
	if reviewer == model.ReviewerPinar {
		l.PinarRecordedAt = nil
	} else {
		l.SafwatRecordedAt = nil
	}
	if l.SafwatRecordedAt == nil && l.PinarRecordedAt == nil {
		l.IsRecorded = false
		l.RecordedAt = nil
		l.RecordedBy = nil
	}
	f.records[id] = l
	return l, nil
}

func (f *fakeStore) MarkViewed(_ context.Context, id string) error {
	l, ok := f.records[id]
	if !ok {
		return nil // silent for unknown ids, like the conditional UPDATE
	}
	if l.ViewedAt == nil {
		now := time.Now().UTC()
		l.ViewedAt = &now
		f.records[id] = l
	}
	return nil
}

func (f *fakeStore) ListVersions(_ context.Context, loadingID string) ([]model.LoadingVersion, error) {
	vs := f.versions[loadingID]
	out := make([]model.LoadingVersion, len(vs))
	for i := range vs {
		out[len(vs)-1-i] = vs[i] // newest first
	}
	return out, nil
}

func applyFields(l model.Loading, fl model.LoadingFields) model.Loading {
	l.Manager, l.Worker1, l.Worker2, l.Worker3, l.Worker4 =
		fl.Manager, fl.Worker1, fl.Worker2, fl.Worker3, fl.Worker4
	l.Plate1, l.Plate2, l.ContainerNo, l.LoadingDate =
		fl.Plate1, fl.Plate2, fl.ContainerNo, fl.LoadingDate
	l.ProductWeight, l.VehicleWeightAfter = fl.ProductWeight, fl.VehicleWeightAfter
	l.DestinationCompany, l.DestinationCountry, l.DestinationCustomer =
		fl.DestinationCompany, fl.DestinationCountry, fl.DestinationCustomer
	l.DriverName, l.DriverPhone, l.ForkliftOperator =
		fl.DriverName, fl.DriverPhone, fl.ForkliftOperator
	l.Products = fl.Products
	if l.Products == nil {
		l.Products = []model.Product{}
	}
	l.Photos = fl.Photos
	if l.Photos == nil {
		l.Photos = []string{}
	}
	l.EntryTime, l.ExitTime, l.Comments = fl.EntryTime, fl.ExitTime, fl.Comments
	return l
}

func strp(s string) *string { return &s }

func TestCreateClassifiesAsNew(t *testing.T) {
	lc := NewLifecycle(newFakeStore())

	rec, class, err := lc.Create(context.Background(), model.LoadingFields{Plate1: strp("34 ABC 123")}, "loader-1")
	require.NoError(t, err)
	assert.Equal(t, ClassNew, class)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "loader-1", rec.CreatedBy)
	assert.Nil(t, rec.ViewedAt)
	assert.False(t, rec.IsRecorded)
}

func TestEditArchivesPreEditState(t *testing.T) {
	store := newFakeStore()
	lc := NewLifecycle(store)
	ctx := context.Background()

	rec, _, err := lc.Create(ctx, model.LoadingFields{
		Plate1:   strp("34 ABC 123"),
		Products: []model.Product{{Name: "boxes", Quantity: 10, Pallets: 2}},
	}, "loader-1")
	require.NoError(t, err)

	updated, class, err := lc.Edit(ctx, rec.ID, model.LoadingFields{Plate1: strp("06 XYZ 999")}, "loader-1")
	require.NoError(t, err)
	assert.Equal(t, ClassSilentUpdate, class)
	assert.Equal(t, "06 XYZ 999", *updated.Plate1)

	versions, err := lc.Versions(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].VersionNumber)
	assert.Equal(t, rec.ID, versions[0].LoadingID)
	// The snapshot is the record exactly as it was before the edit.
	assert.Equal(t, rec, versions[0].Data)
}

func TestEditVersionNumbersIncrease(t *testing.T) {
	store := newFakeStore()
	lc := NewLifecycle(store)
	ctx := context.Background()

	rec, _, err := lc.Create(ctx, model.LoadingFields{}, "loader-1")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _, err := lc.Edit(ctx, rec.ID, model.LoadingFields{Comments: strp(fmt.Sprintf("edit %d", i))}, "loader-1")
		require.NoError(t, err)
	}

	versions, err := lc.Versions(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	// Newest first.
	assert.Equal(t, 3, versions[0].VersionNumber)
	assert.Equal(t, 2, versions[1].VersionNumber)
	assert.Equal(t, 1, versions[2].VersionNumber)
}

func TestEditClearsReviewState(t *testing.T) {
	store := newFakeStore()
	lc := NewLifecycle(store)
	ctx := context.Background()

	rec, _, err := lc.Create(ctx, model.LoadingFields{}, "loader-1")
	require.NoError(t, err)

	require.NoError(t, lc.MarkViewed(ctx, rec.ID))
	_, err = lc.Record(ctx, rec.ID, model.ReviewerSafwat, "manager-1")
	require.NoError(t, err)
	_, err = lc.Record(ctx, rec.ID, model.ReviewerPinar, "manager-2")
	require.NoError(t, err)

	updated, _, err := lc.Edit(ctx, rec.ID, model.LoadingFields{}, "loader-1")
	require.NoError(t, err)
	assert.Nil(t, updated.ViewedAt)
	assert.Nil(t, updated.SafwatRecordedAt)
	assert.Nil(t, updated.PinarRecordedAt)
	assert.False(t, updated.IsRecorded)
	assert.Nil(t, updated.RecordedAt)
	assert.Nil(t, updated.RecordedBy)
}

func TestEditAfterViewEscalates(t *testing.T) {
	store := newFakeStore()
	lc := NewLifecycle(store)
	ctx := context.Background()

	rec, _, err := lc.Create(ctx, model.LoadingFields{}, "loader-1")
	require.NoError(t, err)

	// Not yet viewed: silent.
	_, class, err := lc.Edit(ctx, rec.ID, model.LoadingFields{}, "loader-1")
	require.NoError(t, err)
	assert.Equal(t, ClassSilentUpdate, class)

	// Viewed: urgent.
	require.NoError(t, lc.MarkViewed(ctx, rec.ID))
	updated, class, err := lc.Edit(ctx, rec.ID, model.LoadingFields{Comments: strp("changed")}, "loader-1")
	require.NoError(t, err)
	assert.Equal(t, ClassUrgentUpdate, class)
	assert.Nil(t, updated.ViewedAt, "edit must clear the viewed marker")

	versions, err := lc.Versions(ctx, rec.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 2)
}

func TestEditMissingRecord(t *testing.T) {
	lc := NewLifecycle(newFakeStore())

	_, _, err := lc.Edit(context.Background(), "no-such-id", model.LoadingFields{}, "loader-1")
	assert.ErrorIs(t, err, repository.ErrLoadingNotFound)
}

func TestMarkViewedIdempotent(t *testing.T) {
	store := newFakeStore()
	lc := NewLifecycle(store)
	ctx := context.Background()

	rec, _, err := lc.Create(ctx, model.LoadingFields{}, "loader-1")
	require.NoError(t, err)

	require.NoError(t, lc.MarkViewed(ctx, rec.ID))
	first, err := lc.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, first.ViewedAt)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, lc.MarkViewed(ctx, rec.ID))
	second, err := lc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ViewedAt, second.ViewedAt, "second view must not move the marker")

	// Unknown ids silently succeed.
	assert.NoError(t, lc.MarkViewed(ctx, "no-such-id"))
}

func TestRecordUnrecordDerivedFlag(t *testing.T) {
	store := newFakeStore()
	lc := NewLifecycle(store)
	ctx := context.Background()

	rec, _, err := lc.Create(ctx, model.LoadingFields{}, "loader-1")
	require.NoError(t, err)

	// Both reviewers record.
	after, err := lc.Record(ctx, rec.ID, model.ReviewerSafwat, "manager-1")
	require.NoError(t, err)
	assert.True(t, after.IsRecorded)
	require.NotNil(t, after.SafwatRecordedAt)

	after, err = lc.Record(ctx, rec.ID, model.ReviewerPinar, "manager-2")
	require.NoError(t, err)
	assert.True(t, after.IsRecorded)
	require.NotNil(t, after.PinarRecordedAt)

	// Unrecord safwat: pinar still holds the flag up.
	after, err = lc.Unrecord(ctx, rec.ID, model.ReviewerSafwat)
	require.NoError(t, err)
	assert.Nil(t, after.SafwatRecordedAt)
	assert.True(t, after.IsRecorded, "pinar is still recorded")

	// Unrecord pinar: both markers gone, flag drops.
	after, err = lc.Unrecord(ctx, rec.ID, model.ReviewerPinar)
	require.NoError(t, err)
	assert.Nil(t, after.PinarRecordedAt)
	assert.False(t, after.IsRecorded)
	assert.Nil(t, after.RecordedAt)
	assert.Nil(t, after.RecordedBy)
}

func TestRecordedFlagMatchesMarkers(t *testing.T) {
	store := newFakeStore()
	lc := NewLifecycle(store)
	ctx := context.Background()

	rec, _, err := lc.Create(ctx, model.LoadingFields{}, "loader-1")
	require.NoError(t, err)

	steps := []struct {
		record   bool
		reviewer model.ReviewerRole
	}{
		{true, model.ReviewerSafwat},
		{true, model.ReviewerPinar},
		{false, model.ReviewerSafwat},
		{true, model.ReviewerSafwat},
		{false, model.ReviewerPinar},
		{false, model.ReviewerSafwat},
	}
	for i, s := range steps {
		var after model.Loading
		if s.record {
			after, err = lc.Record(ctx, rec.ID, s.reviewer, "manager-1")
		} else {
			after, err = lc.Unrecord(ctx, rec.ID, s.reviewer)
		}
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, after.Recorded(), after.IsRecorded,
			"step %d: legacy flag must track the markers", i)
	}
}
