package service

import (
	"context"

	"github.com/yahyaabohashemstu/yukleme/internal/model"
)

// LoadingStore is the persistence surface the lifecycle manager works
// against.  *repository.LoadingRepo is the production implementation;
// tests substitute an in-memory fake.
type LoadingStore interface {
	Create(ctx context.Context, f model.LoadingFields, createdBy string) (model.Loading, error)
	GetByID(ctx context.Context, id string) (model.Loading, error)
	ListByCreator(ctx context.Context, creatorID string) ([]model.Loading, error)
	ListAll(ctx context.Context) ([]model.Loading, error)
	// ArchiveAndUpdate atomically snapshots the pre-edit row into the
	// version history and applies a full-replace update that clears all
	// review state.  Returns the pre-edit and post-edit states.
	ArchiveAndUpdate(ctx context.Context, id string, f model.LoadingFields, archivedBy string) (model.Loading, model.Loading, error)
	SetRecorded(ctx context.Context, id string, reviewer model.ReviewerRole, recordedBy string) (model.Loading, error)
	ClearRecorded(ctx context.Context, id string, reviewer model.ReviewerRole) (model.Loading, error)
	MarkViewed(ctx context.Context, id string) error
	ListVersions(ctx context.Context, loadingID string) ([]model.LoadingVersion, error)
}

// Lifecycle orchestrates the loading-report state transitions: create,
// edit-with-archive, record/unrecord and view.  Every mutation returns
// the resulting record plus, where relevant, the escalation
// classification for the caller to hand to the notification channel.
type Lifecycle struct {
	store LoadingStore
}

// NewLifecycle returns a Lifecycle over the given store.
func NewLifecycle(store LoadingStore) *Lifecycle {
	if store == nil {
		panic("nil store passed to NewLifecycle")
	}
	return &Lifecycle{store: store}
}

// Create persists a new report for the given loader.  New reports always
// classify as ClassNew.
func (s *Lifecycle) Create(ctx context.Context, f model.LoadingFields, createdBy string) (model.Loading, Classification, error) {
	rec, err := s.store.Create(ctx, f, createdBy)
	if err != nil {
		return model.Loading{}, "", err
	}
	return rec, ClassNew, nil
}

// Edit runs the edit protocol for one report: archive the pre-edit state
// as a new version, apply the submitted fields as a full replace, and
// clear all review state.  The photo set of the updated report is the
// union of the URLs the client retained and any newly uploaded ones; both
// are expected merged into f.Photos by the caller, which owns the upload
// step.  The classification is computed from the pre-edit viewed marker.
func (s *Lifecycle) Edit(ctx context.Context, id string, f model.LoadingFields, editorID string) (model.Loading, Classification, error) {
	prev, updated, err := s.store.ArchiveAndUpdate(ctx, id, f, editorID)
	if err != nil {
		return model.Loading{}, "", err
	}
	return updated, ClassifyEdit(prev.ViewedAt), nil
}

// Record stamps the reviewer's marker.  The legacy shared flag and
// timestamp/actor fields are set alongside so older consumers that only
// understand the single flag keep working.
func (s *Lifecycle) Record(ctx context.Context, id string, reviewer model.ReviewerRole, recordedBy string) (model.Loading, error) {
	return s.store.SetRecorded(ctx, id, reviewer, recordedBy)
}

// Unrecord clears the reviewer's marker; the legacy flag is cleared only
// when both markers end up null.
func (s *Lifecycle) Unrecord(ctx context.Context, id string, reviewer model.ReviewerRole) (model.Loading, error) {
	return s.store.ClearRecorded(ctx, id, reviewer)
}

// MarkViewed records the first manager opening of a report.  First viewer
// wins; repeated calls are no-ops and never error.
func (s *Lifecycle) MarkViewed(ctx context.Context, id string) error {
	return s.store.MarkViewed(ctx, id)
}

// Get returns one report.
func (s *Lifecycle) Get(ctx context.Context, id string) (model.Loading, error) {
	return s.store.GetByID(ctx, id)
}

// ListMine returns the loader's own reports, newest first.
func (s *Lifecycle) ListMine(ctx context.Context, creatorID string) ([]model.Loading, error) {
	return s.store.ListByCreator(ctx, creatorID)
}

// ListAll returns every report for manager review, newest first.
func (s *Lifecycle) ListAll(ctx context.Context) ([]model.Loading, error) {
	return s.store.ListAll(ctx)
}

// Versions returns a report's archived history, newest version first.
func (s *Lifecycle) Versions(ctx context.Context, loadingID string) ([]model.LoadingVersion, error) {
	return s.store.ListVersions(ctx, loadingID)
}
