package model

import "time"

// LoadingVersion is an immutable snapshot of a loading report taken just
// before an edit was applied.  Versions are append-only audit records:
// they are never mutated or individually deleted.
//
// Fields:
//  ID            – primary key (UUID).
//  LoadingID     – the report this version belongs to.
//  VersionNumber – position in the report's history, starting at 1 and
//                  strictly increasing per report.
//  Data          – full pre-edit report state (JSON column).
//  ArchivedBy    – id of the loader whose edit produced the snapshot.
//  CreatedAt     – archive timestamp.
type LoadingVersion struct {
	ID            string    `json:"id"`
	LoadingID     string    `json:"loading_id"`
	VersionNumber int       `json:"version_number"`
	Data          Loading   `json:"data"`
	ArchivedBy    string    `json:"archived_by"`
	CreatedAt     time.Time `json:"created_at"`
}
