// Package service contains the loading-report lifecycle: the edit/archive
// protocol, reviewer record keeping, view gating and the notification
// escalation policy.
package service

import "time"

// Classification tags a change to a loading report for the notification
// channel.  It is decided purely from the kind of change and the report's
// pre-change viewed state.
type Classification string

const (
	// ClassNew marks a freshly created report.
	ClassNew Classification = "new"
	// ClassSilentUpdate marks an edit to a report no manager had opened
	// yet; nothing downstream saw the stale data, so no notification is
	// sent.
	ClassSilentUpdate Classification = "silent-update"
	// ClassUrgentUpdate marks an edit to a report a manager had already
	// opened: someone may have acted on information that has since
	// changed.
	ClassUrgentUpdate Classification = "urgent-update"
)

// Notify reports whether the classification should produce an outbound
// notification.  Silent updates stay silent.
func (c Classification) Notify() bool { return c != ClassSilentUpdate }

// ClassifyEdit decides the severity of an edit from the report's viewed
// marker as it was before the edit was applied.  A non-nil marker means a
// manager reviewed the prior version, so the change is urgent.
func ClassifyEdit(preEditViewedAt *time.Time) Classification {
	if preEditViewedAt != nil {
		return ClassUrgentUpdate
	}
	return ClassSilentUpdate
}
