package models

import "time"

// UpdateKind tells an open detail page what to do with a live message.
type UpdateKind string

const (
	// UpdateChanged means the complaint moved; the page re-renders.
	UpdateChanged UpdateKind = "update"
	// UpdateGone means the complaint was deleted or is no longer visible.
	UpdateGone UpdateKind = "gone"
	// UpdateExpired means the viewer's token was refused.
	UpdateExpired UpdateKind = "expired"
)

// ComplaintUpdate is pushed over the live socket of a complaint detail page.
type ComplaintUpdate struct {
	Kind        UpdateKind `json:"type"`
	ComplaintID string     `json:"complaintId"`
	Status      Status     `json:"status,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt,omitempty"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
}

// SnapshotOf captures the fields a viewer watches for changes.
func SnapshotOf(c Complaint) ComplaintUpdate {
	u := ComplaintUpdate{
		Kind:        UpdateChanged,
		ComplaintID: c.ID,
		Status:      c.Status,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.Assigned() {
		u.AssignedTo = c.AssignedTo.ID
	}
	return u
}

// Differs reports whether two snapshots of the same complaint disagree.
func (u ComplaintUpdate) Differs(other ComplaintUpdate) bool {
	return u.Status != other.Status ||
		!u.UpdatedAt.Equal(other.UpdatedAt) ||
		u.AssignedTo != other.AssignedTo
}
