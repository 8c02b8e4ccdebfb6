package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the position of a complaint in its lifecycle. The wire values are
// the strings the API stores; transition logic only ever compares Status
// constants, never display text.
type Status string

const (
	StatusPending    Status = "Menunggu Verifikasi"
	StatusRejected   Status = "Ditolak SIM RS"
	StatusAccepted   Status = "Diterima SIM RS"
	StatusInProgress Status = "Diproses Teknisi"
	StatusCompleted  Status = "Selesai"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusPending, StatusAccepted, StatusInProgress, StatusCompleted, StatusRejected}

// ParseStatus converts a wire value into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusRejected, StatusAccepted, StatusInProgress, StatusCompleted:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown complaint status %q", s)
	}
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Terminal reports whether no further transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// statusDisplay holds the presentation of each status.
type statusDisplay struct {
	LabelKey string
	Badge    string
	Code     string
}

var statusTable = map[Status]statusDisplay{
	StatusPending:    {LabelKey: "status.pending", Badge: "badge-pending", Code: "pending"},
	StatusRejected:   {LabelKey: "status.rejected", Badge: "badge-rejected", Code: "rejected"},
	StatusAccepted:   {LabelKey: "status.accepted", Badge: "badge-approved", Code: "accepted"},
	StatusInProgress: {LabelKey: "status.in_progress", Badge: "badge-processing", Code: "in_progress"},
	StatusCompleted:  {LabelKey: "status.completed", Badge: "badge-completed", Code: "completed"},
}

// LabelKey returns the localization key of the status label.
func (s Status) LabelKey() string { return statusTable[s].LabelKey }

// Badge returns the CSS class used to render the status.
func (s Status) Badge() string {
	if d, ok := statusTable[s]; ok {
		return d.Badge
	}
	return "badge-pending"
}

// Code is a stable ASCII identifier, used in query strings and DOM ids.
func (s Status) Code() string { return statusTable[s].Code }

// StatusFromCode is the inverse of Code.
func StatusFromCode(code string) (Status, bool) {
	for st, d := range statusTable {
		if d.Code == code {
			return st, true
		}
	}
	return "", false
}

// Priority is a three-level total order used for sorting and display only.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from highest to lowest.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority converts a wire value into a Priority.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	default:
		return "", fmt.Errorf("unknown priority %q", s)
	}
}

// Rank orders priorities: low < medium < high.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}

func (p Priority) LabelKey() string { return "priority." + string(p) }

func (p Priority) Badge() string {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return "priority-" + string(p)
	default:
		return "priority-medium"
	}
}

// CategoryRef is the category a complaint belongs to. Older complaints carry
// only the category name; newer ones carry the populated category document.
// Both are decoded into this one shape so render sites never type-check.
type CategoryRef struct {
	ID   string
	Name string
}

func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = CategoryRef{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*c = CategoryRef{Name: name}
		return nil
	}
	var doc struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*c = CategoryRef{ID: doc.ID, Name: doc.Name}
	return nil
}

func (c CategoryRef) MarshalJSON() ([]byte, error) {
	if c.ID == "" {
		return json.Marshal(c.Name)
	}
	return json.Marshal(struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	}{c.ID, c.Name})
}

// Legacy reports whether the reference only knows the category name.
func (c CategoryRef) Legacy() bool { return c.ID == "" && c.Name != "" }

// Resolve returns the id to submit for c, matching a legacy name against the
// given categories case-insensitively. Only active categories qualify.
func (c CategoryRef) Resolve(categories []Category) (string, bool) {
	if c.ID != "" {
		return c.ID, true
	}
	for _, cat := range categories {
		if cat.IsActive && strings.EqualFold(cat.Name, c.Name) {
			return cat.ID, true
		}
	}
	return "", false
}

// Complaint is a maintenance complaint as reported by the API.
type Complaint struct {
	ID              string      `json:"_id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Category        CategoryRef `json:"category"`
	Priority        Priority    `json:"priority"`
	Attachment      string      `json:"attachment,omitempty"`
	Status          Status      `json:"status"`
	CreatedBy       UserRef     `json:"createdBy"`
	VerifiedBy      *UserRef    `json:"verifiedBy,omitempty"`
	AssignedTo      *UserRef    `json:"assignedTo,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	RejectionReason string      `json:"rejectionReason,omitempty"`
	ProcessNotes    string      `json:"processNotes,omitempty"`
	CompletionNotes string      `json:"completionNotes,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// Assigned reports whether a technician has claimed the complaint.
func (c Complaint) Assigned() bool {
	return c.AssignedTo != nil && c.AssignedTo.ID != ""
}

// AssignedToUser reports whether userID holds the complaint.
func (c Complaint) AssignedToUser(userID string) bool {
	return c.Assigned() && c.AssignedTo.ID == userID
}

// ComplaintForm is the create/edit payload. Attachment is optional.
type ComplaintForm struct {
	Title       string   `form:"title" binding:"required,min=5"`
	Description string   `form:"description" binding:"required,min=10"`
	Category    string   `form:"category" binding:"required"`
	Priority    Priority `form:"priority" binding:"required,oneof=low medium high"`
	Attachment  *Upload  `form:"-"`
}

// Upload is a file forwarded to the API as a multipart part.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Verification is the reviewing office's decision.
type Verification struct {
	Action          string `json:"action"`
	Notes           string `json:"notes,omitempty"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}
