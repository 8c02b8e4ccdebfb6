package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // pq.StringArray for the errors column
	"gorm.io/gorm"
)

// DiagnosticEvent records a failed API call for operators. It is the only
// table this service owns.
type DiagnosticEvent struct {
	ID         string         `gorm:"primaryKey" json:"id"`
	RequestID  string         `gorm:"index"`
	Operation  string         `gorm:"type:text;not null"`
	Path       string         `gorm:"type:text"`
	StatusCode int            // 0 when the API was unreachable
	Message    string         `gorm:"type:text"`
	Errors     pq.StringArray `gorm:"type:text[]"`
	UserID     string         `gorm:"index"`
	OccurredAt time.Time      `gorm:"index"`
}

// BeforeCreate generates the id when the caller left it empty.
func (e *DiagnosticEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	return
}
