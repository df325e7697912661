package model

import (
	"time"

	"github.com/sells-group/discovery-cli/internal/scorer"
)

// EngagementStatus represents where an engagement is in the report workflow.
type EngagementStatus string

const (
	EngagementStatusPending         EngagementStatus = "pending"
	EngagementStatusPass1Processing EngagementStatus = "pass1_processing"
	EngagementStatusPass1Complete   EngagementStatus = "pass1_complete"
	EngagementStatusPass2Processing EngagementStatus = "pass2_processing"
	EngagementStatusPass2Complete   EngagementStatus = "pass2_complete"
	EngagementStatusFailed          EngagementStatus = "failed"
)

// Valid reports whether s is a known status.
func (s EngagementStatus) Valid() bool {
	switch s {
	case EngagementStatusPending, EngagementStatusPass1Processing,
		EngagementStatusPass1Complete, EngagementStatusPass2Processing,
		EngagementStatusPass2Complete, EngagementStatusFailed:
		return true
	}
	return false
}

// Client is the business owner who completed the assessment.
type Client struct {
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email,omitempty"`
}

// Engagement is one completed assessment awaiting or holding reports.
type Engagement struct {
	ID           string           `json:"id"`
	Client       Client           `json:"client"`
	Responses    scorer.Responses `json:"responses"`
	Status       EngagementStatus `json:"status"`
	Error        string           `json:"error,omitempty"`
	NotionPageID string           `json:"notion_page_id,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// EngagementFilter narrows ListEngagements.
type EngagementFilter struct {
	Status       EngagementStatus `json:"status,omitempty"`
	CreatedAfter time.Time        `json:"created_after,omitempty"`
	Limit        int              `json:"limit,omitempty"`
	Offset       int              `json:"offset,omitempty"`
}
