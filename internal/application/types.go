package application

import (
	"encoding/json"
	"time"

	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/domain"
)

// Actor is the verified identity resolved by the auth boundary.
type Actor struct {
	UserID   string
	Username string
	Role     domain.Role
}

type CreateReportInput struct {
	Title       string         `json:"title"`
	OwnerID     string         `json:"ownerId"`
	Status      string         `json:"status,omitempty"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
}

type EntryInput struct {
	ID        string          `json:"id"`
	Priority  string          `json:"priority"`
	Timestamp time.Time       `json:"timestamp"`
	Value     json.RawMessage `json:"value,omitempty"`
	Status    string          `json:"status,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

type CommentInput struct {
	ID        string     `json:"id,omitempty"`
	Text      string     `json:"text"`
	Author    string     `json:"author,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// UpdateReportCommand is the mutation request, kept distinct from the
// persisted Report fields so request-control flags like force can never leak
// into storage. Nil pointers mean "field not present in the payload";
// entries and comments, when present, replace the stored lists wholesale.
type UpdateReportCommand struct {
	Title       *string         `json:"title"`
	Status      *string         `json:"status"`
	Description *string         `json:"description"`
	Metadata    map[string]any  `json:"metadata"`
	Tags        *[]string       `json:"tags"`
	Entries     *[]EntryInput   `json:"entries"`
	Comments    *[]CommentInput `json:"comments"`
	Force       bool            `json:"force"`

	// Raw is the payload exactly as submitted, recorded verbatim in the
	// audit entry's after field.
	Raw map[string]any `json:"-"`
}

// ViewQuery carries the read-projection parameters of GET /reports/{id}.
type ViewQuery struct {
	View           string
	Include        []string
	Page           *int
	Size           *int
	SortBy         string
	FilterPriority string
}

type ReportMetrics struct {
	TotalEntries        int `json:"totalEntries"`
	CompletedEntries    int `json:"completedEntries"`
	RecentActivityCount int `json:"recentActivityCount"`
	HighPriorityCount   int `json:"highPriorityCount"`
}

type SummaryView struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Status    domain.ReportStatus `json:"status"`
	OwnerID   string              `json:"ownerId"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
	Metrics   ReportMetrics       `json:"metrics"`
}

type Pagination struct {
	Page       int `json:"page"`
	Size       int `json:"size"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type PagedEntries struct {
	Data       []domain.Entry `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

type AttachmentResult struct {
	Attachment  domain.Attachment `json:"attachment"`
	DownloadURL string            `json:"downloadUrl"`
}

type TokenRequest struct {
	UserID   string `json:"userId,omitempty"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type TokenResult struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}
