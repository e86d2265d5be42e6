package domain

import (
	"encoding/json"
	"strings"
	"time"
)

type ReportStatus string

const (
	StatusDraft       ReportStatus = "draft"
	StatusInProgress  ReportStatus = "in_progress"
	StatusUnderReview ReportStatus = "under_review"
	StatusFinalized   ReportStatus = "finalized"
	StatusArchived    ReportStatus = "archived"
)

type EntryPriority string

const (
	PriorityLow      EntryPriority = "low"
	PriorityMedium   EntryPriority = "medium"
	PriorityHigh     EntryPriority = "high"
	PriorityCritical EntryPriority = "critical"
)

type EntryStatus string

const (
	EntryPending   EntryStatus = "pending"
	EntryActive    EntryStatus = "active"
	EntryCompleted EntryStatus = "completed"
	EntryCancelled EntryStatus = "cancelled"
)

const (
	ActionCreated = "CREATED"
	ActionUpdated = "UPDATED"
)

type Entry struct {
	ID        string          `json:"id"`
	Priority  EntryPriority   `json:"priority"`
	Timestamp time.Time       `json:"timestamp"`
	Value     json.RawMessage `json:"value,omitempty"`
	Status    EntryStatus     `json:"status"`
	Notes     string          `json:"notes,omitempty"`
}

type Comment struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Author    string     `json:"author"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type Attachment struct {
	ID             string     `json:"id"`
	Filename       string     `json:"filename"`
	OriginalName   string     `json:"originalName"`
	MimeType       string     `json:"mimeType"`
	Size           int64      `json:"size"`
	UploadedAt     time.Time  `json:"uploadedAt"`
	UploadedBy     string     `json:"uploadedBy"`
	StorageKey     string     `json:"storageKey"`
	DownloadToken  string     `json:"downloadToken,omitempty"`
	TokenExpiresAt *time.Time `json:"tokenExpiresAt,omitempty"`
}

type AuditLogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	UserID    string         `json:"userId"`
	Action    string         `json:"action"`
	Before    map[string]any `json:"before,omitempty"`
	After     map[string]any `json:"after,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type Report struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	OwnerID     string          `json:"ownerId"`
	Status      ReportStatus    `json:"status"`
	Description string          `json:"description,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
	Tags        []string        `json:"tags"`
	Version     int64           `json:"version"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Entries     []Entry         `json:"entries"`
	Comments    []Comment       `json:"comments"`
	Attachments []Attachment    `json:"attachments"`
	AuditLog    []AuditLogEntry `json:"auditLog"`
}

// BusinessKey is the secondary uniqueness constraint over live reports.
// A struct key keeps title and owner structurally distinct, so no separator
// collision is possible regardless of field content.
type BusinessKey struct {
	Title   string
	OwnerID string
}

func KeyOf(title, ownerID string) BusinessKey {
	return BusinessKey{Title: strings.ToLower(title), OwnerID: ownerID}
}

func (r Report) Key() BusinessKey {
	return KeyOf(r.Title, r.OwnerID)
}

// Clone returns an independent copy so callers can never mutate the stored
// aggregate without going through the repository's update path.
func (r Report) Clone() Report {
	out := r
	if r.Metadata != nil {
		out.Metadata = make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			out.Metadata[k] = v
		}
	}
	out.Tags = append([]string(nil), r.Tags...)
	out.Entries = append([]Entry(nil), r.Entries...)
	out.Comments = append([]Comment(nil), r.Comments...)
	out.Attachments = append([]Attachment(nil), r.Attachments...)
	out.AuditLog = append([]AuditLogEntry(nil), r.AuditLog...)
	return out
}
