package ports

import (
	"context"
	"time"

	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/domain"
)

// NewReport is the store-side create input. The repository assigns id,
// timestamps and version 1; everything else comes from the caller.
type NewReport struct {
	Title       string
	OwnerID     string
	Status      domain.ReportStatus
	Description string
	Metadata    map[string]any
	Tags        []string
	AuditLog    []domain.AuditLogEntry
}

// ReportUpdate is a shallow field patch. Nil pointers mean "leave as is";
// a non-nil slice pointer wholesale-replaces the stored list. The audit log
// and attachments are append-only: AppendAuditLog and AppendAttachments are
// added to the stored lists inside the repository's critical section, so a
// concurrent writer can never overwrite another writer's entries.
// ExpectedVersion, when set, is compared against the stored version inside
// that same critical section.
type ReportUpdate struct {
	Title             *string
	OwnerID           *string
	Status            *domain.ReportStatus
	Description       *string
	Metadata          map[string]any
	Tags              *[]string
	Entries           *[]domain.Entry
	Comments          *[]domain.Comment
	AppendAttachments []domain.Attachment
	AppendAuditLog    []domain.AuditLogEntry
	ExpectedVersion   *int64
}

type ReportRepository interface {
	Create(ctx context.Context, in NewReport) (domain.Report, error)
	GetByID(ctx context.Context, id string) (domain.Report, error)
	Update(ctx context.Context, id string, upd ReportUpdate) (domain.Report, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]domain.Report, error)
}

type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	Status       string
	ResponseCode int
	ResponseBody []byte
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (*IdempotencyRecord, error)
	Reserve(ctx context.Context, key, requestHash string, now, expiresAt time.Time) error
	Complete(ctx context.Context, key string, responseCode int, responseBody []byte, at time.Time) error
}
