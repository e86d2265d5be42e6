package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/domain"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/ports"
)

// ReportRepository is the process-lifetime entity store. A single mutex
// serializes all mutations so the read-modify-write of Update is atomic per
// store; the business-key index is maintained inside the same critical
// section as the data write.
type ReportRepository struct {
	mu       sync.Mutex
	rowsByID map[string]domain.Report
	keys     map[domain.BusinessKey]string
	nowFn    func() time.Time
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{
		rowsByID: map[string]domain.Report{},
		keys:     map[domain.BusinessKey]string{},
		nowFn:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *ReportRepository) Create(_ context.Context, in ports.NewReport) (domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.KeyOf(in.Title, in.OwnerID)
	if _, taken := r.keys[key]; taken {
		return domain.Report{}, domain.ErrDuplicateKey
	}

	now := r.nowFn()
	row := domain.Report{
		ID:          "rep_" + uuid.NewString(),
		Title:       in.Title,
		OwnerID:     in.OwnerID,
		Status:      in.Status,
		Description: in.Description,
		Metadata:    in.Metadata,
		Tags:        in.Tags,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
		Entries:     []domain.Entry{},
		Comments:    []domain.Comment{},
		Attachments: []domain.Attachment{},
		AuditLog:    append([]domain.AuditLogEntry{}, in.AuditLog...),
	}
	if row.Tags == nil {
		row.Tags = []string{}
	}

	r.rowsByID[row.ID] = row
	r.keys[key] = row.ID
	return row.Clone(), nil
}

func (r *ReportRepository) GetByID(_ context.Context, id string) (domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rowsByID[id]
	if !ok {
		return domain.Report{}, domain.ErrNotFound
	}
	return row.Clone(), nil
}

// Update applies a shallow field patch, bumps the version by exactly one and
// reindexes the business key when title or owner changed. The whole
// operation either fully applies or leaves the store untouched.
func (r *ReportRepository) Update(_ context.Context, id string, upd ports.ReportUpdate) (domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rowsByID[id]
	if !ok {
		return domain.Report{}, domain.ErrNotFound
	}
	if upd.ExpectedVersion != nil && *upd.ExpectedVersion != row.Version {
		return domain.Report{}, &domain.VersionConflictError{Expected: *upd.ExpectedVersion, Actual: row.Version}
	}

	next := row.Clone()
	if upd.Title != nil {
		next.Title = *upd.Title
	}
	if upd.OwnerID != nil {
		next.OwnerID = *upd.OwnerID
	}
	if upd.Status != nil {
		next.Status = *upd.Status
	}
	if upd.Description != nil {
		next.Description = *upd.Description
	}
	if upd.Metadata != nil {
		next.Metadata = upd.Metadata
	}
	if upd.Tags != nil {
		next.Tags = append([]string{}, (*upd.Tags)...)
	}
	if upd.Entries != nil {
		next.Entries = append([]domain.Entry{}, (*upd.Entries)...)
	}
	if upd.Comments != nil {
		next.Comments = append([]domain.Comment{}, (*upd.Comments)...)
	}
	// Appends happen against the stored row, not the caller's snapshot, so
	// concurrent writers cannot overwrite each other's entries.
	next.Attachments = append(next.Attachments, upd.AppendAttachments...)
	next.AuditLog = append(next.AuditLog, upd.AppendAuditLog...)

	oldKey, newKey := row.Key(), next.Key()
	if newKey != oldKey {
		if otherID, taken := r.keys[newKey]; taken && otherID != id {
			return domain.Report{}, domain.ErrDuplicateKey
		}
	}

	next.ID = row.ID
	next.CreatedAt = row.CreatedAt
	next.Version = row.Version + 1
	next.UpdatedAt = r.nowFn()

	r.rowsByID[id] = next
	if newKey != oldKey {
		delete(r.keys, oldKey)
		r.keys[newKey] = id
	}
	return next.Clone(), nil
}

func (r *ReportRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rowsByID[id]
	if !ok {
		return false, nil
	}
	delete(r.rowsByID, id)
	delete(r.keys, row.Key())
	return true, nil
}

func (r *ReportRepository) List(_ context.Context) ([]domain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]domain.Report, 0, len(r.rowsByID))
	for _, row := range r.rowsByID {
		items = append(items, row.Clone())
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}
