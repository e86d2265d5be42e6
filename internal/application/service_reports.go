package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/domain"
	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/ports"
)

func (s *Service) CreateReport(ctx context.Context, actor Actor, in CreateReportInput) (domain.Report, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return domain.Report{}, domain.ErrUnauthorized
	}
	if err := domain.ValidateTitle(in.Title); err != nil {
		return domain.Report{}, err
	}
	if err := domain.ValidateOwnerID(in.OwnerID); err != nil {
		return domain.Report{}, err
	}
	status := domain.StatusDraft
	if in.Status != "" {
		parsed, err := domain.ParseReportStatus(in.Status)
		if err != nil {
			return domain.Report{}, err
		}
		status = parsed
	}

	after := map[string]any{"title": in.Title, "ownerId": in.OwnerID, "status": string(status)}
	if in.Description != "" {
		after["description"] = in.Description
	}
	if in.Metadata != nil {
		after["metadata"] = in.Metadata
	}
	if in.Tags != nil {
		after["tags"] = in.Tags
	}

	created := domain.AuditLogEntry{
		Timestamp: s.nowFn(),
		UserID:    actor.UserID,
		Action:    domain.ActionCreated,
		After:     after,
	}

	return s.reports.Create(ctx, ports.NewReport{
		Title:       in.Title,
		OwnerID:     in.OwnerID,
		Status:      status,
		Description: in.Description,
		Metadata:    in.Metadata,
		Tags:        in.Tags,
		AuditLog:    []domain.AuditLogEntry{created},
	})
}

func (s *Service) GetReport(ctx context.Context, id string) (domain.Report, error) {
	return s.reports.GetByID(ctx, id)
}

func (s *Service) UpdateReport(ctx context.Context, actor Actor, id string, expectedVersion *int64, idempotencyKey string, cmd UpdateReportCommand) (domain.Report, error) {
	if strings.TrimSpace(actor.UserID) == "" {
		return domain.Report{}, domain.ErrUnauthorized
	}

	requestHash := hashJSON(map[string]any{
		"op":               "update_report",
		"report_id":        id,
		"actor":            actor.UserID,
		"expected_version": expectedVersion,
		"payload":          cmd.Raw,
	})
	if raw, ok, err := s.getIdempotent(ctx, idempotencyKey, requestHash); err != nil {
		return domain.Report{}, err
	} else if ok {
		var out domain.Report
		if json.Unmarshal(raw, &out) == nil {
			return out, nil
		}
	}

	existing, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return domain.Report{}, err
	}
	if expectedVersion != nil && *expectedVersion != existing.Version {
		return domain.Report{}, &domain.VersionConflictError{Expected: *expectedVersion, Actual: existing.Version}
	}
	if err := domain.CanMutate(actor.Role, existing.Status, cmd.Force); err != nil {
		return domain.Report{}, err
	}

	upd, err := s.buildUpdate(actor, cmd)
	if err != nil {
		return domain.Report{}, err
	}

	if err := s.reserveIdempotency(ctx, idempotencyKey, requestHash); err != nil {
		return domain.Report{}, err
	}

	audit := domain.AuditLogEntry{
		Timestamp: s.nowFn(),
		UserID:    actor.UserID,
		Action:    domain.ActionUpdated,
		Before: map[string]any{
			"title":       existing.Title,
			"status":      string(existing.Status),
			"description": existing.Description,
		},
		After:    cmd.Raw,
		Metadata: map[string]any{"forced": cmd.Force},
	}
	upd.AppendAuditLog = []domain.AuditLogEntry{audit}
	upd.ExpectedVersion = expectedVersion

	updated, err := s.reports.Update(ctx, id, upd)
	if err != nil {
		return domain.Report{}, err
	}

	_ = s.completeIdempotencyJSON(ctx, idempotencyKey, 200, updated)
	return updated, nil
}

// buildUpdate converts the command into the persisted field patch. The force
// flag is deliberately absent from the result: it controls the request, it is
// never a report field.
func (s *Service) buildUpdate(actor Actor, cmd UpdateReportCommand) (ports.ReportUpdate, error) {
	var upd ports.ReportUpdate

	if cmd.Title != nil {
		if err := domain.ValidateTitle(*cmd.Title); err != nil {
			return ports.ReportUpdate{}, err
		}
		upd.Title = cmd.Title
	}
	if cmd.Status != nil {
		status, err := domain.ParseReportStatus(*cmd.Status)
		if err != nil {
			return ports.ReportUpdate{}, err
		}
		upd.Status = &status
	}
	upd.Description = cmd.Description
	upd.Metadata = cmd.Metadata
	upd.Tags = cmd.Tags

	if cmd.Entries != nil {
		entries := make([]domain.Entry, 0, len(*cmd.Entries))
		for _, in := range *cmd.Entries {
			entry, err := s.entryFromInput(in)
			if err != nil {
				return ports.ReportUpdate{}, err
			}
			entries = append(entries, entry)
		}
		upd.Entries = &entries
	}
	if cmd.Comments != nil {
		comments := make([]domain.Comment, 0, len(*cmd.Comments))
		for _, in := range *cmd.Comments {
			comments = append(comments, s.commentFromInput(actor, in))
		}
		upd.Comments = &comments
	}
	return upd, nil
}

func (s *Service) entryFromInput(in EntryInput) (domain.Entry, error) {
	if strings.TrimSpace(in.ID) == "" {
		return domain.Entry{}, fmt.Errorf("%w: entry id is required", domain.ErrInvalidInput)
	}
	priority, err := domain.ParseEntryPriority(in.Priority)
	if err != nil {
		return domain.Entry{}, err
	}
	status := domain.EntryPending
	if in.Status != "" {
		parsed, err := domain.ParseEntryStatus(in.Status)
		if err != nil {
			return domain.Entry{}, err
		}
		status = parsed
	}
	ts := in.Timestamp
	if ts.IsZero() {
		ts = s.nowFn()
	}
	return domain.Entry{
		ID:        in.ID,
		Priority:  priority,
		Timestamp: ts,
		Value:     in.Value,
		Status:    status,
		Notes:     in.Notes,
	}, nil
}

func (s *Service) commentFromInput(actor Actor, in CommentInput) domain.Comment {
	out := domain.Comment{
		ID:        in.ID,
		Text:      in.Text,
		Author:    in.Author,
		UpdatedAt: in.UpdatedAt,
	}
	if out.ID == "" {
		out.ID = "cmt_" + uuid.NewString()
	}
	if out.Author == "" {
		out.Author = actor.Username
	}
	if in.CreatedAt != nil {
		out.CreatedAt = *in.CreatedAt
	} else {
		out.CreatedAt = s.nowFn()
	}
	return out
}

func (s *Service) ListReports(ctx context.Context) ([]SummaryView, error) {
	rows, err := s.reports.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SummaryView, 0, len(rows))
	for _, row := range rows {
		out = append(out, s.summaryOf(row))
	}
	return out, nil
}

func (s *Service) DeleteReport(ctx context.Context, actor Actor, id string) error {
	if actor.Role != domain.RoleEditor {
		return domain.ErrForbidden
	}
	existed, err := s.reports.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return domain.ErrNotFound
	}
	return nil
}
