package application

import (
	"context"
	"sort"
	"time"

	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/domain"
)

const recentActivityWindow = 7 * 24 * time.Hour

// GetReportView builds the read projection for one report. Field absence is
// explicit: a field not named by the include set is missing from the result
// map entirely, not null.
func (s *Service) GetReportView(ctx context.Context, id string, q ViewQuery) (any, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if q.View == "summary" {
		return s.summaryOf(report), nil
	}
	if len(q.Include) > 0 {
		return s.includeView(report, q), nil
	}
	return s.fullView(report, q), nil
}

func (s *Service) summaryOf(report domain.Report) SummaryView {
	return SummaryView{
		ID:        report.ID,
		Title:     report.Title,
		Status:    report.Status,
		OwnerID:   report.OwnerID,
		CreatedAt: report.CreatedAt,
		UpdatedAt: report.UpdatedAt,
		Metrics:   s.metricsOf(report),
	}
}

func (s *Service) metricsOf(report domain.Report) ReportMetrics {
	cutoff := s.nowFn().Add(-recentActivityWindow)
	m := ReportMetrics{TotalEntries: len(report.Entries)}
	for _, entry := range report.Entries {
		if entry.Status == domain.EntryCompleted {
			m.CompletedEntries++
		}
		if entry.Timestamp.After(cutoff) {
			m.RecentActivityCount++
		}
		if entry.Priority == domain.PriorityHigh || entry.Priority == domain.PriorityCritical {
			m.HighPriorityCount++
		}
	}
	return m
}

func (s *Service) includeView(report domain.Report, q ViewQuery) map[string]any {
	out := map[string]any{
		"id":        report.ID,
		"title":     report.Title,
		"status":    report.Status,
		"ownerId":   report.OwnerID,
		"createdAt": report.CreatedAt,
		"updatedAt": report.UpdatedAt,
		"version":   report.Version,
	}
	for _, field := range q.Include {
		switch field {
		case "entries":
			out["entries"] = projectEntries(report.Entries, q)
		case "comments":
			out["comments"] = report.Comments
		case "attachments":
			out["attachments"] = report.Attachments
		case "metadata":
			out["metadata"] = report.Metadata
		case "tags":
			out["tags"] = report.Tags
		case "auditLog":
			out["auditLog"] = report.AuditLog
		case "metrics":
			out["metrics"] = s.metricsOf(report)
		}
	}
	return out
}

func (s *Service) fullView(report domain.Report, q ViewQuery) map[string]any {
	out := map[string]any{
		"id":          report.ID,
		"title":       report.Title,
		"ownerId":     report.OwnerID,
		"status":      report.Status,
		"tags":        report.Tags,
		"version":     report.Version,
		"createdAt":   report.CreatedAt,
		"updatedAt":   report.UpdatedAt,
		"entries":     projectEntries(report.Entries, q),
		"comments":    report.Comments,
		"attachments": report.Attachments,
		"auditLog":    report.AuditLog,
	}
	if report.Description != "" {
		out["description"] = report.Description
	}
	if report.Metadata != nil {
		out["metadata"] = report.Metadata
	}
	return out
}

// projectEntries applies filter, sort and pagination in that order. The
// paginated envelope is produced only when both page and size are supplied;
// an out-of-range page yields an empty data array with correct totals.
func projectEntries(entries []domain.Entry, q ViewQuery) any {
	filtered := entries
	if q.FilterPriority != "" {
		filtered = make([]domain.Entry, 0, len(entries))
		for _, entry := range entries {
			if string(entry.Priority) == q.FilterPriority {
				filtered = append(filtered, entry)
			}
		}
	}

	switch q.SortBy {
	case "priority":
		sorted := append([]domain.Entry(nil), filtered...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return domain.PrioritySeverityRank(sorted[i].Priority) < domain.PrioritySeverityRank(sorted[j].Priority)
		})
		filtered = sorted
	case "recency", "timestamp":
		sorted := append([]domain.Entry(nil), filtered...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Timestamp.After(sorted[j].Timestamp)
		})
		filtered = sorted
	}

	if q.Page == nil || q.Size == nil {
		return filtered
	}

	page, size := *q.Page, *q.Size
	if page < 0 || size <= 0 {
		return filtered
	}
	total := len(filtered)
	totalPages := (total + size - 1) / size

	start := page * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	data := append([]domain.Entry{}, filtered[start:end]...)

	return PagedEntries{
		Data: data,
		Pagination: Pagination{
			Page:       page,
			Size:       size,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}
