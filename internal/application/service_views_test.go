package application

import (
	"context"
	"testing"
	"time"

	"github.com/viralforge/mesh/services/core-platform/M07-report-service/internal/domain"
)

func seedEntries(t *testing.T, svc *Service, reportID string) {
	t.Helper()
	old := time.Now().UTC().Add(-30 * 24 * time.Hour)
	entries := []EntryInput{
		{ID: "ent-1", Priority: "low", Status: "completed", Timestamp: old},
		{ID: "ent-2", Priority: "critical", Status: "active"},
		{ID: "ent-3", Priority: "high", Status: "pending"},
	}
	cmd := UpdateReportCommand{
		Entries: &entries,
		Raw:     map[string]any{"entries": "seed"},
	}
	if _, err := svc.UpdateReport(context.Background(), editor, reportID, nil, "", cmd); err != nil {
		t.Fatalf("seed entries: %v", err)
	}
}

func entriesOf(t *testing.T, view any) []domain.Entry {
	t.Helper()
	full, ok := view.(map[string]any)
	if !ok {
		t.Fatalf("expected map view, got %T", view)
	}
	entries, ok := full["entries"].([]domain.Entry)
	if !ok {
		t.Fatalf("expected entry slice, got %T", full["entries"])
	}
	return entries
}

func TestSummaryViewMetrics(t *testing.T) {
	svc := newTestService(t)
	report := mustCreateReport(t, svc, "Metrics")
	seedEntries(t, svc, report.ID)

	view, err := svc.GetReportView(context.Background(), report.ID, ViewQuery{View: "summary"})
	if err != nil {
		t.Fatalf("summary view: %v", err)
	}
	summary, ok := view.(SummaryView)
	if !ok {
		t.Fatalf("expected SummaryView, got %T", view)
	}
	want := ReportMetrics{TotalEntries: 3, CompletedEntries: 1, RecentActivityCount: 2, HighPriorityCount: 2}
	if summary.Metrics != want {
		t.Fatalf("metrics = %+v, want %+v", summary.Metrics, want)
	}
}

func TestSortEntriesBySeverity(t *testing.T) {
	svc := newTestService(t)
	report := mustCreateReport(t, svc, "Sorted")
	seedEntries(t, svc, report.ID)

	view, err := svc.GetReportView(context.Background(), report.ID, ViewQuery{SortBy: "priority"})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	entries := entriesOf(t, view)
	got := []domain.EntryPriority{entries[0].Priority, entries[1].Priority, entries[2].Priority}
	want := []domain.EntryPriority{domain.PriorityCritical, domain.PriorityHigh, domain.PriorityLow}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("severity order = %v, want %v", got, want)
		}
	}
}

func TestFilterEntriesByPriority(t *testing.T) {
	svc := newTestService(t)
	report := mustCreateReport(t, svc, "Filtered")
	seedEntries(t, svc, report.ID)

	view, err := svc.GetReportView(context.Background(), report.ID, ViewQuery{FilterPriority: "high"})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	entries := entriesOf(t, view)
	if len(entries) != 1 || entries[0].ID != "ent-3" {
		t.Fatalf("filtered entries = %+v", entries)
	}
}

func TestPaginatedEntriesEnvelope(t *testing.T) {
	svc := newTestService(t)
	report := mustCreateReport(t, svc, "Paged")
	seedEntries(t, svc, report.ID)

	page, size := 0, 1
	view, err := svc.GetReportView(context.Background(), report.ID, ViewQuery{Page: &page, Size: &size})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	full := view.(map[string]any)
	paged, ok := full["entries"].(PagedEntries)
	if !ok {
		t.Fatalf("expected paged envelope, got %T", full["entries"])
	}
	if len(paged.Data) != 1 {
		t.Fatalf("page data length = %d, want 1", len(paged.Data))
	}
	want := Pagination{Page: 0, Size: 1, Total: 3, TotalPages: 3}
	if paged.Pagination != want {
		t.Fatalf("pagination = %+v, want %+v", paged.Pagination, want)
	}

	// A page past the end keeps the totals but carries no rows.
	beyond := 9
	view, err = svc.GetReportView(context.Background(), report.ID, ViewQuery{Page: &beyond, Size: &size})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	paged = view.(map[string]any)["entries"].(PagedEntries)
	if len(paged.Data) != 0 || paged.Pagination.Total != 3 {
		t.Fatalf("out-of-range page = %+v", paged)
	}
}

func TestZeroSizePaginationFallsBackToPlainList(t *testing.T) {
	svc := newTestService(t)
	report := mustCreateReport(t, svc, "Degenerate Page")
	seedEntries(t, svc, report.ID)

	page, size := 0, 0
	view, err := svc.GetReportView(context.Background(), report.ID, ViewQuery{Page: &page, Size: &size})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	entries := entriesOf(t, view)
	if len(entries) != 3 {
		t.Fatalf("expected the unpaginated list for size=0, got %d entries", len(entries))
	}
}

func TestIncludeViewProjectsOnlyNamedFields(t *testing.T) {
	svc := newTestService(t)
	report := mustCreateReport(t, svc, "Projected")
	seedEntries(t, svc, report.ID)

	view, err := svc.GetReportView(context.Background(), report.ID, ViewQuery{Include: []string{"entries", "metrics"}})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	out := view.(map[string]any)
	if _, ok := out["entries"]; !ok {
		t.Fatalf("entries missing from include view")
	}
	if _, ok := out["metrics"]; !ok {
		t.Fatalf("metrics missing from include view")
	}
	for _, absent := range []string{"comments", "attachments", "auditLog"} {
		if _, ok := out[absent]; ok {
			t.Fatalf("field %q must be absent from include view", absent)
		}
	}
	if out["id"] != report.ID {
		t.Fatalf("base identity fields must always be present")
	}
}
