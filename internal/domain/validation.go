package domain

import (
	"fmt"
	"strings"
)

const (
	titleMinLen = 1
	titleMaxLen = 200
)

func ValidateTitle(v string) error {
	if len(strings.TrimSpace(v)) < titleMinLen || len(v) > titleMaxLen {
		return fmt.Errorf("%w: title must be 1-200 chars", ErrInvalidInput)
	}
	return nil
}

func ValidateOwnerID(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: ownerId is required", ErrInvalidInput)
	}
	return nil
}

func ParseReportStatus(v string) (ReportStatus, error) {
	switch ReportStatus(v) {
	case StatusDraft, StatusInProgress, StatusUnderReview, StatusFinalized, StatusArchived:
		return ReportStatus(v), nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, v)
	}
}

func ParseEntryPriority(v string) (EntryPriority, error) {
	switch EntryPriority(v) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return EntryPriority(v), nil
	default:
		return "", fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, v)
	}
}

func ParseEntryStatus(v string) (EntryStatus, error) {
	switch EntryStatus(v) {
	case EntryPending, EntryActive, EntryCompleted, EntryCancelled:
		return EntryStatus(v), nil
	default:
		return "", fmt.Errorf("%w: unknown entry status %q", ErrInvalidInput, v)
	}
}

// PrioritySeverityRank orders priorities by ascending severity rank for
// sortBy=priority: critical < high < medium < low.
func PrioritySeverityRank(p EntryPriority) int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}
