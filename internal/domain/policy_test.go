package domain

import (
	"errors"
	"testing"
)

func TestCanMutateMatrix(t *testing.T) {
	cases := []struct {
		name   string
		role   Role
		status ReportStatus
		force  bool
		want   error
	}{
		{name: "editor on draft", role: RoleEditor, status: StatusDraft, force: false, want: nil},
		{name: "editor on in_progress", role: RoleEditor, status: StatusInProgress, force: false, want: nil},
		{name: "reader on draft", role: RoleReader, status: StatusDraft, force: false, want: ErrForbidden},
		{name: "reader on finalized with force", role: RoleReader, status: StatusFinalized, force: true, want: ErrForbidden},
		{name: "editor on finalized without force", role: RoleEditor, status: StatusFinalized, force: false, want: ErrForceRequired},
		{name: "editor on finalized with force", role: RoleEditor, status: StatusFinalized, force: true, want: nil},
		{name: "editor on archived", role: RoleEditor, status: StatusArchived, force: false, want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CanMutate(tc.role, tc.status, tc.force)
			if !errors.Is(got, tc.want) && got != tc.want {
				t.Fatalf("CanMutate(%s, %s, %v) = %v, want %v", tc.role, tc.status, tc.force, got, tc.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	if role, ok := ParseRole("editor"); !ok || role != RoleEditor {
		t.Fatalf("expected editor role, got %q ok=%v", role, ok)
	}
	if role, ok := ParseRole("reader"); !ok || role != RoleReader {
		t.Fatalf("expected reader role, got %q ok=%v", role, ok)
	}
	if _, ok := ParseRole("admin"); ok {
		t.Fatalf("expected admin to be rejected")
	}
}

func TestKeyOfIsCaseInsensitiveOnTitleOnly(t *testing.T) {
	if KeyOf("Quarterly Report", "usr-1") != KeyOf("quarterly report", "usr-1") {
		t.Fatalf("title comparison must ignore case")
	}
	if KeyOf("Quarterly Report", "usr-1") == KeyOf("Quarterly Report", "USR-1") {
		t.Fatalf("owner comparison must be exact")
	}
}

func TestVersionConflictErrorMatchesSentinel(t *testing.T) {
	err := &VersionConflictError{Expected: 2, Actual: 5}
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected VersionConflictError to match ErrVersionConflict")
	}
	var vc *VersionConflictError
	if !errors.As(error(err), &vc) || vc.Expected != 2 || vc.Actual != 5 {
		t.Fatalf("expected As to expose versions, got %+v", vc)
	}
}
