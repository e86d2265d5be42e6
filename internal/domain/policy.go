package domain

import "strings"

type Role string

const (
	RoleReader Role = "reader"
	RoleEditor Role = "editor"
)

func ParseRole(v string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(v))) {
	case RoleReader:
		return RoleReader, true
	case RoleEditor:
		return RoleEditor, true
	default:
		return "", false
	}
}

// CanMutate decides whether a role may mutate a report in the given status.
// The role check dominates: a reader is rejected regardless of the force
// flag. A finalized report additionally requires force from an editor.
func CanMutate(role Role, status ReportStatus, force bool) error {
	if role != RoleEditor {
		return ErrForbidden
	}
	if status == StatusFinalized && !force {
		return ErrForceRequired
	}
	return nil
}
