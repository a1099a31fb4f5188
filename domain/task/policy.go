package task

import (
	"github.com/example/task-manager/domain/user"
)

// Authorization rules for tasks. These are total, side-effect-free
// predicates over an already-fetched task; callers map a false result
// to a permission failure once existence is confirmed.

// CanView reports whether the actor may read the task: admins see
// everything, otherwise the actor must be the creator or the assignee.
func CanView(actorID string, role user.Role, t *Task) bool {
	return role == user.RoleAdmin || t.CreatedBy == actorID || t.AssignedTo == actorID
}

// CanEdit reports whether the actor may update the task. The rule is
// identical to CanView: admin, creator, or assignee.
func CanEdit(actorID string, role user.Role, t *Task) bool {
	return role == user.RoleAdmin || t.CreatedBy == actorID || t.AssignedTo == actorID
}

// CanDelete reports whether the actor may delete the task. Assignment
// alone is not enough: only admins and the creator may delete.
func CanDelete(actorID string, role user.Role, t *Task) bool {
	return role == user.RoleAdmin || t.CreatedBy == actorID
}

// ScopeFilters narrows a list query to the actor's visibility. Admins
// query with their filters unmodified. For everyone else AssignedTo is
// forcibly overwritten with the actor's own id, whatever the caller
// asked for, so non-admins only ever list tasks assigned to themselves
// through this path. Tasks a non-admin created but assigned elsewhere
// are reachable via FindInvolving instead.
func ScopeFilters(f Filters, actorID string, role user.Role) Filters {
	if role != user.RoleAdmin {
		f.AssignedTo = actorID
	}
	return f
}
