package domain

// Operator is an authenticated member of shop staff acting on the ledger.
type Operator struct {
	ID       string
	Username string
	Role     Role
}

// Role represents an operator's access level
type Role string

const (
	// RoleAdmin has full access to all operations
	RoleAdmin Role = "admin"

	// RoleOperator can record sales and payments and read everything,
	// but cannot delete catalog entries
	RoleOperator Role = "operator"

	// RoleViewer can only read receipts, dashboards and catalog data
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleOperator: true,
	RoleViewer:   true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanRecord checks if the role can record sales, payments and catalog entries
func (r Role) CanRecord() bool {
	return r == RoleAdmin || r == RoleOperator
}

// CanDelete checks if the role can delete catalog entries
func (r Role) CanDelete() bool {
	return r == RoleAdmin
}

// CanView checks if the role can read ledger data
func (r Role) CanView() bool {
	return r.IsValid()
}

// Permission is an action class checked before every use case runs.
type Permission int

const (
	PermView Permission = iota
	PermRecord
	PermDelete
)

// Authorize rejects a missing operator or one whose role lacks perm.
func Authorize(op *Operator, perm Permission) error {
	if op == nil || op.ID == "" || !op.Role.IsValid() {
		return ErrMissingOperator
	}

	var allowed bool
	switch perm {
	case PermView:
		allowed = op.Role.CanView()
	case PermRecord:
		allowed = op.Role.CanRecord()
	case PermDelete:
		allowed = op.Role.CanDelete()
	}
	if !allowed {
		return ErrForbidden
	}
	return nil
}
