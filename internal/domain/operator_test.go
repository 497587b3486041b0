package domain

import (
	"errors"
	"testing"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	admin := &Operator{ID: "op-1", Username: "admin", Role: RoleAdmin}
	clerk := &Operator{ID: "op-2", Username: "clerk", Role: RoleOperator}
	viewer := &Operator{ID: "op-3", Username: "viewer", Role: RoleViewer}

	tests := []struct {
		name string
		op   *Operator
		perm Permission
		want error
	}{
		{"nil operator", nil, PermView, ErrMissingOperator},
		{"empty id", &Operator{Role: RoleAdmin}, PermView, ErrMissingOperator},
		{"unknown role", &Operator{ID: "x", Role: "root"}, PermView, ErrMissingOperator},
		{"admin deletes", admin, PermDelete, nil},
		{"operator records", clerk, PermRecord, nil},
		{"operator cannot delete", clerk, PermDelete, ErrForbidden},
		{"viewer reads", viewer, PermView, nil},
		{"viewer cannot record", viewer, PermRecord, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.op, tt.perm)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("expected unauthorized kind, got %v", err)
			}
		})
	}
}
