package auth

import (
	"context"
	"errors"

	"gestor/internal/models"
)

// Action is one of the three grants a RolePermission row carries.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// Grants is the effective permission set for one (role, module) pair.
// The zero value denies everything.
type Grants struct {
	CanRead   bool `json:"can_read"`
	CanWrite  bool `json:"can_write"`
	CanDelete bool `json:"can_delete"`
}

// Allows reports whether the grant for the given action is set.
// Unknown actions are denied.
func (g Grants) Allows(a Action) bool {
	switch a {
	case ActionRead:
		return g.CanRead
	case ActionWrite:
		return g.CanWrite
	case ActionDelete:
		return g.CanDelete
	}
	return false
}

// PermissionReader is the narrow read surface the resolver needs.
// Implementations return ErrNotFound when no record matches.
type PermissionReader interface {
	FindRole(ctx context.Context, id string) (*models.Role, error)
	FindRolePermission(ctx context.Context, roleID, moduleName string) (*models.RolePermission, error)
}

// PermissionResolver computes effective grants. It is a pure function
// of its inputs and the current permission tables; it holds no cache.
type PermissionResolver struct {
	perms PermissionReader
}

func NewPermissionResolver(perms PermissionReader) *PermissionResolver {
	return &PermissionResolver{perms: perms}
}

// Resolve returns the grants roleID holds on moduleName, default-deny
// throughout: an empty role id, a missing role, a missing
// RolePermission row, or a role owned by a different company than the
// caller's all yield zero grants. A role with no company is
// system-level and matches callers of any company. Only store
// failures surface as errors.
func (r *PermissionResolver) Resolve(ctx context.Context, roleID, moduleName, callerCompanyID string) (Grants, error) {
	if roleID == "" || moduleName == "" {
		return Grants{}, nil
	}
	role, err := r.perms.FindRole(ctx, roleID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Grants{}, nil
		}
		return Grants{}, err
	}
	// Tenant isolation: a company-scoped role only grants anything to
	// callers of that exact company.
	if role.CompanyID != nil && *role.CompanyID != callerCompanyID {
		return Grants{}, nil
	}
	rp, err := r.perms.FindRolePermission(ctx, roleID, moduleName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Grants{}, nil
		}
		return Grants{}, err
	}
	return Grants{CanRead: rp.CanRead, CanWrite: rp.CanWrite, CanDelete: rp.CanDelete}, nil
}
