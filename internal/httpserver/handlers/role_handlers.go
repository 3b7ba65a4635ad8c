package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"gestor/internal/auth"
	"gestor/internal/models"
)

// RoleStore covers the role-permission administration endpoints.
type RoleStore interface {
	FindRole(ctx context.Context, id string) (*models.Role, error)
	ListRolePermissions(ctx context.Context, roleID string) ([]models.RolePermission, error)
	UpsertRolePermission(ctx context.Context, rp *models.RolePermission) error
}

// visibleRole loads a role and hides it from callers of other
// companies. System roles (no company) are visible to everyone.
func visibleRole(r *http.Request, st RoleStore) (*models.Role, error) {
	role, err := st.FindRole(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	id, _ := auth.IdentityFromContext(r.Context())
	if role.CompanyID != nil && *role.CompanyID != id.CompanyID {
		return nil, auth.ErrNotFound
	}
	return role, nil
}

func ListRolePermissions(st RoleStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := visibleRole(r, st)
		if err != nil {
			if errors.Is(err, auth.ErrNotFound) {
				respondMessage(w, http.StatusNotFound, "role not found")
				return
			}
			lg.Errorw("role lookup failed", "error", err)
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}
		rps, err := st.ListRolePermissions(r.Context(), role.ID)
		if err != nil {
			lg.Errorw("list role permissions failed", "error", err)
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondJSON(w, http.StatusOK, rps)
	}
}

type grantsReq struct {
	CanRead   bool `json:"can_read"`
	CanWrite  bool `json:"can_write"`
	CanDelete bool `json:"can_delete"`
}

// SetRolePermission writes the grants row for a (role, module) pair.
// This is the administrative write path; the resolver itself never
// writes.
func SetRolePermission(st RoleStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req grantsReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
		role, err := visibleRole(r, st)
		if err != nil {
			if errors.Is(err, auth.ErrNotFound) {
				respondMessage(w, http.StatusNotFound, "role not found")
				return
			}
			lg.Errorw("role lookup failed", "error", err)
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}
		rp := models.RolePermission{
			RoleID:     role.ID,
			ModuleName: chi.URLParam(r, "module"),
			CanRead:    req.CanRead,
			CanWrite:   req.CanWrite,
			CanDelete:  req.CanDelete,
		}
		if err := st.UpsertRolePermission(r.Context(), &rp); err != nil {
			lg.Errorw("upsert role permission failed", "error", err)
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondJSON(w, http.StatusOK, rp)
	}
}
