package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"gestor/internal/auth"
	"gestor/internal/models"
)

// CompanyStore covers the read-only company endpoints. Tenant CRUD is
// an administrative flow outside the auth core; these routes exist so
// operators with the "companies" grant can inspect tenants.
type CompanyStore interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	FindCompany(ctx context.Context, id string) (*models.Company, error)
}

func ListCompanies(st CompanyStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs, err := st.ListCompanies(r.Context())
		if err != nil {
			lg.Errorw("list companies failed", "error", err)
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondJSON(w, http.StatusOK, cs)
	}
}

func GetCompany(st CompanyStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := st.FindCompany(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, auth.ErrNotFound) {
				respondMessage(w, http.StatusNotFound, "company not found")
				return
			}
			lg.Errorw("get company failed", "error", err)
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondJSON(w, http.StatusOK, c)
	}
}
