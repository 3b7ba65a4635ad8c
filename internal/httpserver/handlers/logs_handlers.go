package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"gestor/internal/auth"
	"gestor/internal/models"
)

type AuditReader interface {
	ListAuditLogs(ctx context.Context, userID string, limit int) ([]models.AuditLog, error)
}

// Logs lists the caller's audit entries, or everyone's with ?all=1.
// The route is gated on the "settings" read grant.
func Logs(st AuditReader, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.Subject(r.Context())
		if r.URL.Query().Get("all") == "1" {
			userID = ""
		}
		logs, err := st.ListAuditLogs(r.Context(), userID, 200)
		if err != nil {
			lg.Errorw("list audit logs failed", "error", err)
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondJSON(w, http.StatusOK, logs)
	}
}
