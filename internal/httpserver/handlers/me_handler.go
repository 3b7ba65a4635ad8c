package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"gestor/internal/auth"
)

// Me returns the authenticated user's own record.
func Me(users auth.UserReader, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := users.FindUserByID(r.Context(), auth.Subject(r.Context()))
		if err != nil {
			if errors.Is(err, auth.ErrNotFound) {
				respondMessage(w, http.StatusNotFound, "user not found")
				return
			}
			lg.Errorw("me lookup failed", "error", err)
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}
