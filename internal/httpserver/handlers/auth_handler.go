package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"gestor/internal/auth"
	"gestor/internal/metrics"
	"gestor/internal/models"
)

// AuthStore is what the login/register handlers need from the
// repository beyond the credential core.
type AuthStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	EmailTaken(ctx context.Context, email string) (bool, error)
	AppendAuditLog(ctx context.Context, entry *models.AuditLog) error
}

const genericLoginError = "invalid email or password"

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and issues a bearer token. Not-found,
// wrong password and inactive account all answer with the same
// generic 401 so the endpoint cannot be used to enumerate accounts.
func Login(creds *auth.CredentialStore, tokens *auth.TokenService, st AuthStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" || req.Password == "" {
			respondMessage(w, http.StatusBadRequest, "email and password are required")
			return
		}

		u, err := creds.Verify(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrUserNotFound),
				errors.Is(err, auth.ErrBadCredential),
				errors.Is(err, auth.ErrUserInactive):
				metrics.LoginTotal.WithLabelValues("rejected").Inc()
				lg.Infow("login rejected", "email", req.Email, "reason", err)
				respondMessage(w, http.StatusUnauthorized, genericLoginError)
			default:
				metrics.LoginTotal.WithLabelValues("error").Inc()
				lg.Errorw("login store failure", "error", err)
				respondMessage(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		roleID := ""
		if u.RoleID != nil {
			roleID = *u.RoleID
		}
		tok, err := tokens.Issue(u.ID, roleID)
		if err != nil {
			lg.Errorw("token issue failed", "error", err)
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		metrics.LoginTotal.WithLabelValues("success").Inc()
		appendAudit(r, st, lg, u.ID, "login")
		respondJSON(w, http.StatusOK, map[string]any{
			"token": tok,
			"user":  map[string]string{"id": u.ID, "email": u.Email},
		})
	}
}

type registerReq struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Name      string  `json:"name"`
	CompanyID *string `json:"company_id,omitempty"`
	RoleID    *string `json:"role_id,omitempty"`
}

func Register(tokens *auth.TokenService, st AuthStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Email = strings.TrimSpace(req.Email)
		req.Name = strings.TrimSpace(req.Name)
		required := []struct{ field, value string }{
			{"email", req.Email},
			{"password", req.Password},
			{"name", req.Name},
		}
		for _, f := range required {
			if f.value == "" {
				respondMessage(w, http.StatusBadRequest, "field "+f.field+" is required")
				return
			}
		}

		taken, err := st.EmailTaken(r.Context(), req.Email)
		if err != nil {
			lg.Errorw("email lookup failed", "error", err)
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}
		if taken {
			respondMessage(w, http.StatusBadRequest, "email already registered")
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			lg.Errorw("password hash failed", "error", err)
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}
		u := models.User{
			Email:        req.Email,
			PasswordHash: hash,
			Name:         req.Name,
			IsActive:     true,
			CompanyID:    req.CompanyID,
			RoleID:       req.RoleID,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if err := st.CreateUser(r.Context(), &u); err != nil {
			lg.Errorw("create user failed", "error", err)
			respondMessage(w, http.StatusInternalServerError, "error creating user")
			return
		}

		roleID := ""
		if u.RoleID != nil {
			roleID = *u.RoleID
		}
		tok, err := tokens.Issue(u.ID, roleID)
		if err != nil {
			lg.Errorw("token issue failed", "error", err)
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		metrics.RegisterTotal.Inc()
		appendAudit(r, st, lg, u.ID, "register")
		respondJSON(w, http.StatusCreated, map[string]any{
			"message": "user created",
			"token":   tok,
			"user":    u,
		})
	}
}

// appendAudit is best effort; a failed audit write is logged but does
// not fail the request.
func appendAudit(r *http.Request, st AuthStore, lg *zap.SugaredLogger, userID, action string) {
	meta, _ := json.Marshal(map[string]string{
		"remote_addr": r.RemoteAddr,
		"user_agent":  r.UserAgent(),
	})
	entry := models.AuditLog{UserID: &userID, Action: action, Metadata: models.JSONB(meta), CreatedAt: time.Now()}
	if err := st.AppendAuditLog(r.Context(), &entry); err != nil {
		lg.Warnw("audit write failed", "action", action, "error", err)
	}
}
