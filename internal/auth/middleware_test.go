package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"gestor/internal/models"
)

// fixture: user u1 with role r1 scoped to company c1, where r1 holds
// read (and only read) on "sales".
func newTestMiddleware(t *testing.T) (*Middleware, *TokenService) {
	t.Helper()
	tokens := NewTokenService("test-secret", time.Hour)
	users := newFakeUsers(t, &models.User{ID: "u1", Email: "u1@example.com", IsActive: true, CompanyID: strptr("c1"), RoleID: strptr("r1")})
	perms := &fakePerms{
		roles: map[string]*models.Role{"r1": {ID: "r1", Name: "seller", CompanyID: strptr("c1")}},
		rows: map[string]*models.RolePermission{
			"r1/sales": {RoleID: "r1", ModuleName: "sales", CanRead: true},
		},
	}
	return NewMiddleware(tokens, users, NewPermissionResolver(perms), zap.NewNop().Sugar()), tokens
}

func protectedHandler(mw *Middleware, module string, action Action, saw *Identity) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if saw != nil {
			*saw, _ = IdentityFromContext(r.Context())
		}
		w.WriteHeader(http.StatusOK)
	})
	return mw.Authenticate(mw.Require(module, action)(inner))
}

func doRequest(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/sales", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthorizeScenario(t *testing.T) {
	mw, tokens := newTestMiddleware(t)
	tok, err := tokens.Issue("u1", "r1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var saw Identity
	if rec := doRequest(protectedHandler(mw, "sales", ActionRead, &saw), "Bearer "+tok); rec.Code != http.StatusOK {
		t.Fatalf("sales read: got %d, want 200 (%s)", rec.Code, rec.Body)
	}
	if saw.UserID != "u1" || saw.RoleID != "r1" || saw.CompanyID != "c1" {
		t.Fatalf("downstream identity not attached: %+v", saw)
	}

	if rec := doRequest(protectedHandler(mw, "sales", ActionWrite, nil), "Bearer "+tok); rec.Code != http.StatusForbidden {
		t.Fatalf("sales write: got %d, want 403", rec.Code)
	}
	if rec := doRequest(protectedHandler(mw, "shipping", ActionRead, nil), "Bearer "+tok); rec.Code != http.StatusForbidden {
		t.Fatalf("shipping read: got %d, want 403", rec.Code)
	}
}

func TestAuthenticateRejectsBadHeaders(t *testing.T) {
	mw, tokens := newTestMiddleware(t)
	h := protectedHandler(mw, "sales", ActionRead, nil)
	tok, _ := tokens.Issue("u1", "r1")

	headers := map[string]string{
		"no header":        "",
		"scheme only":      "Bearer",
		"three parts":      "Bearer " + tok + " extra",
		"wrong scheme":     "Basic " + tok,
		"empty credential": "Bearer ",
	}
	for name, header := range headers {
		if rec := doRequest(h, header); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: got %d, want 401", name, rec.Code)
		}
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	mw, _ := newTestMiddleware(t)
	h := protectedHandler(mw, "sales", ActionRead, nil)

	forged, err := NewTokenService("other-secret", time.Hour).Issue("u1", "r1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	for name, header := range map[string]string{
		"garbage": "Bearer not-a-token",
		"forged":  "Bearer " + forged,
	} {
		if rec := doRequest(h, header); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: got %d, want 401", name, rec.Code)
		}
	}
}

func TestAuthenticateRejectsDeletedUser(t *testing.T) {
	mw, tokens := newTestMiddleware(t)
	h := protectedHandler(mw, "sales", ActionRead, nil)

	tok, err := tokens.Issue("ghost", "r1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if rec := doRequest(h, "Bearer "+tok); rec.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", rec.Code)
	}
}

func TestRequireWithoutAuthenticate(t *testing.T) {
	mw, _ := newTestMiddleware(t)
	h := mw.Require("sales", ActionRead)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	if rec := doRequest(h, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", rec.Code)
	}
}
