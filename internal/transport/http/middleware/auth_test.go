package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"workpulse/internal/domain/auth"
)

type stubSessions struct {
	valid bool
	err   error
}

func (s stubSessions) SessionValid(_ context.Context, _, _ string) (bool, error) {
	return s.valid, s.err
}

func TestAuthAttachesUserFromValidToken(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "user-1", Name: "Pat", Role: auth.RoleEmployee}, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	var got auth.UserContext
	var ok bool
	handler := Auth(secret, stubSessions{valid: true})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetUser(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !ok {
		t.Fatal("expected user in context")
	}
	if got.UserID != "user-1" || got.Role != auth.RoleEmployee {
		t.Fatalf("unexpected user context: %+v", got)
	}
}

func TestAuthPassesThroughWithoutToken(t *testing.T) {
	handler := Auth("test-secret", stubSessions{valid: true})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("expected no user in context")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}

func TestAuthIgnoresForgedToken(t *testing.T) {
	forged, err := auth.GenerateToken("other-secret", auth.Claims{UserID: "user-1", Role: auth.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	handler := Auth("test-secret", stubSessions{valid: true})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("expected forged token to be ignored")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}

func TestAuthDropsRevokedOrUnknownSession(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "user-1", Role: auth.RoleEmployee}, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	tests := []struct {
		name     string
		sessions stubSessions
	}{
		{name: "revoked session", sessions: stubSessions{valid: false}},
		{name: "session lookup error", sessions: stubSessions{valid: true, err: errors.New("db down")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := Auth(secret, tc.sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if _, ok := GetUser(r.Context()); ok {
					t.Fatal("expected a dead session to leave the request unauthenticated")
				}
				w.WriteHeader(http.StatusNoContent)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusNoContent {
				t.Fatalf("expected pass-through, got %d", rec.Code)
			}
		})
	}
}

type stubResolver struct {
	roles map[string]string
}

func (s stubResolver) ResolveRole(_ context.Context, userID string) string {
	if role, ok := s.roles[userID]; ok {
		return role
	}
	return auth.RoleGuest
}

func TestRequireRoleGates(t *testing.T) {
	resolver := stubResolver{roles: map[string]string{
		"admin-1":    auth.RoleAdmin,
		"employee-1": auth.RoleEmployee,
	}}
	handler := RequireRole(resolver, auth.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		userID string
		want   int
	}{
		{name: "no user", userID: "", want: http.StatusUnauthorized},
		{name: "admin allowed", userID: "admin-1", want: http.StatusNoContent},
		{name: "employee forbidden", userID: "employee-1", want: http.StatusForbidden},
		{name: "unknown resolves to guest", userID: "nobody", want: http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/audit", nil)
			if tc.userID != "" {
				ctx := context.WithValue(req.Context(), ctxKeyUser, auth.UserContext{UserID: tc.userID})
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestRequireRoleIgnoresTokenRoleClaim(t *testing.T) {
	resolver := stubResolver{roles: map[string]string{"user-1": auth.RoleEmployee}}
	handler := RequireRole(resolver, auth.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	// Token claims admin but the database says employee.
	ctx := context.WithValue(context.Background(), ctxKeyUser, auth.UserContext{UserID: "user-1", Role: auth.RoleAdmin})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected stored role to win over token claim, got %d", rec.Code)
	}
}
