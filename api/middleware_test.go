package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vigilant-console/config"
	"vigilant-console/core/auth"
	"vigilant-console/core/gateway"
	"vigilant-console/core/rbac"
	"vigilant-console/core/store"
	"vigilant-console/core/utils"
)

func newTestServer(t *testing.T) (*Server, store.SessionStore, *utils.Encryptor) {
	t.Helper()
	return newTestServerWithGateway(t, "http://127.0.0.1:1")
}

func newTestServerWithGateway(t *testing.T, gatewayURL string) (*Server, store.SessionStore, *utils.Encryptor) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.AppConfig{
		DBPath:            filepath.Join(dir, "console.db"),
		TokenKey:          "middleware-test-key",
		InactivityTimeout: 30 * time.Minute,
		Gateway: config.GatewayConfig{
			BaseURL:        gatewayURL,
			TimeoutSec:     1,
			VerifyTLS:      true,
			DefaultPerPage: 10,
		},
		Security: config.SecurityConfig{LoginRateLimit: 2},
	}
	logger := utils.NewLoggerWithWriters(io.Discard, io.Discard)
	db, err := store.NewDB(cfg, logger)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.ApplyMigrations(context.Background(), db, logger); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	sessions := store.NewSessionsStore(db)
	encryptor, err := utils.NewEncryptorFromString(cfg.TokenKey)
	if err != nil {
		t.Fatalf("encryptor: %v", err)
	}
	gw := gateway.NewClient(cfg, logger)
	sm := auth.NewSessionManager(sessions, gw, encryptor, cfg, logger)
	srv := NewServer(cfg, ServerDeps{
		Sessions:       sessions,
		SessionManager: sm,
		Gateway:        gw,
		Policy:         rbac.DefaultPolicy(),
	}, logger)
	return srv, sessions, encryptor
}

func seedSession(t *testing.T, sessions store.SessionStore, encryptor *utils.Encryptor, id, role string) {
	t.Helper()
	blob, err := encryptor.EncryptToBlob([]byte("platform-token"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	now := utils.NowUTC()
	rec := &store.SessionRecord{
		ID:         id,
		UserID:     1,
		Email:      "op@npf.example",
		Roles:      []string{role},
		TokenBlob:  blob,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := sessions.SaveSession(context.Background(), rec); err != nil {
		t.Fatalf("save session: %v", err)
	}
}

func TestMissingBearerIsUnauthorized(t *testing.T) {
	srv, _, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestUnknownSessionIsExpired(t *testing.T) {
	srv, _, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer never-issued")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "session_expired") {
		t.Fatalf("body = %q, want session_expired marker", w.Body.String())
	}
}

func TestPermissionGuardFailsClosed(t *testing.T) {
	srv, sessions, encryptor := newTestServer(t)
	seedSession(t, sessions, encryptor, "sess-super", rbac.RoleSuper)
	seedSession(t, sessions, encryptor, "sess-cs", rbac.RoleCustomerService)

	cases := []struct {
		name    string
		session string
		path    string
		want    int
	}{
		{"super blocked from incidents", "sess-super", "/api/incidents/", http.StatusForbidden},
		{"customer service blocked from setup", "sess-cs", "/api/setup/roles", http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		req.Header.Set("Authorization", "Bearer "+tc.session)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, w.Code, tc.want)
		}
	}
}

func TestAuthorizedSessionReachesHandler(t *testing.T) {
	srv, sessions, encryptor := newTestServer(t)
	seedSession(t, sessions, encryptor, "sess-cs", rbac.RoleCustomerService)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer sess-cs")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "incidents") {
		t.Fatalf("sections missing from body: %s", w.Body.String())
	}
}

func TestRequestLogCarriesSessionUser(t *testing.T) {
	srv, sessions, encryptor := newTestServer(t)
	var buf bytes.Buffer
	srv.logger = utils.NewLoggerWithWriters(&buf, io.Discard)
	seedSession(t, sessions, encryptor, "sess-cs", rbac.RoleCustomerService)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer sess-cs")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(buf.String(), "user=op@npf.example") {
		t.Fatalf("request log missing user: %s", buf.String())
	}
}

func TestLoginLimiterExhausts(t *testing.T) {
	limiter := newLimiter(2, time.Minute)
	if !limiter.allow("1.2.3.4") || !limiter.allow("1.2.3.4") {
		t.Fatalf("first two attempts must pass")
	}
	if limiter.allow("1.2.3.4") {
		t.Fatalf("third attempt within the window must be limited")
	}
	if !limiter.allow("5.6.7.8") {
		t.Fatalf("limiter must track peers independently")
	}
}

func TestBearerTokenParsing(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if got := bearerToken(req); got != tc.want {
			t.Errorf("bearerToken(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestClientIPHonorsTrustedProxyOnly(t *testing.T) {
	srv, _, _ := newTestServer(t)
	srv.cfg.Security.TrustedProxies = []string{"10.0.0.1"}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	if ip := srv.clientIP(req); ip != "203.0.113.9" {
		t.Errorf("trusted proxy: ip = %q, want 203.0.113.9", ip)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.7:5000"
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	if ip := srv.clientIP(req); ip != "198.51.100.7" {
		t.Errorf("untrusted peer: ip = %q, want 198.51.100.7", ip)
	}
}
