package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"vigilant-console/config"
	"vigilant-console/core/auth"
	"vigilant-console/core/gateway"
	"vigilant-console/core/store"
	"vigilant-console/core/utils"
)

// fakeNotificationPlatform answers unread lists per bearer token. Unknown
// tokens get the platform's 401.
func fakeNotificationPlatform(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/unread", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-live" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": 1, "title": "new assignment", "read": false},
				{"id": 2, "title": "new assignment", "read": false},
				{"id": 3, "title": "new comment", "read": false},
			},
		})
	})
	return mux
}

func setupPollerEnv(t *testing.T, platform http.Handler) (*Poller, store.SessionStore, *utils.Encryptor) {
	t.Helper()
	srv := httptest.NewServer(platform)
	t.Cleanup(srv.Close)
	dir := t.TempDir()
	cfg := &config.AppConfig{
		DBPath:            filepath.Join(dir, "console.db"),
		TokenKey:          "poller-test-key",
		InactivityTimeout: 30 * time.Minute,
		Gateway: config.GatewayConfig{
			BaseURL:        srv.URL,
			TimeoutSec:     5,
			VerifyTLS:      true,
			DefaultPerPage: 10,
		},
	}
	logger := utils.NewLogger()
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
	svc := NewService(gw, sm, logger)
	poller := NewPoller(config.SchedulerConfig{Enabled: true}, svc, sessions, logger)
	return poller, sessions, encryptor
}

func seedPollerSession(t *testing.T, sessions store.SessionStore, encryptor *utils.Encryptor, id, email, token string) {
	t.Helper()
	blob, err := encryptor.EncryptToBlob([]byte(token))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	now := utils.NowUTC()
	rec := &store.SessionRecord{
		ID:         id,
		UserID:     1,
		Email:      email,
		Roles:      []string{"vgn-customer-service"},
		TokenBlob:  blob,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := sessions.SaveSession(context.Background(), rec); err != nil {
		t.Fatalf("save session: %v", err)
	}
}

func TestRefreshOnceCountsUnreadPerSession(t *testing.T) {
	poller, sessions, encryptor := setupPollerEnv(t, fakeNotificationPlatform(t))
	seedPollerSession(t, sessions, encryptor, "sess-live", "live@npf.example", "tok-live")
	seedPollerSession(t, sessions, encryptor, "sess-stale", "stale@npf.example", "tok-stale")

	if err := poller.RefreshOnce(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := poller.UnreadCount("sess-live"); got != 3 {
		t.Fatalf("live unread = %d, want 3", got)
	}
	// The platform rejected the stale token; the session stays out of the map.
	if got := poller.UnreadCount("sess-stale"); got != 0 {
		t.Fatalf("stale unread = %d, want 0", got)
	}
}

func TestRefreshOnceReplacesCounts(t *testing.T) {
	poller, sessions, encryptor := setupPollerEnv(t, fakeNotificationPlatform(t))
	seedPollerSession(t, sessions, encryptor, "sess-live", "live@npf.example", "tok-live")
	ctx := context.Background()
	if err := poller.RefreshOnce(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := poller.UnreadCount("sess-live"); got != 3 {
		t.Fatalf("unread = %d, want 3", got)
	}
	if err := sessions.DeleteSession(ctx, "sess-live"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if err := poller.RefreshOnce(ctx); err != nil {
		t.Fatalf("refresh after logout: %v", err)
	}
	if got := poller.UnreadCount("sess-live"); got != 0 {
		t.Fatalf("unread after logout = %d, want 0", got)
	}
}
