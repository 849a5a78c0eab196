package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vigilant-console/config"
	"vigilant-console/core/utils"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.AppConfig{
		Gateway: config.GatewayConfig{
			BaseURL:        srv.URL,
			TimeoutSec:     5,
			VerifyTLS:      true,
			DefaultPerPage: 10,
		},
	}
	return NewClient(cfg, utils.NewLogger())
}

func TestLoginUnauthorizedIsAuthError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	}))
	err := client.Login(context.Background(), "x@y.example", "pw")
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if authErr.Message != "Invalid credentials" {
		t.Fatalf("message not carried: %q", authErr.Message)
	}
}

func TestAuthedUnauthorizedIsSessionExpired(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	_, err := client.AssignedIncidents(context.Background(), "stale-token")
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestServerErrorIsRetryableNetworkError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	_, err := client.Banks(context.Background(), "tok")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if !netErr.Retryable {
		t.Fatalf("5xx must be retryable")
	}
	if !IsRetryable(err) {
		t.Fatalf("IsRetryable must report true")
	}
}

func TestBusinessRuleViolationCarriesMessage(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "Incident has been responded to by another personnel",
		})
	}))
	err := client.Respond(context.Background(), "tok", 42, true)
	var brv *BusinessRuleViolation
	if !errors.As(err, &brv) {
		t.Fatalf("expected BusinessRuleViolation, got %v", err)
	}
	if brv.Message != "Incident has been responded to by another personnel" {
		t.Fatalf("message not carried: %q", brv.Message)
	}
}

func TestBearerTokenIsSent(t *testing.T) {
	var got string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	if _, err := client.Entities(context.Background(), "secret-token"); err != nil {
		t.Fatalf("entities: %v", err)
	}
	if got != "Bearer secret-token" {
		t.Fatalf("authorization header = %q", got)
	}
}

func TestListIncidentsParsesEnvelopeAndMeta(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("per_page") != "5" {
			t.Errorf("pagination query not forwarded: %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": 1, "reference": "INC-001", "status": "Open"},
				{"id": 2, "reference": "INC-002", "status": "Closed"},
			},
			"meta": map[string]int{"current_page": 2, "last_page": 9, "per_page": 5, "total": 44},
		})
	}))
	incidents, meta, err := client.ListIncidents(context.Background(), "tok", 2, 5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(incidents) != 2 || incidents[0].Reference != "INC-001" {
		t.Fatalf("unexpected incidents: %+v", incidents)
	}
	if meta == nil || meta.CurrentPage != 2 || meta.Pages() != 9 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestActivityLogMetaUsesTotalPages(t *testing.T) {
	meta := &PageMeta{CurrentPage: 1, TotalPages: 4}
	if meta.Pages() != 4 {
		t.Fatalf("Pages() = %d, want 4", meta.Pages())
	}
}

func TestVerifyWithoutTokenIsAuthError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"admin": map[string]any{"id": 1}}})
	}))
	_, _, err := client.VerifyAuthToken(context.Background(), "x@y.example", "123456")
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError when token missing, got %v", err)
	}
}
