package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"vigilant-console/core/rbac"
)

// fakeSetupPlatform serves the member-administration endpoints and records
// the last approve payload it received.
type fakeSetupPlatform struct {
	mu           sync.Mutex
	lastApproval map[string]string
}

func (f *fakeSetupPlatform) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/the-roles", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": 1, "name": "Super Admin", "slug": "super"},
				{"id": 2, "name": "Customer Service", "slug": "vgn-customer-service"},
			},
		})
	})
	mux.HandleFunc("/admin/admin-members/pending-actions", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": 5, "email": "new@npf.example", "status": "pending"},
			},
		})
	})
	mux.HandleFunc("/admin/admin-members/approve-action", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("approve payload: %v", err)
		}
		f.mu.Lock()
		f.lastApproval = payload
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})
	return mux
}

func setupServerForSetup(t *testing.T) (*Server, *fakeSetupPlatform) {
	t.Helper()
	platform := &fakeSetupPlatform{}
	upstream := httptest.NewServer(platform.handler(t))
	t.Cleanup(upstream.Close)
	srv, sessions, encryptor := newTestServerWithGateway(t, upstream.URL)
	seedSession(t, sessions, encryptor, "sess-super", rbac.RoleSuper)
	return srv, platform
}

func setupRequest(srv *Server, method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer sess-super")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestSetupRolesProxiesPlatform(t *testing.T) {
	srv, _ := setupServerForSetup(t)
	w := setupRequest(srv, http.MethodGet, "/api/setup/roles", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "vgn-customer-service") {
		t.Fatalf("roles missing from body: %s", w.Body.String())
	}
}

func TestSetupMemberActionsByState(t *testing.T) {
	srv, _ := setupServerForSetup(t)
	w := setupRequest(srv, http.MethodGet, "/api/setup/members/pending", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "new@npf.example") {
		t.Fatalf("pending member missing: %s", w.Body.String())
	}
}

func TestSetupMemberActionsRejectsBadState(t *testing.T) {
	srv, _ := setupServerForSetup(t)
	w := setupRequest(srv, http.MethodGet, "/api/setup/members/bogus", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSetupApproveForwardsActionID(t *testing.T) {
	srv, platform := setupServerForSetup(t)
	w := setupRequest(srv, http.MethodPost, "/api/setup/members/5/approve", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	platform.mu.Lock()
	payload := platform.lastApproval
	platform.mu.Unlock()
	if payload["action_id"] != "5" {
		t.Fatalf("action_id = %q, want 5", payload["action_id"])
	}
}

func TestRegisterAdminValidatesEmail(t *testing.T) {
	srv, _ := setupServerForSetup(t)
	w := setupRequest(srv, http.MethodPost, "/api/setup/admins",
		`{"first_name":"Ada","last_name":"Obi","email":"not-an-email","role_id":"2"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
