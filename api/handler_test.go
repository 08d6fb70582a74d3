package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yourusername/floodgate/metrics"
	"github.com/yourusername/floodgate/pkg/floodgate"
)

func testHandler(t *testing.T, mutate func(*floodgate.Config)) *Handler {
	t.Helper()
	cfg := floodgate.NewConfig()
	if mutate != nil {
		mutate(cfg)
	}
	limiter, err := floodgate.New(floodgate.WithConfig(cfg))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return NewHandler(limiter)
}

func postJSON(t *testing.T, fn http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	fn(w, req)
	return w
}

func TestCheckAdmission_AllowsRequests(t *testing.T) {
	handler := testHandler(t, nil)

	w := postJSON(t, handler.CheckAdmission, "/check", CheckRequest{UserID: "test-user"})

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp CheckResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if !resp.Allowed {
		t.Error("Request should be allowed")
	}
	if resp.Classification != "allowed" {
		t.Errorf("Classification = %s, want allowed", resp.Classification)
	}
	if resp.Limit != 60 {
		t.Errorf("Limit = %d, want 60", resp.Limit)
	}
}

func TestCheckAdmission_DeniesWhenExceeded(t *testing.T) {
	handler := testHandler(t, func(c *floodgate.Config) { c.RequestsPerMinute = 3 })

	var w *httptest.ResponseRecorder
	for i := 0; i < 4; i++ {
		w = postJSON(t, handler.CheckAdmission, "/check", CheckRequest{UserID: "test-user"})
	}

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	var resp CheckResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if resp.Allowed {
		t.Error("Request should be denied")
	}
	if resp.RetryAfter <= 0 {
		t.Error("RetryAfter should be positive when denied")
	}
}

func TestCheckAdmission_RequiresUserID(t *testing.T) {
	handler := testHandler(t, nil)

	w := postJSON(t, handler.CheckAdmission, "/check", CheckRequest{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCheckAdmission_RejectsGet(t *testing.T) {
	handler := testHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/check", nil)
	w := httptest.NewRecorder()
	handler.CheckAdmission(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestCheckAdmission_PerOperationOverride(t *testing.T) {
	handler := testHandler(t, nil)

	// buy ships with a 5/min default override
	var w *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		w = postJSON(t, handler.CheckAdmission, "/check", CheckRequest{UserID: "trader", Operation: "buy"})
	}

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want %d for sixth buy", w.Code, http.StatusTooManyRequests)
	}

	var resp CheckResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Limit != 5 {
		t.Errorf("Limit = %d, want 5 (buy override)", resp.Limit)
	}
}

func TestUserStatus(t *testing.T) {
	handler := testHandler(t, nil)

	postJSON(t, handler.CheckAdmission, "/check", CheckRequest{UserID: "carol"})

	req := httptest.NewRequest(http.MethodGet, "/status?user_id=carol", nil)
	w := httptest.NewRecorder()
	handler.UserStatus(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var status floodgate.UserStatus
	json.NewDecoder(w.Body).Decode(&status)
	if status.UserID != "carol" {
		t.Errorf("UserID = %s, want carol", status.UserID)
	}
	if status.RequestsLastMinute != 1 {
		t.Errorf("RequestsLastMinute = %d, want 1", status.RequestsLastMinute)
	}
}

func TestUserStatus_RequiresUserID(t *testing.T) {
	handler := testHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	handler.UserStatus(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAdminEndpoints(t *testing.T) {
	handler := testHandler(t, func(c *floodgate.Config) { c.RequestsPerMinute = 1 })

	// Deny dave so there is state to administer
	postJSON(t, handler.CheckAdmission, "/check", CheckRequest{UserID: "dave"})
	postJSON(t, handler.CheckAdmission, "/check", CheckRequest{UserID: "dave"})

	w := postJSON(t, handler.ResetUser, "/admin/reset", adminRequest{UserID: "dave"})
	if w.Code != http.StatusOK {
		t.Errorf("reset status = %d, want %d", w.Code, http.StatusOK)
	}

	// After the reset dave is back under the limit
	w = postJSON(t, handler.CheckAdmission, "/check", CheckRequest{UserID: "dave"})
	if w.Code != http.StatusOK {
		t.Errorf("post-reset check = %d, want %d", w.Code, http.StatusOK)
	}

	w = postJSON(t, handler.UnbanUser, "/admin/unban", adminRequest{UserID: "dave"})
	if w.Code != http.StatusOK {
		t.Errorf("unban status = %d, want %d", w.Code, http.StatusOK)
	}

	w = postJSON(t, handler.SetPriority, "/admin/priority", adminRequest{UserID: "dave"})
	if w.Code != http.StatusOK {
		t.Errorf("priority status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestAdminEndpoints_RequireUserID(t *testing.T) {
	handler := testHandler(t, nil)

	for name, fn := range map[string]http.HandlerFunc{
		"reset":    handler.ResetUser,
		"unban":    handler.UnbanUser,
		"priority": handler.SetPriority,
	} {
		w := postJSON(t, fn, "/admin/"+name, adminRequest{})
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s without user_id = %d, want %d", name, w.Code, http.StatusBadRequest)
		}
	}
}

func TestCleanup_EmptyBodyUsesDefaults(t *testing.T) {
	handler := testHandler(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/cleanup", strings.NewReader(""))
	w := httptest.NewRecorder()
	handler.Cleanup(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]interface{}
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
}

func TestStatsAndHealth(t *testing.T) {
	handler := testHandler(t, nil)

	postJSON(t, handler.CheckAdmission, "/check", CheckRequest{UserID: "erin"})

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	w := httptest.NewRecorder()
	handler.Stats(w, req)

	var stats floodgate.Stats
	json.NewDecoder(w.Body).Decode(&stats)
	if stats.TotalRequests != 1 {
		t.Errorf("TotalRequests = %d, want 1", stats.TotalRequests)
	}
	if stats.TotalUsers != 1 {
		t.Errorf("TotalUsers = %d, want 1", stats.TotalUsers)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	handler.Health(w, req)

	var health map[string]string
	json.NewDecoder(w.Body).Decode(&health)
	if health["status"] != "healthy" {
		t.Errorf("health status = %s, want healthy", health["status"])
	}
}

func TestMetricsHandler(t *testing.T) {
	m := metrics.New()
	m.RecordRequest("alice", true)
	handler := NewMetricsHandler(m)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var snap metrics.Snapshot
	json.NewDecoder(w.Body).Decode(&snap)
	if snap.TotalChecks != 1 {
		t.Errorf("TotalChecks = %d, want 1", snap.TotalChecks)
	}
}
