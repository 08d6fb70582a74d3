package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/yourusername/floodgate/pkg/floodgate"
)

// Handler exposes the limiter over JSON endpoints
type Handler struct {
	limiter *floodgate.Limiter
}

// NewHandler creates a new API handler
func NewHandler(limiter *floodgate.Limiter) *Handler {
	return &Handler{limiter: limiter}
}

// CheckRequest represents the incoming admission check request
type CheckRequest struct {
	UserID    string `json:"user_id"`             // Required: unique identifier (user ID, API key, IP)
	Operation string `json:"operation,omitempty"` // Optional: defaults to api_request
}

// CheckResponse represents the admission check response
type CheckResponse struct {
	Allowed        bool   `json:"allowed"`
	Classification string `json:"classification"`
	Remaining      int    `json:"remaining"`
	Limit          int    `json:"limit"`
	RetryAfter     int    `json:"retry_after,omitempty"` // Seconds until retry (if denied)
	ResetAt        int64  `json:"reset_at"`              // Unix timestamp when the denial lapses
	Message        string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CheckAdmission handles POST /check requests
func (h *Handler) CheckAdmission(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Only POST requests are allowed")
		return
	}

	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if req.UserID == "" {
		h.sendError(w, http.StatusBadRequest, "missing_user_id", "user_id is required")
		return
	}

	info := h.limiter.Check(req.UserID, req.Operation)

	response := CheckResponse{
		Allowed:        info.Allowed,
		Classification: string(info.Classification),
		Remaining:      info.Remaining,
		Limit:          info.Limit,
		RetryAfter:     info.RetryAfter,
		ResetAt:        info.ResetAt.Unix(),
		Message:        info.Message,
	}

	statusCode := http.StatusOK
	if !info.Allowed {
		statusCode = http.StatusTooManyRequests
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// UserStatus handles GET /status?user_id= requests
func (h *Handler) UserStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Only GET requests are allowed")
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		h.sendError(w, http.StatusBadRequest, "missing_user_id", "user_id query parameter is required")
		return
	}

	status := h.limiter.UserStatus(userID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// Stats handles GET /stats requests
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Only GET requests are allowed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*") // Allow dashboard to fetch
	json.NewEncoder(w).Encode(h.limiter.Stats())
}

// adminRequest covers the admin endpoints that act on one user
type adminRequest struct {
	UserID   string `json:"user_id"`
	Priority *bool  `json:"priority,omitempty"` // Priority endpoint only; defaults to true
}

// ResetUser handles POST /admin/reset requests
func (h *Handler) ResetUser(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAdmin(w, r)
	if !ok {
		return
	}

	h.limiter.ResetUser(req.UserID)
	h.sendOK(w, "counters reset for "+req.UserID)
}

// UnbanUser handles POST /admin/unban requests
func (h *Handler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAdmin(w, r)
	if !ok {
		return
	}

	h.limiter.UnbanUser(req.UserID)
	h.sendOK(w, "ban and cooldown cleared for "+req.UserID)
}

// SetPriority handles POST /admin/priority requests
func (h *Handler) SetPriority(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAdmin(w, r)
	if !ok {
		return
	}

	priority := true
	if req.Priority != nil {
		priority = *req.Priority
	}
	h.limiter.SetPriorityUser(req.UserID, priority)
	if priority {
		h.sendOK(w, "priority enabled for "+req.UserID)
	} else {
		h.sendOK(w, "priority disabled for "+req.UserID)
	}
}

// Cleanup handles POST /admin/cleanup requests. The optional max_age_hours
// field defaults to 24.
func (h *Handler) Cleanup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Only POST requests are allowed")
		return
	}

	var req struct {
		MaxAgeHours int `json:"max_age_hours,omitempty"`
	}
	// An empty body means defaults; only malformed JSON is an error.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.sendError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.MaxAgeHours <= 0 {
		req.MaxAgeHours = 24
	}

	removed := h.limiter.Cleanup(time.Duration(req.MaxAgeHours) * time.Hour)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"removed": removed,
	})
}

// Health handles GET /health requests
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":   "healthy",
		"strategy": string(h.limiter.Strategy()),
	})
}

func (h *Handler) decodeAdmin(w http.ResponseWriter, r *http.Request) (adminRequest, bool) {
	var req adminRequest
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Only POST requests are allowed")
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return req, false
	}
	if req.UserID == "" {
		h.sendError(w, http.StatusBadRequest, "missing_user_id", "user_id is required")
		return req, false
	}
	return req, true
}

func (h *Handler) sendOK(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"message": message,
	})
}

func (h *Handler) sendError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}
