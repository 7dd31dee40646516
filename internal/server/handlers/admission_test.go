package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ltancreti7/SwapRunn-Bolt/internal/domain"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/profiles"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/security"
	"github.com/Ltancreti7/SwapRunn-Bolt/internal/session"
)

// newBareAdmission builds a handler with no storage behind it; only paths
// that exit before touching the database are exercised here.
func newBareAdmission() *AdmissionHandler {
	jwtm := security.NewJWTManager("test-key", time.Minute, time.Hour)
	resolver := session.NewResolver(jwtm, nil)
	return NewAdmissionHandler(zap.NewNop(), resolver, nil, nil, nil, nil, nil, nil, nil)
}

func newTestRouter(h *AdmissionHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Any("/api/addJob", h.AddJob)
	r.Any("/api/addDriver", h.AddDriver)
	r.Any("/api/addStaff", h.AddStaff)
	return r
}

func TestAdmissionEndpointsRejectNonPOST(t *testing.T) {
	r := newTestRouter(newBareAdmission())

	for _, path := range []string{"/api/addJob", "/api/addDriver", "/api/addStaff"} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(method, path, nil)
			r.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Fatalf("%s %s: expected 405, got %d", method, path, w.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("%s %s: invalid body: %v", method, path, err)
			}
			if body["error"] != "Method not allowed" {
				t.Fatalf("%s %s: unexpected error %q", method, path, body["error"])
			}
		}
	}
}

func TestTargetDealer(t *testing.T) {
	explicit := uuid.New()
	own := uuid.New()

	got, err := targetDealer(domain.UserTypeAdmin, &profiles.Profile{}, &explicit)
	if err != nil || got != explicit {
		t.Fatalf("admin with explicit id: got %v, %v", got, err)
	}

	got, err = targetDealer(domain.UserTypeAdmin, &profiles.Profile{DealerID: &own}, nil)
	if err != nil || got != own {
		t.Fatalf("admin should fall back to own association: got %v, %v", got, err)
	}

	if _, err := targetDealer(domain.UserTypeAdmin, &profiles.Profile{}, nil); err == nil {
		t.Fatal("admin with neither id should error")
	}

	got, err = targetDealer(domain.UserTypeDealer, &profiles.Profile{DealerID: &own}, &explicit)
	if err != nil || got != own {
		t.Fatalf("non-admin must use own association: got %v, %v", got, err)
	}

	if _, err := targetDealer(domain.UserTypeDealer, &profiles.Profile{}, nil); !errors.Is(err, domain.ErrDealerAssociationMissing) {
		t.Fatalf("expected ErrDealerAssociationMissing, got %v", err)
	}
}

// The legacy endpoints answer every non-405 failure with 400 {"error": msg},
// auth failures included.
func TestAddJobRequiresBearerToken(t *testing.T) {
	r := newTestRouter(newBareAdmission())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/addJob", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a token, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body["error"] == "" {
		t.Fatal("expected an error message")
	}
}

func TestAddJobRejectsGarbageToken(t *testing.T) {
	r := newTestRouter(newBareAdmission())

	for _, path := range []string{"/api/addJob", "/api/addDriver", "/api/addStaff"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 for a malformed token, got %d", path, w.Code)
		}
	}
}
