package routes

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/gatherly/internal/config"
	"github.com/joshua-takyi/gatherly/internal/container"
	"github.com/joshua-takyi/gatherly/internal/helpers"
	"github.com/joshua-takyi/gatherly/internal/helpers/jwttest"
	"github.com/joshua-takyi/gatherly/internal/models"
)

const testSecret = "routes-test-secret"

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment:  "test",
		CORSOrigins:  []string{"http://localhost:3000"},
		StoreBackend: config.BackendMemory,
		JWTSecret:    testSecret,
		Features: config.Features{
			Pagination:              true,
			DefaultPageSize:         10,
			EnforceCapacity:         true,
			EnforceUpdateOwnership:  true,
			DeleteConfirmationToken: config.DefaultDeleteConfirmationToken,
		},
	}

	tv, err := helpers.NewTokenValidator(context.Background(), "", testSecret)
	if err != nil {
		t.Fatalf("NewTokenValidator: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c := container.NewContainer(logger, cfg, models.MemoryNewRepo(), tv, nil, nil)
	return SetupRoutes(c)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
}

func TestEventRoutesRequireAuth(t *testing.T) {
	t.Parallel()
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous list status = %d, want 401", w.Code)
	}

	// Login is only mounted when Supabase is configured.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("login status = %d, want 404", w.Code)
	}
}

func TestCreateAndListThroughRouter(t *testing.T) {
	t.Parallel()
	r := newTestEngine(t)

	token, err := jwttest.Sign(testSecret, "user-1", "", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	body := []byte(`{"eventTitle":"Meetup","eventDescription":"D","eventCardImgUrl":"img.png","eventDate":"2025-01-01","eventLocation":"Loc"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d body = %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/events/organizer/user-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"owner":"user-1"`)) {
		t.Errorf("organizer list status = %d body = %s", w.Code, w.Body.String())
	}
}
