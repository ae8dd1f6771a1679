package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/becomingxdev/CrisisCheckTest1/internal/handlers"
	"github.com/becomingxdev/CrisisCheckTest1/internal/middleware"
	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
	"github.com/becomingxdev/CrisisCheckTest1/internal/repository"
	"github.com/becomingxdev/CrisisCheckTest1/internal/services"
	"github.com/becomingxdev/CrisisCheckTest1/internal/session"
)

type echoAssistant struct{}

func (echoAssistant) CrisisGuide(_ context.Context, message string) (*models.AssistantReply, error) {
	return &models.AssistantReply{Text: "Call 112 about " + message, QuickActions: services.ClassifyQuickActions("call 112")}, nil
}

func (echoAssistant) FactCheck(_ context.Context, message string, _ models.ContentType) (*models.AssistantReply, error) {
	r := services.FactCheckFallback()
	return &models.AssistantReply{Text: r.Explanation, FactCheck: &r}, nil
}

func (echoAssistant) Submit(ctx context.Context, kind models.Kind, text string) (*models.AssistantReply, error) {
	return echoAssistant{}.CrisisGuide(ctx, text)
}

func newTestRouter(t *testing.T, assistantLimit int) (http.Handler, *middleware.JWTAuth) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := zap.NewNop()
	jwtAuth := middleware.NewJWTAuth("router-test-secret")
	authService, err := services.NewAuthService(services.DefaultAccounts("admin", "admin123", "volunteer", "volunteer123"), jwtAuth)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	reportStore := repository.NewMemoryReportRepo(repository.SeedReports())
	volunteerStore := repository.NewMemoryVolunteerRepo(repository.SeedVolunteers())

	h := Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Assistant:  handlers.NewAssistantHandler(echoAssistant{}, logger),
		Sessions:   handlers.NewSessionHandler(session.NewRegistry(echoAssistant{}, time.Minute, logger)),
		Reports:    handlers.NewReportHandler(services.NewReportService(reportStore, nil, nil, logger)),
		Volunteers: handlers.NewVolunteerHandler(services.NewVolunteerService(volunteerStore, nil, logger)),
		Settings:   handlers.NewSettingsHandler(services.NewSettingsService(repository.NewMemorySettingsRepo(repository.SeedSettings()), nil)),
		Dashboard:  handlers.NewDashboardHandler(services.NewDashboardService(reportStore, volunteerStore, repository.DashboardBaseline())),
		Health:     handlers.NewHealthHandler(nil),
		WebSocket:  func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusSwitchingProtocols) },
	}

	r := New(h, jwtAuth,
		middleware.NewRateLimiter(ctx, assistantLimit, time.Minute),
		middleware.NewRateLimiter(ctx, 100, time.Minute),
		"http://localhost:3000", logger)
	return r, jwtAuth
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_PublicRoutes(t *testing.T) {
	r, _ := newTestRouter(t, 100)

	tests := []struct {
		method string
		path   string
		body   interface{}
		status int
	}{
		{http.MethodGet, "/health", nil, http.StatusOK},
		{http.MethodGet, "/ready", nil, http.StatusOK},
		{http.MethodGet, "/api/crisis-reports", nil, http.StatusOK},
		{http.MethodGet, "/api/volunteers?status=active", nil, http.StatusOK},
		{http.MethodGet, "/api/site-settings", nil, http.StatusOK},
		{http.MethodGet, "/api/dashboard-stats", nil, http.StatusOK},
		{http.MethodPost, "/api/crisis-guide", map[string]string{"message": "gas leak"}, http.StatusOK},
		{http.MethodPost, "/api/fact-check", map[string]string{"message": "claim"}, http.StatusOK},
		{http.MethodPost, "/api/sessions", map[string]string{"kind": "crisis_guide"}, http.StatusCreated},
		{http.MethodGet, "/api/sessions/unknown", nil, http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rr := do(t, r, tc.method, tc.path, "", tc.body)
			if rr.Code != tc.status {
				t.Errorf("Expected %d, got %d: %s", tc.status, rr.Code, rr.Body.String())
			}
			if rr.Header().Get("X-Request-ID") == "" {
				t.Errorf("Expected X-Request-ID header")
			}
		})
	}
}

func TestRouter_AdminRoutesRequireAdminRole(t *testing.T) {
	r, jwtAuth := newTestRouter(t, 100)

	adminToken, _ := jwtAuth.GenerateAccessToken("1", "admin", string(models.RoleAdmin))
	volunteerToken, _ := jwtAuth.GenerateAccessToken("2", "volunteer", string(models.RoleVolunteer))
	update := map[string]string{"id": "1", "status": "resolved"}

	if rr := do(t, r, http.MethodPut, "/api/crisis-reports", "", update); rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rr.Code)
	}
	if rr := do(t, r, http.MethodPut, "/api/crisis-reports", volunteerToken, update); rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for volunteer, got %d", rr.Code)
	}
	if rr := do(t, r, http.MethodPut, "/api/crisis-reports", adminToken, update); rr.Code != http.StatusOK {
		t.Errorf("Expected 200 for admin, got %d", rr.Code)
	}
	if rr := do(t, r, http.MethodPut, "/api/site-settings", adminToken, map[string]string{"bannerText": "x"}); rr.Code != http.StatusOK {
		t.Errorf("Expected 200 for admin settings update, got %d", rr.Code)
	}
}

func TestRouter_LoginThenAdminUpdate(t *testing.T) {
	r, _ := newTestRouter(t, 100)

	rr := do(t, r, http.MethodPost, "/api/auth", "", map[string]string{"username": "admin", "password": "admin123"})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected login 200, got %d", rr.Code)
	}
	var login models.LoginResponse
	json.NewDecoder(rr.Body).Decode(&login)

	rr = do(t, r, http.MethodPut, "/api/volunteers", login.Token, map[string]string{"id": "3", "status": "active"})
	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestRouter_AssistantRateLimit(t *testing.T) {
	r, _ := newTestRouter(t, 2)

	for i := 0; i < 2; i++ {
		if rr := do(t, r, http.MethodPost, "/api/crisis-guide", "", map[string]string{"message": "flood"}); rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rr.Code)
		}
	}
	rr := do(t, r, http.MethodPost, "/api/crisis-guide", "", map[string]string{"message": "flood"})
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Errorf("Expected Retry-After header")
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t, 100)

	req := httptest.NewRequest(http.MethodOptions, "/api/crisis-guide", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Expected allowed origin, got %q", got)
	}
}
