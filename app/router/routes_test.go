package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/amirphl/panel-registry/app/handlers"
	"github.com/amirphl/panel-registry/app/router"
	"github.com/amirphl/panel-registry/app/services"
	businessflow "github.com/amirphl/panel-registry/business_flow"
	"github.com/amirphl/panel-registry/config"
	testingutil "github.com/amirphl/panel-registry/testing"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

type testServer struct {
	app *fiber.App
}

func newTestServer(t *testing.T, opts ...func(*config.ProductionConfig)) *testServer {
	t.Helper()
	return newTestServerWithAccessLog(t, io.Discard, opts...)
}

func newTestServerWithAccessLog(t *testing.T, accessLog io.Writer, opts ...func(*config.ProductionConfig)) *testServer {
	t.Helper()

	cfg := config.FromEnvironment()
	cfg.Deployment.Environment = "development"
	cfg.Logging.EnableAccessLog = false
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"
	cfg.Security.GlobalRateLimit = 10000
	cfg.Security.AuthRateLimit = 10000
	cfg.Security.RateLimitWindow = time.Minute
	cfg.Server.BodyLimit = 1024 * 1024
	cfg.Server.TrustedProxies = nil
	for _, opt := range opts {
		opt(cfg)
	}

	tokens, err := services.NewTokenService(time.Hour, "test-issuer", "test-audience", false, "", "", "0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	seq := testingutil.NewMemorySequence()
	users := testingutil.NewMemoryUserRepository()

	timeout := 5 * time.Second
	r := router.NewFiberRouter(cfg, router.Handlers{
		Admin:  handlers.NewResourceHandler(businessflow.NewAdminFlow(testingutil.NewMemoryAdminRepository(), seq, bcrypt.MinCost), timeout),
		Member: handlers.NewResourceHandler(businessflow.NewMemberFlow(testingutil.NewMemoryMemberRepository(), seq), timeout),
		User:   handlers.NewResourceHandler(businessflow.NewUserFlow(users, seq, bcrypt.MinCost), timeout),
		Auth:   handlers.NewAuthHandler(businessflow.NewLoginFlow(users, tokens, nil, 8, bcrypt.MinCost), timeout),
	}, accessLog)
	r.SetupRoutes()

	return &testServer{app: r.GetApp()}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*http.Response, apiResponse) {
	t.Helper()
	return s.doWithHeaders(t, method, path, body, nil)
}

func (s *testServer) doWithHeaders(t *testing.T, method, path string, body any, headers map[string]string) (*http.Response, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			encoded, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(encoded)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := s.app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var parsed apiResponse
	if resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON || bytes.HasPrefix(raw, []byte("{")) {
		require.NoError(t, json.Unmarshal(raw, &parsed), string(raw))
	}
	return resp, parsed
}

func memberPayload(email string) map[string]any {
	return map[string]any{
		"name":          "Mona Member",
		"email":         email,
		"mobile_number": 9127654321,
		"location":      "Shiraz",
	}
}

func TestResourceEndpoints(t *testing.T) {
	s := newTestServer(t)

	// empty collection
	resp, body := s.do(t, http.MethodGet, "/api/v1/member", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No panel members found", body.Message)

	// create
	email := testingutil.UniqueEmail("route")
	resp, body = s.do(t, http.MethodPost, "/api/v1/member", memberPayload(email))
	require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)
	var created struct {
		ID    int64  `json:"id"`
		UUID  string `json:"uuid"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, email, created.Email)
	assert.NotEmpty(t, created.UUID)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	// duplicate
	resp, body = s.do(t, http.MethodPost, "/api/v1/member", memberPayload(email))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Panel Member with this email already exists", body.Message)
	assert.Equal(t, "MEMBER_DUPLICATE_EMAIL", body.Error.Code)

	// get
	resp, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/member/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = s.do(t, http.MethodGet, "/api/v1/member/9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Panel Member with id 9999 not found", body.Message)

	resp, body = s.do(t, http.MethodGet, "/api/v1/member/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ID", body.Error.Code)

	// list
	resp, body = s.do(t, http.MethodGet, "/api/v1/member", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &items))
	assert.Len(t, items, 1)

	// update
	resp, body = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/member/%d", created.ID), map[string]any{"location": "Tabriz"})
	assert.Equal(t, http.StatusOK, resp.StatusCode, body.Message)

	resp, body = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/member/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched struct {
		Location string `json:"location"`
		Email    string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &fetched))
	assert.Equal(t, "Tabriz", fetched.Location)
	assert.Equal(t, email, fetched.Email)

	resp, body = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/member/%d", created.ID), map[string]any{"location": "Tabriz"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Failed to update member", body.Message)

	resp, _ = s.do(t, http.MethodPut, "/api/v1/member/9999", map[string]any{"location": "Tabriz"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// delete
	resp, body = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/member/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("Panel Member with id %d deleted successfully", created.ID), body.Message)

	resp, body = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/member/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("Panel Member with id %d not found", created.ID), body.Message)

	resp, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/member/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateValidation(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, http.MethodPost, "/api/v1/admin", map[string]any{
		"name":          "Alice",
		"email":         "not-an-email",
		"mobile_number": 9121234567,
		"location":      "Tehran",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)

	resp, body = s.do(t, http.MethodPost, "/api/v1/admin", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", body.Error.Code)

	resp, _ = s.do(t, http.MethodPost, "/api/v1/user", map[string]any{
		"name":          "Uma",
		"email":         testingutil.UniqueEmail("short"),
		"mobile_number": 9351112233,
		"location":      "Isfahan",
		"password":      "short",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestNamespacesAreIndependent(t *testing.T) {
	s := newTestServer(t)
	email := testingutil.UniqueEmail("shared")

	resp, _ := s.do(t, http.MethodPost, "/api/v1/member", memberPayload(email))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	payload := memberPayload(email)
	resp, _ = s.do(t, http.MethodPost, "/api/v1/admin", payload)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestExportEndpoint(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodGet, "/api/v1/admin/export", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPost, "/api/v1/admin", memberPayload(testingutil.UniqueEmail("export")))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/export", nil)
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, businessflow.ExportContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "admins.xlsx")

	content, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	xl, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer xl.Close()

	rows, err := xl.GetRows("admins")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestLoginAndPasswordReset(t *testing.T) {
	s := newTestServer(t)
	email := testingutil.UniqueEmail("auth")

	resp, _ := s.do(t, http.MethodPost, "/api/v1/user", map[string]any{
		"name":          "Uma",
		"email":         email,
		"mobile_number": 9351112233,
		"location":      "Isfahan",
		"password":      testingutil.TestPassword,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := s.do(t, http.MethodPost, "/api/v1/login/", map[string]any{"email": email, "password": testingutil.TestPassword})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Login Successful", body.Message)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &login))
	assert.NotEmpty(t, login.AccessToken)

	resp, body = s.do(t, http.MethodPost, "/api/v1/login/", map[string]any{"email": email, "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", body.Message)

	resp, body = s.do(t, http.MethodPost, "/api/v1/login/", map[string]any{"email": "ghost@example.com", "password": "whatever1"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", body.Message)

	resetPath := "/api/v1/password_reset/" + url.PathEscape(email)

	resp, body = s.do(t, http.MethodPut, resetPath, map[string]any{"new_password": "short"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Password must be at least 8 characters long", body.Message)

	resp, body = s.do(t, http.MethodPut, "/api/v1/password_reset/ghost@example.com", map[string]any{"new_password": "short"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User with the given email not found", body.Message)

	resp, body = s.do(t, http.MethodPut, resetPath, map[string]any{"new_password": "BrandNewPass1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Password reset successful", body.Message)

	resp, _ = s.do(t, http.MethodPost, "/api/v1/login/", map[string]any{"email": email, "password": "BrandNewPass1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOperationalEndpoints(t *testing.T) {
	s := newTestServer(t, func(cfg *config.ProductionConfig) {
		cfg.Deployment.CommitHash = "abc1234"
		cfg.Deployment.BuildTime = "2026-01-02T03:04:05Z"
	})

	resp, body := s.do(t, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, body.Success)
	var health map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &health))
	assert.Equal(t, "abc1234", health["commit"])
	assert.Equal(t, "2026-01-02T03:04:05Z", health["built_at"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsResp, err := s.app.Test(req)
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	assert.Equal(t, http.StatusOK, metricsResp.StatusCode)
	metrics, err := io.ReadAll(metricsResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "http_requests_total")

	req = httptest.NewRequest(http.MethodGet, "/api/v1/swagger.json", nil)
	docResp, err := s.app.Test(req)
	require.NoError(t, err)
	defer docResp.Body.Close()
	assert.Equal(t, http.StatusOK, docResp.StatusCode)
	doc, err := io.ReadAll(docResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "/api/v1/password_reset/{email}")

	resp, body = s.do(t, http.MethodGet, "/api/v1/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestAuthLimiterKeysOnForwardedClientIP(t *testing.T) {
	s := newTestServer(t, func(cfg *config.ProductionConfig) {
		cfg.Security.AuthRateLimit = 1
		cfg.Server.TrustedProxies = []string{"0.0.0.0/0"}
		cfg.Server.ProxyHeader = "X-Real-IP"
	})
	login := map[string]any{"email": "ghost@example.com", "password": "whatever1"}

	resp, _ := s.doWithHeaders(t, http.MethodPost, "/api/v1/login/", login, map[string]string{"X-Real-IP": "203.0.113.1"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := s.doWithHeaders(t, http.MethodPost, "/api/v1/login/", login, map[string]string{"X-Real-IP": "203.0.113.1"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body.Error.Code)

	resp, _ = s.doWithHeaders(t, http.MethodPost, "/api/v1/login/", login, map[string]string{"X-Real-IP": "198.51.100.7"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProxyHeaderIgnoredWithoutTrustedProxies(t *testing.T) {
	s := newTestServer(t, func(cfg *config.ProductionConfig) {
		cfg.Security.AuthRateLimit = 1
		cfg.Server.ProxyHeader = "X-Real-IP"
	})
	login := map[string]any{"email": "ghost@example.com", "password": "whatever1"}

	resp, _ := s.doWithHeaders(t, http.MethodPost, "/api/v1/login/", login, map[string]string{"X-Real-IP": "203.0.113.1"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.doWithHeaders(t, http.MethodPost, "/api/v1/login/", login, map[string]string{"X-Real-IP": "198.51.100.7"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestAccessLogFormat(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServerWithAccessLog(t, &buf, func(cfg *config.ProductionConfig) {
		cfg.Logging.EnableAccessLog = true
		cfg.Logging.Format = "text"
	})

	resp, _ := s.do(t, http.MethodGet, "/api/v1/member", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	line := buf.String()
	assert.Contains(t, line, "404 ")
	assert.Contains(t, line, "GET /api/v1/member")
	assert.False(t, strings.HasPrefix(line, "{"))
}
