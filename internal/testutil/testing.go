package testutil

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ory-session-page/internal/config"
	"ory-session-page/internal/identity"
	"ory-session-page/internal/middlewares"
	"ory-session-page/internal/mocks"
	"ory-session-page/internal/page"
	"ory-session-page/internal/proxy"

	"go.uber.org/mock/gomock"
)

// TestConfig is a validated configuration pointing at a provider that is never dialed.
func TestConfig() *config.Config {
	enabled := true
	return &config.Config{
		Server: config.DefaultServerConfig,
		Identity: config.IdentityConfig{
			PublicURL:        "http://kratos.test",
			ProxyEnabled:     &enabled,
			ProxyPath:        config.DefaultIdentityConfig.ProxyPath,
			SettingsPath:     config.DefaultIdentityConfig.SettingsPath,
			LoginPath:        config.DefaultIdentityConfig.LoginPath,
			RegistrationPath: config.DefaultIdentityConfig.RegistrationPath,
			Timeout:          config.DefaultIdentityConfig.Timeout,
		},
		Log:     config.DefaultLogConfig,
		CORS:    config.DefaultCORSConfig,
		Tracing: config.DefaultTracingConfig,
	}
}

// TestContext holds everything needed for testing
type TestContext struct {
	AppContext     *middlewares.AppContext
	Request        *http.Request
	Response       *httptest.ResponseRecorder
	MockController *gomock.Controller
	MockIdentity   *mocks.MockProvider
	LogHandler     *TestLogHandler
}

func NewTestContext(t *testing.T) *TestContext {
	return NewTestContextWithURL(t, http.MethodGet, "/")
}

// NewTestContextWithURL creates a complete test setup with a mocked identity provider and the real page renderer.
func NewTestContextWithURL(t *testing.T, method, url string) *TestContext {
	t.Helper()

	cfg := TestConfig()

	logHandler := NewTestLogHandler()
	logger := slog.New(logHandler)

	ctrl := gomock.NewController(t)
	mockIdentity := mocks.NewMockProvider(ctrl)

	renderer, err := page.NewRenderer(cfg.Identity)
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}

	identityProxy, err := proxy.New(cfg.Identity, logger)
	if err != nil {
		t.Fatalf("failed to build identity proxy: %v", err)
	}
	loader := page.NewLoader(mockIdentity, page.WithLinkRewriter(identityProxy.LocalURL))

	req := httptest.NewRequest(method, url, nil)
	rr := httptest.NewRecorder()

	appCtx := middlewares.NewAppContext(req.Context(), cfg, logger, loader, renderer)
	appCtx.Request = req
	appCtx.Response = rr

	return &TestContext{
		AppContext:     appCtx,
		Request:        req,
		Response:       rr,
		MockController: ctrl,
		MockIdentity:   mockIdentity,
		LogHandler:     logHandler,
	}
}

// Finish should be called at the end of tests to clean up mocks
func (tc *TestContext) Finish() {
	if tc.MockController != nil {
		tc.MockController.Finish()
	}
}

func (tc *TestContext) AssertLogContains(t *testing.T, level slog.Level, message string) {
	t.Helper()
	if !tc.LogHandler.ContainsMessage(level, message) {
		t.Errorf("Expected to find log entry with level %v containing message: %s", level, message)
	}
}

func (tc *TestContext) AssertLogCount(t *testing.T, level slog.Level, expectedCount int) {
	t.Helper()
	count := tc.LogHandler.CountByLevel(level)
	if count != expectedCount {
		t.Errorf("Expected %d log entries at level %v, got %d", expectedCount, level, count)
	}
}

// CallHandler executes a handler with the test context
func (tc *TestContext) CallHandler(handler middlewares.AppHandler) {
	handler(tc.AppContext)
}

// AssertStatus checks the HTTP status code
func (tc *TestContext) AssertStatus(t *testing.T, expectedStatus int) {
	t.Helper()
	if tc.Response.Code != expectedStatus {
		t.Errorf("Expected status %d, got %d", expectedStatus, tc.Response.Code)
	}
}

// AssertContentType checks the content type header
func (tc *TestContext) AssertContentType(t *testing.T, expectedType string) {
	t.Helper()
	if ct := tc.Response.Header().Get("Content-Type"); ct != expectedType {
		t.Errorf("Expected content type %s, got %s", expectedType, ct)
	}
}

func (tc *TestContext) GetResponseBody() string {
	body, _ := io.ReadAll(tc.Response.Result().Body)
	return string(body)
}

func (tc *TestContext) AssertBodyContains(t *testing.T, fragment string) {
	t.Helper()
	if body := tc.Response.Body.String(); !strings.Contains(body, fragment) {
		t.Errorf("Expected body to contain %q, got:\n%s", fragment, body)
	}
}

func (tc *TestContext) AssertBodyNotContains(t *testing.T, fragment string) {
	t.Helper()
	if body := tc.Response.Body.String(); strings.Contains(body, fragment) {
		t.Errorf("Expected body not to contain %q", fragment)
	}
}

// GetJSONResponse parses the response body as JSON
func (tc *TestContext) GetJSONResponse(t *testing.T) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(tc.Response.Body.Bytes(), &response); err != nil {
		t.Fatalf("Could not parse JSON response: %v", err)
	}
	return response
}

// AssertJSONString checks a specific string field in a JSON response
func (tc *TestContext) AssertJSONString(t *testing.T, field string, expected string) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	actual, exists := response[field]

	if !exists {
		t.Errorf("Field %s not found in response", field)
		return
	}

	actualString, ok := actual.(string)
	if !ok {
		t.Errorf("Expected %s to be a string, got %T", field, actual)
		return
	}

	if actualString != expected {
		t.Errorf("Expected %s to be %q, got %q", field, expected, actualString)
	}
}

// AssertJSONObject validates an object field with expected key-value pairs
func (tc *TestContext) AssertJSONObject(t *testing.T, field string, expectedFields map[string]interface{}) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	actual, exists := response[field]

	if !exists {
		t.Errorf("Field %s not found in response", field)
		return
	}

	actualObj, ok := actual.(map[string]interface{})
	if !ok {
		t.Errorf("Expected %s to be an object, got %T", field, actual)
		return
	}

	for key, expectedValue := range expectedFields {
		if actualValue, keyExists := actualObj[key]; !keyExists {
			t.Errorf("Expected field %s.%s to exist", field, key)
		} else if actualValue != expectedValue {
			t.Errorf("Expected %s.%s to be %v, got %v", field, key, expectedValue, actualValue)
		}
	}
}

func (tc *TestContext) AssertJSONFieldMissing(t *testing.T, field string) {
	t.Helper()
	if _, exists := tc.GetJSONResponse(t)[field]; exists {
		t.Errorf("Expected field %s to be absent", field)
	}
}

// WithConfig allows you to override the default config for specific tests
func (tc *TestContext) WithConfig(cfg *config.Config) *TestContext {
	tc.AppContext.Config = cfg
	return tc
}

// Helper to add headers
func (tc *TestContext) WithHeader(key, value string) *TestContext {
	tc.Request.Header.Set(key, value)
	return tc
}

// WithRequest allows you to set a custom request (useful for tests that don't use URL constructor)
func (tc *TestContext) WithRequest(req *http.Request) *TestContext {
	tc.Request = req
	tc.AppContext.Request = req
	tc.AppContext.Context = req.Context()
	return tc
}

// ExpectSession sets up ToSession to answer with the given session document.
func (tc *TestContext) ExpectSession(session string) *gomock.Call {
	return tc.MockIdentity.EXPECT().ToSession(gomock.Any(), gomock.Any()).Return(json.RawMessage(session), nil)
}

func (tc *TestContext) ExpectSessionError(err error) *gomock.Call {
	return tc.MockIdentity.EXPECT().ToSession(gomock.Any(), gomock.Any()).Return(nil, err)
}

func (tc *TestContext) ExpectLogoutFlow(logoutURL string) *gomock.Call {
	return tc.MockIdentity.EXPECT().CreateBrowserLogoutFlow(gomock.Any(), gomock.Any()).
		Return(&identity.LogoutFlow{LogoutURL: logoutURL, LogoutToken: "token"}, nil)
}

func (tc *TestContext) ExpectLogoutFlowError(err error) *gomock.Call {
	return tc.MockIdentity.EXPECT().CreateBrowserLogoutFlow(gomock.Any(), gomock.Any()).Return(nil, err)
}
