package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/devconnect/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// WithUser adds the caller to the request context for testing authenticated
// handlers. This bypasses the token middleware.
func WithUser(r *http.Request, userID primitive.ObjectID) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{ID: userID, TokenID: "test"})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates a request whose body is v encoded as JSON. A string
// v is sent verbatim, which lets tests post malformed bodies.
func NewJSONRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()

	var body []byte
	switch b := v.(type) {
	case nil:
	case string:
		body = []byte(b)
	default:
		var err error
		if body, err = json.Marshal(v); err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body %s)", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body %q does not contain %q", r.Body.String(), expected)
	}
}

// DecodeJSON decodes the response body into v.
func (r *ResponseRecorder) DecodeJSON(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", r.Body.String(), err)
	}
}

// TestJWTSecret signs tokens issued by NewSessionManager.
const TestJWTSecret = "test-jwt-secret-must-be-32-chars-long!!"

// NewSessionManager returns a SessionManager suitable for handler tests.
func NewSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	tm, err := auth.NewTokenManager(TestJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", time.Hour, false, tm, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}
