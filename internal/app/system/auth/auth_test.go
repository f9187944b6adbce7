package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/devconnect/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "test-jwt-secret-must-be-32-chars-long!!"

func newTestTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	return tm
}

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		newTestTokenManager(t),
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

// echoUser writes the caller's hex id, or "anonymous".
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		w.Write([]byte(u.ID.Hex()))
		return
	}
	w.Write([]byte("anonymous"))
})

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := newTestTokenManager(t)
	id := primitive.NewObjectID()

	token, err := tm.Issue(id)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	u, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if u.ID != id {
		t.Errorf("ID: got %s, want %s", u.ID.Hex(), id.Hex())
	}
	if u.TokenID == "" {
		t.Error("expected a token id")
	}
}

func TestTokenManager_UniqueTokenIDs(t *testing.T) {
	tm := newTestTokenManager(t)
	id := primitive.NewObjectID()

	a, _ := tm.Issue(id)
	b, _ := tm.Issue(id)
	ua, _ := tm.Parse(a)
	ub, _ := tm.Parse(b)
	if ua == nil || ub == nil || ua.TokenID == ub.TokenID {
		t.Error("expected distinct token ids for separate issues")
	}
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := newTestTokenManager(t)
	other, _ := auth.NewTokenManager("another-secret-that-is-32-chars-long!!", time.Hour)
	expired, _ := auth.NewTokenManager(testSecret, time.Nanosecond)

	foreign, _ := other.Issue(primitive.NewObjectID())
	stale, _ := expired.Issue(primitive.NewObjectID())
	time.Sleep(10 * time.Millisecond)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"wrong key", foreign},
		{"expired", stale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.Parse(tt.token)
			if !errors.Is(err, auth.ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestNewTokenManager_Validation(t *testing.T) {
	if _, err := auth.NewTokenManager("", time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
	if _, err := auth.NewTokenManager(testSecret, 0); err == nil {
		t.Error("expected error for zero ttl")
	}
}

func TestRequireSignedIn_NoUser_Returns401(t *testing.T) {
	called := false
	handler := auth.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/profile/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if called {
		t.Error("next handler must not run without a user")
	}
	if !strings.Contains(rec.Body.String(), `"message":"unauthorized"`) {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestRequireSignedIn_WithUser_Proceeds(t *testing.T) {
	id := primitive.NewObjectID()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: id})
	rec := httptest.NewRecorder()

	auth.RequireSignedIn(echoUser).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if rec.Body.String() != id.Hex() {
		t.Errorf("body: got %q, want %q", rec.Body.String(), id.Hex())
	}
}

func TestLoadSessionUser_TokenSources(t *testing.T) {
	sm := newTestSessionManager(t)
	tm := newTestTokenManager(t)
	id := primitive.NewObjectID()
	token, err := tm.Issue(id)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tests := []struct {
		name   string
		header string
		value  string
		want   string
	}{
		{"x-auth-token", "x-auth-token", token, id.Hex()},
		{"bearer", "Authorization", "Bearer " + token, id.Hex()},
		{"lowercase bearer", "Authorization", "bearer " + token, id.Hex()},
		{"invalid token", "x-auth-token", "bogus", "anonymous"},
		{"none", "", "", "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			sm.LoadSessionUser(echoUser).ServeHTTP(rec, req)
			if rec.Body.String() != tt.want {
				t.Errorf("got %q, want %q", rec.Body.String(), tt.want)
			}
		})
	}
}

func TestSignInSignOut_Cookie(t *testing.T) {
	sm := newTestSessionManager(t)
	id := primitive.NewObjectID()

	rec := httptest.NewRecorder()
	token, err := sm.SignIn(rec, httptest.NewRequest("POST", "/auth", nil), id)
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	// The cookie alone authenticates.
	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	sm.LoadSessionUser(echoUser).ServeHTTP(rec, req)
	if rec.Body.String() != id.Hex() {
		t.Errorf("cookie auth: got %q, want %q", rec.Body.String(), id.Hex())
	}

	rec = httptest.NewRecorder()
	if err := sm.SignOut(rec, req); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	var expired bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("expected SignOut to expire the session cookie")
	}
}

func TestSignIn_ReplacesCookieFromRotatedKey(t *testing.T) {
	old, err := auth.NewSessionManager("an-older-session-key-0123456789abcdef", "test-session", "",
		time.Hour, false, newTestTokenManager(t), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	rec := httptest.NewRecorder()
	if _, err := old.SignIn(rec, httptest.NewRequest("POST", "/auth", nil), primitive.NewObjectID()); err != nil {
		t.Fatalf("SignIn with old key failed: %v", err)
	}

	sm := newTestSessionManager(t)
	req := httptest.NewRequest("POST", "/auth", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	// The stale cookie does not authenticate under the new key.
	rec = httptest.NewRecorder()
	sm.LoadSessionUser(echoUser).ServeHTTP(rec, req)
	if rec.Body.String() != "anonymous" {
		t.Errorf("stale cookie: got %q, want anonymous", rec.Body.String())
	}

	id := primitive.NewObjectID()
	rec = httptest.NewRecorder()
	if _, err := sm.SignIn(rec, req, id); err != nil {
		t.Fatalf("SignIn over a stale cookie failed: %v", err)
	}
	req = httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	sm.LoadSessionUser(echoUser).ServeHTTP(rec, req)
	if rec.Body.String() != id.Hex() {
		t.Errorf("fresh cookie: got %q, want %q", rec.Body.String(), id.Hex())
	}
}

func TestNewSessionManager_Validation(t *testing.T) {
	tm := newTestTokenManager(t)
	if _, err := auth.NewSessionManager("", "s", "", time.Hour, false, tm, zap.NewNop()); err == nil {
		t.Error("expected error for empty session key")
	}
	if _, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "s", "", time.Hour, false, nil, zap.NewNop()); err == nil {
		t.Error("expected error for nil token manager")
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	user, ok := auth.CurrentUser(httptest.NewRequest("GET", "/", nil))
	if ok || user != nil {
		t.Error("expected no user in a bare request")
	}
}
