package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const tokenKey = "token"

// SessionManager carries the token in a signed cookie for browser clients
// and resolves the caller on every request.
type SessionManager struct {
	store  *sessions.CookieStore
	name   string
	tokens *TokenManager
	log    *zap.Logger
}

// NewSessionManager builds the cookie store. In production (secure=true),
// cookies are Secure + SameSite=None; for local dev over http://localhost use
// secure=false so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, ttl time.Duration, secure bool, tokens *TokenManager, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token manager is required")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, tokens: tokens, log: logger}, nil
}

// LoadSessionUser injects the caller into the context when the request
// carries a valid token (header first, then cookie). Invalid tokens are
// ignored here; RequireSignedIn decides whether the route needs a user.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := requestToken(r)
		if raw == "" {
			raw = m.cookieToken(r)
		}
		if raw != "" {
			u, err := m.tokens.Parse(raw)
			if err == nil {
				r = withUser(r, u)
			} else {
				m.log.Debug("rejected token", zap.String("path", r.URL.Path), zap.Error(err))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// SignIn issues a token for userID and stores it in the session cookie.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID) (string, error) {
	token, err := m.tokens.Issue(userID)
	if err != nil {
		return "", err
	}
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		// A cookie signed with a rotated key fails to decode; Get still
		// returns a fresh session, which the save below overwrites it with.
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			m.log.Info("replacing undecodable session cookie", zap.Error(err))
		} else {
			return "", fmt.Errorf("load session: %w", err)
		}
	}
	sess.Values[tokenKey] = token
	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return token, nil
}

// SignOut expires the session cookie.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, m.name)
	delete(sess.Values, tokenKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

func (m *SessionManager) cookieToken(r *http.Request) string {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			m.log.Debug("ignoring undecodable session cookie", zap.String("path", r.URL.Path))
		}
		return ""
	}
	t, _ := sess.Values[tokenKey].(string)
	return t
}
