package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// DefaultSessionTTL caps how long an admin session lives server-side.
const DefaultSessionTTL = 12 * time.Hour

// Session represents an authenticated admin session.
type Session struct {
	ID        string
	Admin     bool
	CreatedAt time.Time
}

// SessionStore is an in-memory expiring session store.
type SessionStore struct {
	cache *gocache.Cache
}

// NewSessionStore creates a session store whose entries expire after ttl.
// PRE: ttl > 0, otherwise DefaultSessionTTL is used
// POST: Expired sessions are purged in the background
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{cache: gocache.New(ttl, ttl/4)}
}

// Create stores a new admin session and returns the token.
// PRE: none
// POST: Session is stored, token is returned
func (ss *SessionStore) Create() (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.cache.SetDefault(token, Session{
		ID:        token,
		Admin:     true,
		CreatedAt: time.Now(),
	})
	return token, nil
}

// Get retrieves a session by token.
// PRE: token is non-empty
// POST: Returns session if present and not expired
func (ss *SessionStore) Get(token string) (Session, bool) {
	v, ok := ss.cache.Get(token)
	if !ok {
		return Session{}, false
	}
	session, ok := v.(Session)
	return session, ok
}

// Delete removes a session by token.
// PRE: token is non-empty
// POST: Session with given token is removed
func (ss *SessionStore) Delete(token string) {
	ss.cache.Delete(token)
}

// Count returns the number of live sessions.
func (ss *SessionStore) Count() int {
	return ss.cache.ItemCount()
}

// SessionCookieName is the admin session cookie.
const SessionCookieName = "aura_session"

// Auth returns middleware that extracts the session from the cookie and sets it in context.
// It does NOT block unauthenticated requests; use RequireAdmin or RequireAdminAPI for that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, ok := sessions.Get(cookie.Value); ok {
					r = r.WithContext(ContextWithSession(r.Context(), session))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin redirects requests without an admin session to the gate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdminAPI answers 401 for JSON requests without an admin session.
func RequireAdminAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionFromContext extracts the session from the request context.
func SessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// IsAdmin checks if the current request carries an admin session.
func IsAdmin(ctx context.Context) bool {
	session, ok := SessionFromContext(ctx)
	return ok && session.Admin
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SetSessionCookie sets the session cookie on the response.
// No MaxAge: the cookie ends with the browser session.
func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
