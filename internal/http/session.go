package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"expenses/internal/core"
)

// Context key type to avoid collisions.
type contextKey string

// userContextKey is the context key for the authenticated user.
const userContextKey contextKey = "user"

const (
	sessionCookieName = "session"
	flashCookieName   = "flash"
)

// userFrom retrieves the authenticated user from the request context.
func userFrom(r *http.Request) *core.User {
	if user, ok := r.Context().Value(userContextKey).(*core.User); ok {
		return user
	}
	return nil
}

// requireSession resolves the session cookie to a user and stores the user
// in the request context. It also implements rolling sessions: a session
// past the halfway point of its lifetime is automatically renewed.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.resolveSession(w, r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// requireSessionJSON is requireSession for API endpoints: unauthenticated
// requests get a 401 JSON body instead of a redirect.
func (s *Server) requireSessionJSON(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.resolveSession(w, r)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Not logged in"})
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) resolveSession(w http.ResponseWriter, r *http.Request) (*core.User, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	user, expiresAt, err := s.store.SessionUser(r.Context(), cookie.Value)
	if err != nil {
		// Invalid or expired session, clear the cookie
		s.clearSessionCookie(w)
		return nil, false
	}

	// Rolling session: renew if past halfway point. This keeps active
	// users logged in while still expiring inactive sessions.
	now := time.Now()
	if expiresAt.Sub(now) < s.sessionTTL/2 {
		newExpiresAt := now.Add(s.sessionTTL)
		if err := s.store.RenewSession(r.Context(), cookie.Value, newExpiresAt); err == nil {
			s.setSessionCookie(w, cookie.Value)
		} else {
			slog.WarnContext(r.Context(), "Session renewal failed", "error", err)
		}
	}

	return user, true
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// setFlash stores a one-shot notice shown on the next page render. The
// value is base64-encoded so punctuation survives the cookie format.
func (s *Server) setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.URLEncoding.EncodeToString([]byte(msg)),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the flash notice, if any.
func (s *Server) popFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	decoded, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}
	return string(decoded)
}
