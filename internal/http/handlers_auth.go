package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"expenses/internal/auth"
	"expenses/internal/core"
	"expenses/internal/storage"
)

type authViewModel struct {
	Error string
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	// Already logged in? Straight to the dashboard.
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if _, _, err := s.store.SessionUser(r.Context(), cookie.Value); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
	}
	s.render(w, r, "login.html", authViewModel{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, "login.html", authViewModel{Error: "Invalid form submission"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	if email == "" || password == "" {
		s.render(w, r, "login.html", authViewModel{Error: "Email and password are required"})
		return
	}

	user, hash, err := s.store.GetUserByEmail(r.Context(), email)
	// Run the password check even on a missing user so response timing
	// does not reveal which emails are registered.
	if err != nil {
		auth.CheckPassword(password, auth.DummyHash)
		s.render(w, r, "login.html", authViewModel{Error: "Invalid credentials"})
		return
	}
	if !auth.CheckPassword(password, hash) {
		s.render(w, r, "login.html", authViewModel{Error: "Invalid credentials"})
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		slog.ErrorContext(r.Context(), "Session token generation failed", "error", err)
		s.render(w, r, "login.html", authViewModel{Error: "An error occurred. Please try again."})
		return
	}

	expiresAt := time.Now().Add(s.sessionTTL)
	if err := s.store.CreateSession(r.Context(), token, user.ID, expiresAt); err != nil {
		slog.ErrorContext(r.Context(), "Session creation failed", "error", err, "user_id", user.ID)
		s.render(w, r, "login.html", authViewModel{Error: "An error occurred. Please try again."})
		return
	}

	s.setSessionCookie(w, token)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "register.html", authViewModel{})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, "register.html", authViewModel{Error: "Invalid form submission"})
		return
	}

	name := sanitizeInput(r.FormValue("name"))
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	candidate := core.User{Email: email, Name: name}
	if err := candidate.Validate(); err != nil {
		s.render(w, r, "register.html", authViewModel{Error: "Name and a valid email are required"})
		return
	}
	if len(password) < 8 {
		s.render(w, r, "register.html", authViewModel{Error: "Password must be at least 8 characters"})
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.ErrorContext(r.Context(), "Password hashing failed", "error", err)
		s.render(w, r, "register.html", authViewModel{Error: "An error occurred. Please try again."})
		return
	}

	if _, err := s.store.CreateUser(r.Context(), email, hash, name); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			s.render(w, r, "register.html", authViewModel{Error: "Email already registered"})
			return
		}
		slog.ErrorContext(r.Context(), "User creation failed", "error", err)
		s.render(w, r, "register.html", authViewModel{Error: "An error occurred. Please try again."})
		return
	}

	s.setFlash(w, "Registration successful! Please login.")
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := s.store.DeleteSession(r.Context(), cookie.Value); err != nil {
			slog.WarnContext(r.Context(), "Session deletion failed", "error", err)
		}
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}
