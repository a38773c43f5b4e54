package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/askoura/todolists/internal/flash"
	"github.com/askoura/todolists/internal/models"
	"github.com/askoura/todolists/internal/store"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, username, hashedPassword string) (*models.User, error)
	UserByName(ctx context.Context, username string) (*models.User, error)
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users       UserStore
	sessions    Store
	rememberTTL time.Duration
}

func NewHandler(users UserStore, sessions Store, rememberTTL time.Duration) *Handler {
	return &Handler{users: users, sessions: sessions, rememberTTL: rememberTTL}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// RegisterPage serves the registration page data. Already-authenticated
// visitors are sent home.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if UserID(r.Context()) != 0 {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"page":  "register",
		"flash": flash.Pop(w, r),
	})
}

// Register creates an account, logs the new user in, and redirects home.
// A taken username flashes a warning and bounces back to the form.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if UserID(r.Context()) != 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if _, err := h.users.UserByName(r.Context(), username); err == nil {
		flash.Set(w, "warning", "That username is already taken.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	user, err := h.users.CreateUser(r.Context(), username, string(hashed))
	if err != nil {
		log.Printf("create user error: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	if err := h.startSession(w, r, user.ID, false); err != nil {
		http.Error(w, `{"error":"session creation failed"}`, http.StatusInternalServerError)
		return
	}
	flash.Set(w, "success", "Account created successfully!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LoginPage serves the login page data.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if UserID(r.Context()) != 0 {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"page":  "login",
		"flash": flash.Pop(w, r),
	})
}

// Login authenticates a user and creates a session. The failure message is
// the same whether the username or the password was wrong.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if UserID(r.Context()) != 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	remember := r.PostFormValue("remember") != ""

	user, err := h.users.UserByName(r.Context(), username)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		flash.Set(w, "danger", "Invalid username or password. Please try again.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := h.startSession(w, r, user.ID, remember); err != nil {
		http.Error(w, `{"error":"session creation failed"}`, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout destroys the current session and redirects home. The route is
// auth-gated, so anonymous calls never reach it.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		h.sessions.Delete(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// startSession creates a server-side session and sets the cookie. Remembered
// sessions get a persistent cookie and the long TTL; plain ones get a
// browser-session cookie and SessionTTL.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, userID int64, remember bool) error {
	ttl := SessionTTL
	maxAge := 0
	if remember {
		ttl = h.rememberTTL
		maxAge = int(ttl / time.Second)
	}

	token, err := h.sessions.Create(r.Context(), userID, ttl)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
	return nil
}
