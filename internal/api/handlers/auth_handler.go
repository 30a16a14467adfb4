package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/avelinof/linkup-be/internal/auth"
	"github.com/avelinof/linkup-be/internal/database"
	"github.com/avelinof/linkup-be/internal/mailer"
	"github.com/avelinof/linkup-be/internal/services"
)

const minPasswordLength = 6

// AuthHandler handles signup, login, logout and current-user requests.
type AuthHandler struct {
	users        services.UserServiceProvider
	tokens       *auth.TokenManager
	outbox       *mailer.Outbox
	clientOrigin string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, tokens *auth.TokenManager, outbox *mailer.Outbox, clientOrigin string) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, outbox: outbox, clientOrigin: clientOrigin}
}

// SignupPayload defines the structure for registration requests.
type SignupPayload struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup handles new user registration.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.Name == "" || payload.Username == "" || payload.Email == "" || payload.Password == "" {
		writeMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}

	// Rejected before any hashing or persistence happens.
	if len(payload.Password) < minPasswordLength {
		writeMessage(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	user, err := h.users.CreateUser(payload.Name, payload.Username, payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrEmailTaken):
			writeMessage(w, http.StatusBadRequest, "Email already exists")
		case errors.Is(err, database.ErrUsernameTaken):
			writeMessage(w, http.StatusBadRequest, "Username already exists")
		default:
			log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register user")
			writeMessage(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate session token")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, h.tokens.SessionCookie(token))
	writeMessage(w, http.StatusCreated, "User registered successfully")

	// Best effort: the response is already committed, so an enqueue failure is
	// only logged.
	profileURL := h.clientOrigin + "/profile/" + user.Username
	if err := h.outbox.Enqueue(mailer.WelcomeEmail(user.Email, user.Name, profileURL)); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to enqueue welcome email")
	}
}

// Login handles user authentication. Unknown usernames and wrong passwords
// get the same answer.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.Authenticate(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeMessage(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Login lookup failed")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate session token")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, h.tokens.SessionCookie(token))
	writeMessage(w, http.StatusOK, "Logged in successfully")
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.tokens.ClearedSessionCookie())
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// GetMe returns the currently authenticated user.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := h.users.GetUserByID(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("User from token not found in DB")
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	user.PasswordHash = ""
	writeJSON(w, http.StatusOK, user)
}
