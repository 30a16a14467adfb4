package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/avelinof/linkup-be/internal/auth"
	"github.com/avelinof/linkup-be/internal/database"
	"github.com/avelinof/linkup-be/internal/models"
	"github.com/avelinof/linkup-be/internal/services"
)

// UserHandler handles profile and connection requests.
type UserHandler struct {
	users       services.UserServiceProvider
	connections services.ConnectionServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServiceProvider, connections services.ConnectionServiceProvider) *UserHandler {
	return &UserHandler{users: users, connections: connections}
}

// GetSuggestions returns up to 3 people the caller is not yet connected with.
func (h *UserHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	suggestions, err := h.users.GetSuggestions(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load connection suggestions")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if suggestions == nil {
		suggestions = []models.User{}
	}

	writeJSON(w, http.StatusOK, suggestions)
}

// GetPublicProfile returns the profile for the username in the route.
func (h *UserHandler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.users.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to load public profile")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user.PasswordHash = ""
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile applies the allow-listed profile fields from the request body
// to the caller's profile. Fields outside models.ProfileUpdate are ignored.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var update models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), claims.UserID, update)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrEmailTaken):
			writeMessage(w, http.StatusBadRequest, "Email already exists")
		case errors.Is(err, database.ErrUsernameTaken):
			writeMessage(w, http.StatusBadRequest, "Username already exists")
		case errors.Is(err, services.ErrNotFound):
			writeMessage(w, http.StatusNotFound, "User not found")
		default:
			log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to update profile")
			writeMessage(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	user.PasswordHash = ""
	writeJSON(w, http.StatusOK, user)
}

// Connect creates a symmetric connection between the caller and the user in
// the route.
func (h *UserHandler) Connect(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	username := chi.URLParam(r, "username")
	other, err := h.users.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to resolve connection target")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.connections.Connect(claims.UserID, other.ID); err != nil {
		if errors.Is(err, services.ErrSelfConnection) {
			writeMessage(w, http.StatusBadRequest, "Cannot connect to yourself")
			return
		}
		log.Error().Err(err).Str("user_id", claims.UserID).Str("other_id", other.ID).Msg("Failed to create connection")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeMessage(w, http.StatusOK, "Connected successfully")
}

// GetConnections returns the caller's connections.
func (h *UserHandler) GetConnections(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	connections, err := h.connections.GetConnections(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load connections")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if connections == nil {
		connections = []models.User{}
	}

	writeJSON(w, http.StatusOK, connections)
}
