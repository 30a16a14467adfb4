package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/avelinof/linkup-be/internal/auth"
	"github.com/avelinof/linkup-be/internal/models"
	"github.com/avelinof/linkup-be/internal/services"
)

// PostHandler handles feed requests.
type PostHandler struct {
	posts services.PostServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts services.PostServiceProvider) *PostHandler {
	return &PostHandler{posts: posts}
}

// CreatePayload defines the structure for post creation requests.
type CreatePayload struct {
	Content string `json:"content"`
	Image   string `json:"image"`
}

// Create stores a new post authored by the caller.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var payload CreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Content == "" {
		writeMessage(w, http.StatusBadRequest, "Content is required")
		return
	}

	post, err := h.posts.CreatePost(r.Context(), claims.UserID, payload.Content, payload.Image)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to create post")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// GetFeed returns the caller's feed, newest first.
func (h *PostHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	posts, err := h.posts.GetFeed(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load feed")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	writeJSON(w, http.StatusOK, posts)
}
