package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avelinof/linkup-be/internal/models"
	"github.com/avelinof/linkup-be/internal/storage"
)

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	CreatePost(ctx context.Context, authorID, content, image string) (models.Post, error)
	GetFeed(userID string) ([]models.Post, error)
}

// PostService provides business logic for the post feed.
type PostService struct {
	db     *sql.DB
	images storage.ImageUploader
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB, images storage.ImageUploader) *PostService {
	return &PostService{db: db, images: images}
}

// CreatePost stores a new post. An image given as a data URI is uploaded to
// the image store first.
func (s *PostService) CreatePost(ctx context.Context, authorID, content, image string) (models.Post, error) {
	post := models.Post{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if image != "" {
		url, err := s.images.Upload(ctx, image)
		if err != nil {
			return models.Post{}, fmt.Errorf("upload post image: %w", err)
		}
		post.Image = url
	}

	// created_at is written from here rather than left to CURRENT_TIMESTAMP;
	// the SQLite default has second precision, which cannot order posts made
	// in quick succession.
	stmt, err := s.db.Prepare("INSERT INTO posts(id, author_id, content, image, created_at) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return models.Post{}, err
	}
	defer stmt.Close()

	if _, err := stmt.Exec(post.ID, post.AuthorID, post.Content, post.Image, post.CreatedAt); err != nil {
		return models.Post{}, err
	}

	row := s.db.QueryRow(`
		SELECT p.id, p.author_id, p.content, p.image, p.created_at,
		       u.name, u.username, u.profile_picture
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.id = ?`, post.ID)
	return scanPost(row)
}

// GetFeed returns the newest-first posts authored by the user and their
// connections.
func (s *PostService) GetFeed(userID string) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.author_id, p.content, p.image, p.created_at,
		       u.name, u.username, u.profile_picture
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.author_id = ?
		   OR p.author_id IN (SELECT connected_user_id FROM connections WHERE user_id = ?)
		ORDER BY p.created_at DESC, p.id`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func scanPost(scanner interface{ Scan(...interface{}) error }) (models.Post, error) {
	var post models.Post
	err := scanner.Scan(&post.ID, &post.AuthorID, &post.Content, &post.Image, &post.CreatedAt,
		&post.AuthorName, &post.AuthorUsername, &post.AuthorProfilePicture)
	return post, err
}
