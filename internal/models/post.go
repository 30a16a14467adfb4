package models

import "time"

// Post is a feed entry authored by a user.
type Post struct {
	ID       string `json:"id"`
	AuthorID string `json:"authorId"`
	Content  string `json:"content"`
	Image    string `json:"image,omitempty"`

	// Author card fields joined on for feed responses.
	AuthorName           string `json:"authorName,omitempty"`
	AuthorUsername       string `json:"authorUsername,omitempty"`
	AuthorProfilePicture string `json:"authorProfilePicture,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
