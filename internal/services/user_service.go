package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/avelinof/linkup-be/internal/database"
	"github.com/avelinof/linkup-be/internal/models"
	"github.com/avelinof/linkup-be/internal/storage"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials covers both an unknown username and a wrong password,
// so login responses cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(name, username, email, password string) (models.User, error)
	Authenticate(username, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
	GetUserByUsername(username string) (models.User, error)
	GetSuggestions(userID string) ([]models.User, error)
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (models.User, error)
}

// UserService provides business logic for accounts and profiles.
type UserService struct {
	db     *sql.DB
	images storage.ImageUploader
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, images storage.ImageUploader) *UserService {
	return &UserService{db: db, images: images}
}

const userColumns = `id, name, username, email, password_hash, headline, about, location,
	profile_picture, banner_img, skills_json, experience_json, education_json,
	created_at, updated_at`

// scanUser is a helper to scan a full user row from a row or rows object.
func scanUser(scanner interface{ Scan(...interface{}) error }) (models.User, error) {
	var user models.User
	err := scanner.Scan(
		&user.ID, &user.Name, &user.Username, &user.Email, &user.PasswordHash,
		&user.Headline, &user.About, &user.Location,
		&user.ProfilePicture, &user.BannerImg,
		&user.SkillsJSON, &user.ExperienceJSON, &user.EducationJSON,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return user, err
	}
	user.PrepareForAPI()
	return user, nil
}

// CreateUser registers a new account. Username and email uniqueness is
// enforced by the database's unique indexes in the INSERT itself; violations
// come back as database.ErrUsernameTaken or database.ErrEmailTaken.
func (s *UserService) CreateUser(name, username, email, password string) (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	user.PrepareForSave()

	stmt, err := s.db.Prepare(`INSERT INTO users(id, name, username, email, password_hash,
		skills_json, experience_json, education_json) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Name, user.Username, user.Email, user.PasswordHash,
		user.SkillsJSON, user.ExperienceJSON, user.EducationJSON)
	if err != nil {
		return models.User{}, database.MapConstraintError(err)
	}

	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials. An unknown username and a wrong
// password return the same error.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE username = ?", username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByUsername retrieves a single user by their username.
func (s *UserService) GetUserByUsername(username string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE username = ?", username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetSuggestions returns up to 3 users the given user might want to connect
// with, excluding the user themselves and anyone already connected. No
// ranking is applied beyond the table's natural order.
func (s *UserService) GetSuggestions(userID string) ([]models.User, error) {
	rows, err := s.db.Query(`
		SELECT id, name, username, profile_picture, headline FROM users
		WHERE id != ?
		  AND id NOT IN (SELECT connected_user_id FROM connections WHERE user_id = ?)
		LIMIT 3`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suggestions []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Username, &user.ProfilePicture, &user.Headline); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, user)
	}
	return suggestions, rows.Err()
}

// UpdateProfile merges the allow-listed fields of update into the user's
// profile. Image fields given as data URIs are uploaded to the image store and
// replaced with the resulting URL. A username change that collides with
// another account fails on the unique index; updating a profile with its own
// current username never conflicts with itself.
func (s *UserService) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return models.User{}, err
	}

	applyString(&user.Name, update.Name)
	applyString(&user.Username, update.Username)
	applyString(&user.Headline, update.Headline)
	applyString(&user.About, update.About)
	applyString(&user.Location, update.Location)
	if update.Skills != nil {
		user.Skills = update.Skills
	}
	if update.Experience != nil {
		user.Experience = update.Experience
	}
	if update.Education != nil {
		user.Education = update.Education
	}

	if update.ProfilePicture != nil && *update.ProfilePicture != "" {
		url, err := s.images.Upload(ctx, *update.ProfilePicture)
		if err != nil {
			return models.User{}, fmt.Errorf("upload profile picture: %w", err)
		}
		user.ProfilePicture = url
	}
	if update.BannerImg != nil && *update.BannerImg != "" {
		url, err := s.images.Upload(ctx, *update.BannerImg)
		if err != nil {
			return models.User{}, fmt.Errorf("upload banner image: %w", err)
		}
		user.BannerImg = url
	}

	user.PrepareForSave()

	stmt, err := s.db.Prepare(`UPDATE users SET name = ?, username = ?, headline = ?, about = ?,
		location = ?, profile_picture = ?, banner_img = ?,
		skills_json = ?, experience_json = ?, education_json = ?,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`)
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.Name, user.Username, user.Headline, user.About,
		user.Location, user.ProfilePicture, user.BannerImg,
		user.SkillsJSON, user.ExperienceJSON, user.EducationJSON, id)
	if err != nil {
		return models.User{}, database.MapConstraintError(err)
	}

	return s.GetUserByID(id)
}

// applyString overwrites dst when the client submitted a non-empty value.
func applyString(dst *string, src *string) {
	if src != nil && *src != "" {
		*dst = *src
	}
}
