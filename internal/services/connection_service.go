package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/avelinof/linkup-be/internal/models"
)

// ErrSelfConnection is returned when a user tries to connect with themselves.
var ErrSelfConnection = errors.New("cannot connect to yourself")

// ConnectionServiceProvider defines the interface for connection services.
type ConnectionServiceProvider interface {
	Connect(userID, otherUserID string) error
	GetConnections(userID string) ([]models.User, error)
}

// ConnectionService manages the symmetric connection graph between users.
type ConnectionService struct {
	db *sql.DB
}

// NewConnectionService creates a new ConnectionService.
func NewConnectionService(db *sql.DB) *ConnectionService {
	return &ConnectionService{db: db}
}

// Connect records a connection between two users. Both directions are written
// in one transaction so the relationship is symmetric by construction.
// Connecting to an existing connection is a no-op.
func (s *ConnectionService) Connect(userID, otherUserID string) error {
	if userID == otherUserID {
		return ErrSelfConnection
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insert = "INSERT OR IGNORE INTO connections(user_id, connected_user_id) VALUES(?, ?)"
	if _, err := tx.Exec(insert, userID, otherUserID); err != nil {
		return fmt.Errorf("record connection: %w", err)
	}
	if _, err := tx.Exec(insert, otherUserID, userID); err != nil {
		return fmt.Errorf("record reverse connection: %w", err)
	}

	return tx.Commit()
}

// GetConnections returns the public card fields of everyone connected to the
// given user.
func (s *ConnectionService) GetConnections(userID string) ([]models.User, error) {
	rows, err := s.db.Query(`
		SELECT u.id, u.name, u.username, u.profile_picture, u.headline
		FROM connections c
		JOIN users u ON u.id = c.connected_user_id
		WHERE c.user_id = ?
		ORDER BY c.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var connections []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Username, &user.ProfilePicture, &user.Headline); err != nil {
			return nil, err
		}
		connections = append(connections, user)
	}
	return connections, rows.Err()
}
