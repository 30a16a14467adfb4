package mailer

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Outbox row statuses.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// OutboxEmail is a persisted email awaiting delivery.
type OutboxEmail struct {
	ID        string
	Email
	Status    string
	Attempts  int
	LastError string
	CreatedAt time.Time
	SentAt    *time.Time
}

// Outbox is a durable queue of outbound email. Handlers enqueue; the
// dispatcher delivers. An enqueued row survives a crash between the HTTP
// response and the actual send.
type Outbox struct {
	db *sql.DB
}

// NewOutbox creates an Outbox on the application database.
func NewOutbox(db *sql.DB) *Outbox {
	return &Outbox{db: db}
}

// Enqueue stores an email for later delivery.
func (o *Outbox) Enqueue(email Email) error {
	_, err := o.db.Exec(
		"INSERT INTO email_outbox(id, recipient, subject, body) VALUES(?, ?, ?, ?)",
		uuid.New().String(), email.Recipient, email.Subject, email.Body)
	return err
}

// Pending returns up to limit undelivered emails, oldest first.
func (o *Outbox) Pending(limit int) ([]OutboxEmail, error) {
	rows, err := o.db.Query(`
		SELECT id, recipient, subject, body, status, attempts, last_error, created_at
		FROM email_outbox WHERE status = ? ORDER BY created_at LIMIT ?`,
		StatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []OutboxEmail
	for rows.Next() {
		var e OutboxEmail
		if err := rows.Scan(&e.ID, &e.Recipient, &e.Subject, &e.Body,
			&e.Status, &e.Attempts, &e.LastError, &e.CreatedAt); err != nil {
			return nil, err
		}
		pending = append(pending, e)
	}
	return pending, rows.Err()
}

// MarkSent records a successful delivery.
func (o *Outbox) MarkSent(id string) error {
	_, err := o.db.Exec(
		"UPDATE email_outbox SET status = ?, sent_at = CURRENT_TIMESTAMP WHERE id = ?",
		StatusSent, id)
	return err
}

// MarkAttemptFailed bumps the attempt counter and records the error. Once the
// attempt cap is reached the row is marked failed and never retried.
func (o *Outbox) MarkAttemptFailed(id string, sendErr error, maxAttempts int) error {
	_, err := o.db.Exec(`
		UPDATE email_outbox
		SET attempts = attempts + 1,
		    last_error = ?,
		    status = CASE WHEN attempts + 1 >= ? THEN ? ELSE ? END
		WHERE id = ?`,
		sendErr.Error(), maxAttempts, StatusFailed, StatusPending, id)
	return err
}
