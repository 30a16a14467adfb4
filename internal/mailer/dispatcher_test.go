package mailer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelinof/linkup-be/internal/database"
)

type fakeMailer struct {
	sent []Email
	err  error
}

func (m *fakeMailer) Send(_ context.Context, email Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func newTestOutbox(t *testing.T) *Outbox {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "mail.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewOutbox(db)
}

func TestDispatcherDeliversPending(t *testing.T) {
	outbox := newTestOutbox(t)
	mail := &fakeMailer{}
	dispatcher, err := NewDispatcher(outbox, mail, "@every 1m", 3)
	require.NoError(t, err)

	require.NoError(t, outbox.Enqueue(WelcomeEmail("a@x.com", "Ann", "http://localhost:5173/profile/ann1")))
	require.NoError(t, outbox.Enqueue(WelcomeEmail("b@x.com", "Bob", "http://localhost:5173/profile/bob1")))

	dispatcher.Flush()

	require.Len(t, mail.sent, 2)
	assert.Equal(t, "a@x.com", mail.sent[0].Recipient)
	assert.Contains(t, mail.sent[0].Body, "http://localhost:5173/profile/ann1")

	pending, err := outbox.Pending(10)
	require.NoError(t, err)
	assert.Empty(t, pending, "delivered rows leave the pending set")

	// A second flush does not resend anything.
	dispatcher.Flush()
	assert.Len(t, mail.sent, 2)
}

func TestDispatcherRetriesUntilAttemptCap(t *testing.T) {
	outbox := newTestOutbox(t)
	mail := &fakeMailer{err: errors.New("mail API down")}
	dispatcher, err := NewDispatcher(outbox, mail, "@every 1m", 2)
	require.NoError(t, err)

	require.NoError(t, outbox.Enqueue(WelcomeEmail("a@x.com", "Ann", "url")))

	dispatcher.Flush()
	pending, err := outbox.Pending(10)
	require.NoError(t, err)
	require.Len(t, pending, 1, "first failure keeps the row pending")
	assert.Equal(t, 1, pending[0].Attempts)
	assert.Equal(t, "mail API down", pending[0].LastError)

	dispatcher.Flush()
	pending, err = outbox.Pending(10)
	require.NoError(t, err)
	assert.Empty(t, pending, "the attempt cap marks the row failed, not pending")

	// Delivery recovering afterwards does not resurrect failed rows.
	mail.err = nil
	dispatcher.Flush()
	assert.Empty(t, mail.sent)
}

func TestNewDispatcherRejectsBadSchedule(t *testing.T) {
	_, err := NewDispatcher(newTestOutbox(t), &fakeMailer{}, "not a schedule", 3)
	assert.Error(t, err)
}
