package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

// ErrMessageNotFound is returned for an unknown message id
var ErrMessageNotFound = errors.New("message not found")

// Message is a contact form submission
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Body      string    `json:"body"`
	HashedIP  string    `json:"-"`
	Sent      bool      `json:"sent"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveMessage stores m and returns it with its id and creation time set
func (s *Store) SaveMessage(ctx context.Context, m Message) (Message, error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	m.CreatedAt = m.CreatedAt.UTC()
	m.ID = s.newID(m.CreatedAt)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, name, email, body, hashed_ip, sent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Body, m.HashedIP, m.Sent, formatTime(m.CreatedAt))
	if err != nil {
		return Message{}, errors.Wrap(err, "save message")
	}
	return m, nil
}

// MarkSent records that the message reached the inbox
func (s *Store) MarkSent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE messages SET sent = 1 WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "mark sent")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrap(ErrMessageNotFound, id)
	}
	return nil
}

// Message loads one message
func (s *Store) Message(ctx context.Context, id string) (Message, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, body, COALESCE(hashed_ip, ''), sent, created_at
		FROM messages WHERE id = ?`, id)
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Message{}, errors.Wrap(ErrMessageNotFound, id)
	}
	return m, err
}

// Messages lists the latest messages, newest first
func (s *Store) Messages(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, body, COALESCE(hashed_ip, ''), sent, created_at
		FROM messages
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query messages")
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, errors.Wrap(rows.Err(), "iterate messages")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(sc scanner) (Message, error) {
	var (
		m  Message
		ts string
	)
	if err := sc.Scan(&m.ID, &m.Name, &m.Email, &m.Body, &m.HashedIP, &m.Sent, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Message{}, err
		}
		return Message{}, errors.Wrap(err, "scan message")
	}
	m.CreatedAt = parseTime(ts)
	return m, nil
}
