// Package events announces applied sync events on NATS so other services can
// react to new users and blocked sessions.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/bookshelf/internal/platform/id"
	"github.com/louisbranch/bookshelf/internal/platform/logging"
	"github.com/louisbranch/bookshelf/internal/services/shared/usersync"
	"github.com/nats-io/nats.go"
)

// Subjects published by the auth service.
const (
	SubjectUserCreated        = "usersync.user.created"
	SubjectSessionInvalidated = "usersync.session.invalidated"
)

// Metadata is carried by every event.
type Metadata struct {
	EventID   string `json:"event_id"`
	Source    string `json:"source"`
	Timestamp int64  `json:"timestamp"`
}

// UserCreated is published after a shadow user is stored.
type UserCreated struct {
	Metadata
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
}

// SessionInvalidated is published after a session is blocked.
type SessionInvalidated struct {
	Metadata
	SessionID string `json:"session_id"`
	ExpiresAt int64  `json:"expires_at"`
}

// conn is the subset of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
}

// Publisher writes JSON events to NATS core subjects.
type Publisher struct {
	conn   conn
	close  func()
	source string
	clock  func() time.Time
	newID  func() (string, error)
}

// Connect dials url and returns a publisher that stamps events with source.
func Connect(url, source string) (*Publisher, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("nats url is required")
	}
	nc, err := nats.Connect(url,
		nats.Name(source),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logging.Printf(context.Background(), "nats disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(*nats.Conn) {
			logging.Printf(context.Background(), "nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	p := newPublisher(nc, source)
	p.close = nc.Close
	return p, nil
}

func newPublisher(c conn, source string) *Publisher {
	return &Publisher{conn: c, source: source, clock: time.Now, newID: id.NewID}
}

// Close closes the NATS connection.
func (p *Publisher) Close() {
	if p != nil && p.close != nil {
		p.close()
	}
}

// PublishUserCreated announces a stored shadow user.
func (p *Publisher) PublishUserCreated(ctx context.Context, user usersync.UserCreated) error {
	if p == nil || p.conn == nil {
		return nil
	}
	meta, err := p.metadata()
	if err != nil {
		return err
	}
	return p.publish(ctx, SubjectUserCreated, UserCreated{Metadata: meta, UserID: user.ID, UserName: user.Name})
}

// PublishSessionInvalidated announces a blocked session.
func (p *Publisher) PublishSessionInvalidated(ctx context.Context, session usersync.SessionInvalidate, expiresAt time.Time) error {
	if p == nil || p.conn == nil {
		return nil
	}
	meta, err := p.metadata()
	if err != nil {
		return err
	}
	return p.publish(ctx, SubjectSessionInvalidated, SessionInvalidated{
		Metadata:  meta,
		SessionID: session.SessionID,
		ExpiresAt: expiresAt.UTC().Unix(),
	})
}

func (p *Publisher) metadata() (Metadata, error) {
	eventID, err := p.newID()
	if err != nil {
		return Metadata{}, fmt.Errorf("generate event id: %w", err)
	}
	return Metadata{EventID: eventID, Source: p.source, Timestamp: p.clock().UTC().Unix()}, nil
}

func (p *Publisher) publish(ctx context.Context, subject string, event any) error {
	if p == nil || p.conn == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}
