package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/bookshelf/internal/services/shared/usersync"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	msgs []published
	err  error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{subject: subject, data: data})
	return nil
}

func newTestPublisher(c conn) *Publisher {
	p := newPublisher(c, "auth")
	p.clock = func() time.Time { return time.Unix(1700000000, 0) }
	p.newID = func() (string, error) { return "evt-1", nil }
	return p
}

func TestPublishUserCreated(t *testing.T) {
	c := &fakeConn{}
	p := newTestPublisher(c)

	if err := p.PublishUserCreated(context.Background(), usersync.UserCreated{ID: 42, Name: "alice"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(c.msgs) != 1 || c.msgs[0].subject != SubjectUserCreated {
		t.Fatalf("messages = %+v", c.msgs)
	}
	var got UserCreated
	if err := json.Unmarshal(c.msgs[0].data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.UserID != 42 || got.UserName != "alice" || got.EventID != "evt-1" || got.Source != "auth" || got.Timestamp != 1700000000 {
		t.Fatalf("event = %+v", got)
	}
}

func TestPublishSessionInvalidated(t *testing.T) {
	c := &fakeConn{}
	p := newTestPublisher(c)
	expires := time.Unix(1700003600, 0)

	if err := p.PublishSessionInvalidated(context.Background(), usersync.SessionInvalidate{SessionID: "sess-123"}, expires); err != nil {
		t.Fatalf("publish: %v", err)
	}
	var got SessionInvalidated
	if err := json.Unmarshal(c.msgs[0].data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.msgs[0].subject != SubjectSessionInvalidated || got.SessionID != "sess-123" || got.ExpiresAt != 1700003600 {
		t.Fatalf("event = %+v on %s", got, c.msgs[0].subject)
	}
}

func TestPublishErrorsAreReturned(t *testing.T) {
	p := newTestPublisher(&fakeConn{err: errors.New("no responders")})
	if err := p.PublishUserCreated(context.Background(), usersync.UserCreated{ID: 1, Name: "a"}); err == nil {
		t.Fatal("expected publish error")
	}
}

func TestNilPublisherIsNoop(t *testing.T) {
	var p *Publisher
	p.Close()
	if err := p.publish(context.Background(), SubjectUserCreated, nil); err != nil {
		t.Fatalf("nil publisher: %v", err)
	}
}

func TestConnectRequiresURL(t *testing.T) {
	if _, err := Connect(" ", "auth"); err == nil {
		t.Fatal("expected error for empty url")
	}
}
