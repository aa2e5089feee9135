package usersync

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	usersyncv1 "github.com/louisbranch/bookshelf/api/gen/go/usersync/v1"
	apperrors "github.com/louisbranch/bookshelf/internal/platform/errors"
	"golang.org/x/text/unicode/norm"
)

const (
	// MaxNameLength bounds user names in runes after normalization.
	MaxNameLength = 64
	// MaxSessionIDLength bounds session identifiers in bytes.
	MaxSessionIDLength = 128
)

var (
	ErrEmptyName      = apperrors.New(apperrors.CodeUserEmptyName, "user name is required")
	ErrInvalidName    = apperrors.New(apperrors.CodeUserInvalidName, "user name must be at most 64 printable characters")
	ErrInvalidID      = apperrors.New(apperrors.CodeUserInvalidID, "user id must be positive")
	ErrEmptySessionID = apperrors.New(apperrors.CodeSessionEmptyID, "session id is required")
)

// UserCreated announces a user persisted by the origin service.
type UserCreated struct {
	ID   int64
	Name string
}

// SessionInvalidate asks the receiver to stop honoring a session.
type SessionInvalidate struct {
	SessionID string
}

// NormalizeName returns the natural key form of a user name: NFC with
// surrounding whitespace removed.
func NormalizeName(name string) (string, error) {
	if !utf8.ValidString(name) {
		return "", ErrInvalidName
	}
	name = strings.TrimSpace(norm.NFC.String(name))
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrInvalidName
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return "", ErrInvalidName
		}
	}
	return name, nil
}

// Normalize validates the event and returns it with a canonical name.
func (e UserCreated) Normalize() (UserCreated, error) {
	if e.ID <= 0 {
		return UserCreated{}, apperrors.WithMetadata(ErrInvalidID.Code, ErrInvalidID.Message, map[string]string{
			"user_id": strconv.FormatInt(e.ID, 10),
		})
	}
	name, err := NormalizeName(e.Name)
	if err != nil {
		return UserCreated{}, err
	}
	return UserCreated{ID: e.ID, Name: name}, nil
}

// Normalize validates the event and trims the session id.
func (e SessionInvalidate) Normalize() (SessionInvalidate, error) {
	id := strings.TrimSpace(e.SessionID)
	if id == "" {
		return SessionInvalidate{}, ErrEmptySessionID
	}
	if len(id) > MaxSessionIDLength {
		return SessionInvalidate{}, apperrors.New(apperrors.CodeSessionEmptyID, "session id is too long")
	}
	return SessionInvalidate{SessionID: id}, nil
}

// ToWire converts the event to its request message.
func (e UserCreated) ToWire() *usersyncv1.NewUser {
	return &usersyncv1.NewUser{Id: e.ID, Name: e.Name}
}

// UserCreatedFromWire converts a request message to an event. Validation is
// left to Normalize.
func UserCreatedFromWire(in *usersyncv1.NewUser) UserCreated {
	return UserCreated{ID: in.GetId(), Name: in.GetName()}
}

// ToWire converts the event to its request message.
func (e SessionInvalidate) ToWire() *usersyncv1.InvalidateToken {
	return &usersyncv1.InvalidateToken{SessionId: e.SessionID}
}

// SessionInvalidateFromWire converts a request message to an event.
func SessionInvalidateFromWire(in *usersyncv1.InvalidateToken) SessionInvalidate {
	return SessionInvalidate{SessionID: in.GetSessionId()}
}
