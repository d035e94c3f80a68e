package domain

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	dErrors "bolsas/pkg/domain-errors"
)

// Typed identifiers. Each is a distinct type so a CallID can never be passed
// where a UserID is expected.
//
// Invariant: values produced by the Parse* constructors are never nil/zero.
type (
	UserID    uuid.UUID
	CallID    uuid.UUID
	OpinionID uuid.UUID
)

// ApplicationID is a ULID. ULIDs sort by creation time, which the list
// endpoint relies on for keyset pagination.
type ApplicationID ulid.ULID

const maxIDLength = 64

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" || strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}

// ParseUserID parses a user identifier at a trust boundary.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user ID")
	return UserID(u), err
}

// ParseCallID parses a call (edital) identifier.
func ParseCallID(s string) (CallID, error) {
	u, err := parseUUID(s, "call ID")
	return CallID(u), err
}

// ParseOpinionID parses an opinion identifier.
func ParseOpinionID(s string) (OpinionID, error) {
	u, err := parseUUID(s, "opinion ID")
	return OpinionID(u), err
}

// ParseApplicationID parses a ULID application identifier.
func ParseApplicationID(s string) (ApplicationID, error) {
	if strings.TrimSpace(s) == "" {
		return ApplicationID{}, dErrors.New(dErrors.CodeInvalidInput, "application ID cannot be empty")
	}
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return ApplicationID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid application ID")
	}
	if u.Compare(ulid.ULID{}) == 0 {
		return ApplicationID{}, dErrors.New(dErrors.CodeInvalidInput, "application ID cannot be zero")
	}
	return ApplicationID(u), nil
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewApplicationID returns a monotonic ULID stamped with now.
func NewApplicationID(now time.Time) ApplicationID {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ApplicationID(ulid.MustNew(ulid.Timestamp(now), entropy))
}

// NewOpinionID returns a random opinion identifier.
func NewOpinionID() OpinionID {
	return OpinionID(uuid.New())
}

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id CallID) String() string    { return uuid.UUID(id).String() }
func (id OpinionID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id CallID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id OpinionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id ApplicationID) String() string { return ulid.ULID(id).String() }

func (id ApplicationID) IsNil() bool { return ulid.ULID(id).Compare(ulid.ULID{}) == 0 }

// Time returns the creation instant encoded in the identifier.
func (id ApplicationID) Time() time.Time { return ulid.Time(ulid.ULID(id).Time()) }

// Compare orders application IDs lexicographically (and therefore by creation time).
func (id ApplicationID) Compare(other ApplicationID) int {
	return ulid.ULID(id).Compare(ulid.ULID(other))
}

func (id UserID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id CallID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id OpinionID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id ApplicationID) MarshalText() ([]byte, error) { return ulid.ULID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *CallID) UnmarshalText(b []byte) error {
	parsed, err := ParseCallID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ApplicationID) UnmarshalText(b []byte) error {
	parsed, err := ParseApplicationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
