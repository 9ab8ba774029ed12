package roster

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("participant not found")

// Participant is one person a payment can be split with.
type Participant struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// HasContact reports whether the participant carries enough identifying
// information (a name, or an email or phone to reach them) to appear in a
// submitted split.
func (p Participant) HasContact() bool {
	return p.Name != "" || p.Email != "" || p.Phone != ""
}

// Reachable reports whether the participant can actually be contacted about
// their share. A bare name is enough to appear in a split, but not enough to
// be worth saving to the roster.
func (p Participant) Reachable() bool {
	return p.Email != "" || p.Phone != ""
}
