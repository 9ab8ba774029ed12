package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jmcardoso/payplan/internal/allocation"
)

// Rail identifies the payment rail the caller picked. The engine never
// interprets rails; they pass through to the processor opaquely.
type Rail string

const (
	RailCard   Rail = "card"
	RailBank   Rail = "bank"
	RailCrypto Rail = "crypto"
	RailWallet Rail = "wallet"
)

// ParseRail validates a rail identifier from user input.
func ParseRail(s string) (Rail, error) {
	switch Rail(s) {
	case RailCard, RailBank, RailCrypto, RailWallet:
		return Rail(s), nil
	}

	return "", fmt.Errorf("unknown payment rail %q", s)
}

// Submission is a validated allocation plan plus everything the processor
// needs to act on it.
type Submission struct {
	InvoiceID uuid.UUID
	Plan      *allocation.Plan
	Rail      Rail
	Memo      string
}

// Receipt is the processor's acknowledgement.
type Receipt struct {
	ID          string
	Status      string
	SubmittedAt time.Time
}

//go:generate mockgen -source=processor.go -destination=processor_mock.go -package=processor
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (*Receipt, error)
}
