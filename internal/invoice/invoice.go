package invoice

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jmcardoso/payplan/internal/money"
)

var ErrNotFound = errors.New("invoice not found")

// Status represents the lifecycle state of an invoice.
type Status string

const (
	StatusOpen          Status = "open"
	StatusPartiallyPaid Status = "partially_paid"
	StatusPaid          Status = "paid"
	StatusOverdue       Status = "overdue"
)

// Invoice is the read model the allocation engine consumes. The engine never
// mutates an invoice; it works on a snapshot taken per allocation attempt.
type Invoice struct {
	ID            uuid.UUID
	Reference     string
	CustomerName  string
	TotalAmount   money.Money
	PaidAmount    money.Money
	Status        Status
	DueDate       time.Time
	AllowPartial  bool
	MinimumAmount *money.Money
	MaximumAmount *money.Money
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// Remaining returns the outstanding balance, total minus paid.
// It is always derived, never stored separately, so it cannot drift.
func (inv *Invoice) Remaining() money.Money {
	return money.New(inv.TotalAmount.Cents-inv.PaidAmount.Cents, inv.TotalAmount.Currency)
}
