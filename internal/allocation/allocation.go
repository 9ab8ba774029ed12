package allocation

import (
	"time"

	"github.com/jmcardoso/payplan/internal/money"
	"github.com/jmcardoso/payplan/internal/roster"
)

// Mode selects which generator and validation rules are active.
type Mode string

const (
	ModePartial  Mode = "partial"
	ModeFull     Mode = "full"
	ModeCustom   Mode = "custom"
	ModeSplit    Mode = "split"
	ModeSchedule Mode = "schedule"
)

// PlanKind discriminates the shape of a plan's payload.
type PlanKind string

const (
	PlanSingle   PlanKind = "single"
	PlanSplit    PlanKind = "split"
	PlanSchedule PlanKind = "schedule"
)

// PaymentSplit is one participant's share of a split plan.
type PaymentSplit struct {
	Participant roster.Participant
	Amount      money.Money
	// BasisPoints holds the requested percentage share in basis points
	// (1/100th of a percent). Zero for equal and custom splits.
	BasisPoints int64
}

// EntryStatus is owned by the external ledger once a schedule is handed
// over; the engine only ever emits pending entries.
type EntryStatus string

const (
	EntryPending EntryStatus = "pending"
	EntryPaid    EntryStatus = "paid"
	EntryOverdue EntryStatus = "overdue"
)

// ScheduleEntry is one installment of a payment schedule.
type ScheduleEntry struct {
	Sequence int
	DueDate  time.Time
	Amount   money.Money
	Status   EntryStatus
}

// Plan is the engine's output: how an outstanding balance will be charged.
// A plan is immutable once generated; recomputation always produces a fresh
// plan rather than editing one in place.
type Plan struct {
	Kind        PlanKind
	Mode        Mode
	Amount      money.Money     // set when Kind == PlanSingle
	Splits      []PaymentSplit  // set when Kind == PlanSplit
	Entries     []ScheduleEntry // set when Kind == PlanSchedule
	Warnings    []string
	GeneratedAt time.Time
}

// Total returns the sum of all allocated amounts in minor units.
func (p *Plan) Total() int64 {
	switch p.Kind {
	case PlanSplit:
		var sum int64
		for _, s := range p.Splits {
			sum += s.Amount.Cents
		}

		return sum
	case PlanSchedule:
		var sum int64
		for _, e := range p.Entries {
			sum += e.Amount.Cents
		}

		return sum
	default:
		return p.Amount.Cents
	}
}

// RemainderPolicy controls which shares absorb leftover minor units when a
// balance does not divide evenly. Front-loading rounds early shares up;
// back-loading leaves the correction at the end.
type RemainderPolicy int

const (
	RemainderFrontLoaded RemainderPolicy = iota
	RemainderBackLoaded
)
