package allocation

import (
	"time"

	"github.com/jmcardoso/payplan/internal/money"
	"github.com/jmcardoso/payplan/internal/roster"
)

// SplitStrategy selects how a balance is divided among participants.
type SplitStrategy string

const (
	SplitEqual      SplitStrategy = "equal"
	SplitPercentage SplitStrategy = "percentage"
	SplitCustom     SplitStrategy = "custom"
)

// SplitInput is one participant's requested share. Percentage shares are
// expressed in basis points; custom shares carry an explicit amount. Inputs
// may be partially filled while the user is still editing. The allocator
// never rejects; it always returns a structurally complete plan and leaves
// acceptance to the validator.
type SplitInput struct {
	Participant roster.Participant
	BasisPoints int64
	Amount      money.Money
}

// Split divides the remaining balance among participants according to the
// strategy and returns a fresh split plan.
func Split(remaining money.Money, strategy SplitStrategy, inputs []SplitInput, policy RemainderPolicy, now time.Time) *Plan {
	var splits []PaymentSplit

	switch strategy {
	case SplitPercentage:
		splits = splitByPercentage(remaining, inputs)
	case SplitCustom:
		splits = splitByAmounts(inputs)
	default:
		splits = splitEqually(remaining, inputs, policy)
	}

	return &Plan{
		Kind:        PlanSplit,
		Mode:        ModeSplit,
		Splits:      splits,
		GeneratedAt: now,
	}
}

// splitEqually gives every participant the integer share of the balance and
// distributes the leftover minor units one per participant, so the total
// reconciles without inventing a unit that belongs to no one.
func splitEqually(remaining money.Money, inputs []SplitInput, policy RemainderPolicy) []PaymentSplit {
	n := len(inputs)
	if n == 0 {
		return nil
	}

	base := remaining.Cents / int64(n)
	leftover := remaining.Cents % int64(n)

	splits := make([]PaymentSplit, n)
	for i, in := range inputs {
		cents := base
		if absorbsExtra(i, n, int(leftover), policy) {
			cents++
		}

		splits[i] = PaymentSplit{
			Participant: in.Participant,
			Amount:      money.New(cents, remaining.Currency),
		}
	}

	return splits
}

// absorbsExtra reports whether the share at index i receives one leftover
// minor unit, given r leftover units across n shares.
func absorbsExtra(i, n, r int, policy RemainderPolicy) bool {
	if policy == RemainderBackLoaded {
		return i >= n-r
	}

	return i < r
}

// splitByPercentage computes each share independently with a single rounding
// step, then recomputes the final share as the balance minus all others.
// Independent rounding of N percentages can drift by a few minor units in
// either direction; fixing one share makes the total exact by construction.
func splitByPercentage(remaining money.Money, inputs []SplitInput) []PaymentSplit {
	n := len(inputs)
	if n == 0 {
		return nil
	}

	splits := make([]PaymentSplit, n)

	var allocated int64

	for i, in := range inputs {
		amount := remaining.Percent(in.BasisPoints)
		if i == n-1 {
			amount = money.New(remaining.Cents-allocated, remaining.Currency)
		}

		allocated += amount.Cents
		splits[i] = PaymentSplit{
			Participant: in.Participant,
			Amount:      amount,
			BasisPoints: in.BasisPoints,
		}
	}

	return splits
}

// splitByAmounts takes the entered amounts as given. No silent correction
// happens here: a custom split that does not reconcile is the validator's
// call to reject, not the allocator's to repair.
func splitByAmounts(inputs []SplitInput) []PaymentSplit {
	splits := make([]PaymentSplit, len(inputs))
	for i, in := range inputs {
		splits[i] = PaymentSplit{
			Participant: in.Participant,
			Amount:      in.Amount,
		}
	}

	return splits
}
