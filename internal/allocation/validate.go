package allocation

import (
	"fmt"
	"time"

	"github.com/jmcardoso/payplan/internal/invoice"
)

// Reason is the closed set of validation failures. Reasons are data for the
// caller to map onto user-facing messages; the engine supplies no copy.
type Reason string

const (
	ReasonBelowMinimum          Reason = "below_minimum"
	ReasonAboveMaximum          Reason = "above_maximum"
	ReasonExceedsBalance        Reason = "exceeds_balance"
	ReasonSplitMismatch         Reason = "split_mismatch"
	ReasonScheduleMismatch      Reason = "schedule_mismatch"
	ReasonIncompleteParticipant Reason = "incomplete_participant"
	ReasonInvalidDueDate        Reason = "invalid_due_date"
)

// ValidationError reports why a plan is not ready to submit. For
// reconciliation failures Residual carries the signed difference in minor
// units between the plan total and the balance, so the caller can render
// "off by 0.03" rather than a generic message.
type ValidationError struct {
	Reason   Reason
	Residual int64
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonSplitMismatch, ReasonScheduleMismatch:
		return fmt.Sprintf("allocation invalid: %s (residual %d minor units)", e.Reason, e.Residual)
	default:
		return fmt.Sprintf("allocation invalid: %s", e.Reason)
	}
}

// Validate checks a candidate plan against the invoice snapshot and returns
// nil when the plan is ready to submit. Rules are applied in order and
// short-circuit on the first failure. Validation is deterministic and never
// corrects a plan; correction, where wanted, is the allocator's job.
//
// A negative remaining balance signals a bug in the upstream ledger, not bad
// user input, and panics rather than being silently carried forward.
func Validate(plan *Plan, inv *invoice.Invoice) error {
	remaining := inv.Remaining()
	if remaining.IsNegative() {
		panic(fmt.Sprintf("allocation: negative remaining balance %s on invoice %s", remaining, inv.ID))
	}

	switch plan.Kind {
	case PlanSingle:
		return validateSingle(plan, inv)
	case PlanSplit:
		if err := validateReconciliation(plan, remaining.Cents, ReasonSplitMismatch); err != nil {
			return err
		}

		return validateParticipants(plan)
	case PlanSchedule:
		if err := validateReconciliation(plan, remaining.Cents, ReasonScheduleMismatch); err != nil {
			return err
		}

		return validateDueDates(plan)
	}

	return fmt.Errorf("unknown plan kind %q", plan.Kind)
}

func validateSingle(plan *Plan, inv *invoice.Invoice) error {
	amount := plan.Amount

	// A zero or negative amount can never clear the implicit one-cent floor.
	if amount.Cents <= 0 {
		return &ValidationError{Reason: ReasonBelowMinimum}
	}

	if inv.MinimumAmount != nil && amount.LessThan(*inv.MinimumAmount) {
		return &ValidationError{Reason: ReasonBelowMinimum}
	}

	if inv.MaximumAmount != nil && amount.GreaterThan(*inv.MaximumAmount) {
		return &ValidationError{Reason: ReasonAboveMaximum}
	}

	if amount.GreaterThan(inv.Remaining()) {
		return &ValidationError{Reason: ReasonExceedsBalance}
	}

	return nil
}

// validateReconciliation demands an exact integer match, zero tolerance.
// Money is integer-backed, so any residual is a real discrepancy and not
// float noise.
func validateReconciliation(plan *Plan, remainingCents int64, reason Reason) error {
	if residual := plan.Total() - remainingCents; residual != 0 {
		return &ValidationError{Reason: reason, Residual: residual}
	}

	return nil
}

func validateParticipants(plan *Plan) error {
	if len(plan.Splits) < 2 {
		return &ValidationError{Reason: ReasonIncompleteParticipant}
	}

	for _, s := range plan.Splits {
		if !s.Participant.HasContact() {
			return &ValidationError{Reason: ReasonIncompleteParticipant}
		}
	}

	return nil
}

// validateDueDates requires strictly increasing due dates, none in the past.
// "Today" is taken from the plan's generation time so validation stays a
// pure function of its inputs.
func validateDueDates(plan *Plan) error {
	if len(plan.Entries) < 2 {
		return &ValidationError{Reason: ReasonInvalidDueDate}
	}

	today := startOfDay(plan.GeneratedAt)

	prev := today.AddDate(0, 0, -1)
	for _, e := range plan.Entries {
		due := startOfDay(e.DueDate)
		if due.Before(today) || !due.After(prev) {
			return &ValidationError{Reason: ReasonInvalidDueDate}
		}

		prev = due
	}

	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
