package allocation

import (
	"errors"
	"time"

	"github.com/jmcardoso/payplan/internal/invoice"
	"github.com/jmcardoso/payplan/internal/money"
)

// ErrNoPlan occurs when Submit is called before any plan was generated.
var ErrNoPlan = errors.New("no allocation plan in progress")

// Controller is the small state machine behind a payment form. It holds the
// invoice snapshot and the user's in-progress selections, and regenerates the
// candidate plan whenever the mode or a parameter changes. Every state is
// reachable from every other; only Submit is gated on validation, so the user
// can always navigate away from an invalid plan.
//
// A Controller is not safe for concurrent use; each interactive session owns
// its own.
type Controller struct {
	inv    *invoice.Invoice
	policy RemainderPolicy
	now    func() time.Time

	mode Mode
	plan *Plan

	amount       money.Money // held selection for partial and custom modes
	strategy     SplitStrategy
	splitInputs  []SplitInput
	cadence      Cadence
	installments int
	startDate    time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithRemainderPolicy overrides how leftover minor units are distributed.
func WithRemainderPolicy(policy RemainderPolicy) Option {
	return func(c *Controller) { c.policy = policy }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController starts a session for one invoice snapshot in partial mode.
func NewController(inv *invoice.Invoice, opts ...Option) *Controller {
	c := &Controller{
		inv:          inv,
		policy:       RemainderFrontLoaded,
		now:          time.Now,
		strategy:     SplitEqual,
		cadence:      CadenceMonthly,
		installments: 2,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.startDate = c.now()
	c.SetMode(ModePartial)

	return c
}

// Invoice returns the snapshot this session operates on.
func (c *Controller) Invoice() *invoice.Invoice { return c.inv }

// Mode returns the currently selected payment mode.
func (c *Controller) Mode() Mode { return c.mode }

// Plan returns the current candidate plan. The plan is replaced wholesale on
// every regeneration, never mutated, so callers may hold on to it.
func (c *Controller) Plan() *Plan { return c.plan }

// SetMode switches payment modes and regenerates the candidate plan from the
// held parameters. Switching away from an invalid plan is always allowed.
func (c *Controller) SetMode(mode Mode) {
	c.mode = mode
	c.regenerate()
}

// SetAmount holds the chosen amount for partial and custom modes.
func (c *Controller) SetAmount(amount money.Money) {
	c.amount = amount
	c.regenerate()
}

// SetSplit holds the split strategy and participant shares.
func (c *Controller) SetSplit(strategy SplitStrategy, inputs []SplitInput) {
	c.strategy = strategy
	c.splitInputs = inputs
	c.regenerate()
}

// SetSchedule holds the cadence and installment count.
func (c *Controller) SetSchedule(cadence Cadence, installments int) {
	c.cadence = cadence
	c.installments = installments
	c.regenerate()
}

// SetStartDate holds the schedule anchor date.
func (c *Controller) SetStartDate(start time.Time) {
	c.startDate = start
	c.regenerate()
}

func (c *Controller) regenerate() {
	now := c.now()
	remaining := c.inv.Remaining()

	switch c.mode {
	case ModeFull:
		c.plan = &Plan{Kind: PlanSingle, Mode: ModeFull, Amount: remaining, GeneratedAt: now}
	case ModeCustom:
		c.plan = &Plan{Kind: PlanSingle, Mode: ModeCustom, Amount: c.amount, GeneratedAt: now}
	case ModeSplit:
		c.plan = Split(remaining, c.strategy, c.splitInputs, c.policy, now)
	case ModeSchedule:
		c.plan = Schedule(remaining, c.cadence, c.installments, c.startDate, c.policy, now)
	default:
		amount := c.amount

		var warnings []string

		if amount.IsZero() {
			// Nothing chosen yet: default to the minimum preset.
			preset := SuggestedAmounts(remaining, c.inv.MinimumAmount)[0]
			amount = preset.Amount

			if preset.Clamped {
				warnings = append(warnings, "configured minimum exceeds the remaining balance; amount clamped")
			}
		}

		c.plan = &Plan{Kind: PlanSingle, Mode: ModePartial, Amount: amount, Warnings: warnings, GeneratedAt: now}
	}
}

// Validate runs the mode-aware validation rules against the current plan.
func (c *Controller) Validate() error {
	if c.plan == nil {
		return ErrNoPlan
	}

	return Validate(c.plan, c.inv)
}

// Submit finalizes the session. It returns the plan for the caller to hand
// to the payment processor together with the chosen rail, and clears the
// in-progress state. Submission is the only transition gated on validation.
func (c *Controller) Submit() (*Plan, error) {
	if c.plan == nil {
		return nil, ErrNoPlan
	}

	if err := Validate(c.plan, c.inv); err != nil {
		return nil, err
	}

	plan := c.plan
	c.plan = nil

	return plan, nil
}

// Cancel discards the in-progress plan unconditionally.
func (c *Controller) Cancel() {
	c.plan = nil
}
