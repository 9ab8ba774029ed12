package allocation

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jmcardoso/payplan/internal/allocation"
	"github.com/jmcardoso/payplan/internal/money"
	"github.com/jmcardoso/payplan/internal/processor"
	"github.com/jmcardoso/payplan/internal/roster"
)

type amountDTO struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
	Currency  string `json:"currency"`
}

func toAmount(m money.Money) amountDTO {
	return amountDTO{Cents: m.Cents, Formatted: m.String(), Currency: m.Currency}
}

type suggestionDTO struct {
	Label   string    `json:"label"`
	Amount  amountDTO `json:"amount"`
	Clamped bool      `json:"clamped,omitempty"`
}

func toSuggestionList(suggestions []allocation.Suggestion) []suggestionDTO {
	resp := make([]suggestionDTO, len(suggestions))
	for i, s := range suggestions {
		resp[i] = suggestionDTO{
			Label:   s.Label,
			Amount:  toAmount(s.Amount),
			Clamped: s.Clamped,
		}
	}

	return resp
}

// participantDTO is one participant share as entered by the caller. Amounts
// are decimal strings; percentages are plain numbers 0-100, converted to
// basis points internally so fractional percentages stay exact.
type participantDTO struct {
	Name       string  `json:"name"`
	Email      string  `json:"email,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	Percentage float64 `json:"percentage,omitempty"`
	Amount     string  `json:"amount,omitempty"`
}

func toSplitInputs(participants []participantDTO, currency string) ([]allocation.SplitInput, error) {
	inputs := make([]allocation.SplitInput, len(participants))

	for i, p := range participants {
		in := allocation.SplitInput{
			Participant: roster.Participant{Name: p.Name, Email: p.Email, Phone: p.Phone},
			BasisPoints: int64(math.Round(p.Percentage * 100)),
		}

		if p.Amount != "" {
			amount, err := money.Parse(p.Amount, currency)
			if err != nil {
				return nil, fmt.Errorf("participant %d: invalid amount", i+1)
			}

			in.Amount = amount
		} else {
			in.Amount = money.Zero(currency)
		}

		inputs[i] = in
	}

	return inputs, nil
}

type entryDTO struct {
	Sequence int       `json:"sequence"`
	DueDate  time.Time `json:"due_date"`
	Amount   string    `json:"amount"`
	Status   string    `json:"status,omitempty"`
}

// planDTO is the wire form of a plan, used both for rendering generated
// plans and for accepting hand-edited plans back for validation/submission.
type planDTO struct {
	Kind    string           `json:"kind"`
	Mode    string           `json:"mode,omitempty"`
	Amount  string           `json:"amount,omitempty"`
	Splits  []participantDTO `json:"splits,omitempty"`
	Entries []entryDTO       `json:"entries,omitempty"`
}

func toPlan(dto planDTO, currency string) (*allocation.Plan, error) {
	plan := &allocation.Plan{
		Kind:        allocation.PlanKind(dto.Kind),
		Mode:        allocation.Mode(dto.Mode),
		GeneratedAt: time.Now(),
	}

	switch plan.Kind {
	case allocation.PlanSingle:
		amount, err := money.Parse(dto.Amount, currency)
		if err != nil {
			return nil, fmt.Errorf("invalid amount")
		}

		plan.Amount = amount
	case allocation.PlanSplit:
		inputs, err := toSplitInputs(dto.Splits, currency)
		if err != nil {
			return nil, err
		}

		plan.Splits = make([]allocation.PaymentSplit, len(inputs))
		for i, in := range inputs {
			plan.Splits[i] = allocation.PaymentSplit{
				Participant: in.Participant,
				Amount:      in.Amount,
				BasisPoints: in.BasisPoints,
			}
		}
	case allocation.PlanSchedule:
		plan.Entries = make([]allocation.ScheduleEntry, len(dto.Entries))
		for i, e := range dto.Entries {
			amount, err := money.Parse(e.Amount, currency)
			if err != nil {
				return nil, fmt.Errorf("entry %d: invalid amount", i+1)
			}

			plan.Entries[i] = allocation.ScheduleEntry{
				Sequence: e.Sequence,
				DueDate:  e.DueDate,
				Amount:   amount,
				Status:   allocation.EntryPending,
			}
		}
	default:
		return nil, fmt.Errorf("unknown plan kind %q", dto.Kind)
	}

	return plan, nil
}

type planResponse struct {
	Plan        planDTO        `json:"plan"`
	Total       int64          `json:"total_cents"`
	Warnings    []string       `json:"warnings,omitempty"`
	GeneratedAt time.Time      `json:"generated_at"`
	Validation  *validationDTO `json:"validation,omitempty"`
}

func toPlanResponse(plan *allocation.Plan) *planResponse {
	dto := planDTO{Kind: string(plan.Kind), Mode: string(plan.Mode)}

	switch plan.Kind {
	case allocation.PlanSplit:
		dto.Splits = make([]participantDTO, len(plan.Splits))
		for i, s := range plan.Splits {
			dto.Splits[i] = participantDTO{
				Name:       s.Participant.Name,
				Email:      s.Participant.Email,
				Phone:      s.Participant.Phone,
				Percentage: float64(s.BasisPoints) / 100,
				Amount:     s.Amount.String(),
			}
		}
	case allocation.PlanSchedule:
		dto.Entries = make([]entryDTO, len(plan.Entries))
		for i, e := range plan.Entries {
			dto.Entries[i] = entryDTO{
				Sequence: e.Sequence,
				DueDate:  e.DueDate,
				Amount:   e.Amount.String(),
				Status:   string(e.Status),
			}
		}
	default:
		dto.Amount = plan.Amount.String()
	}

	return &planResponse{
		Plan:        dto,
		Total:       plan.Total(),
		Warnings:    plan.Warnings,
		GeneratedAt: plan.GeneratedAt,
	}
}

type validationDTO struct {
	Valid    bool   `json:"valid"`
	Reason   string `json:"reason,omitempty"`
	Residual int64  `json:"residual_cents,omitempty"`
}

func toValidationResponse(err error) *validationDTO {
	if err == nil {
		return &validationDTO{Valid: true}
	}

	var verr *allocation.ValidationError
	if errors.As(err, &verr) {
		return &validationDTO{Valid: false, Reason: string(verr.Reason), Residual: verr.Residual}
	}

	return &validationDTO{Valid: false, Reason: err.Error()}
}

type receiptResponse struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func toReceiptResponse(r *processor.Receipt) receiptResponse {
	return receiptResponse{ID: r.ID, Status: r.Status, SubmittedAt: r.SubmittedAt}
}
