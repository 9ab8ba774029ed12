package allocation

import "github.com/jmcardoso/payplan/internal/money"

// defaultMinimumBps is the fallback minimum payment when an invoice does not
// configure one: 10% of the remaining balance.
const defaultMinimumBps = 1000

// Suggestion is one canonical partial-payment preset.
type Suggestion struct {
	Label   string
	Amount  money.Money
	Clamped bool
}

// SuggestedAmounts derives the partial-payment presets for a balance:
// a minimum plus 25/50/75 percent entries. The minimum comes from the
// invoice configuration when present, otherwise 10% of the balance.
//
// A configured minimum above the balance itself is a misconfiguration;
// the preset is clamped to the balance and flagged rather than dropped.
func SuggestedAmounts(remaining money.Money, minimum *money.Money) []Suggestion {
	minAmount := remaining.Percent(defaultMinimumBps)
	if minimum != nil {
		minAmount = *minimum
	}

	suggestions := []Suggestion{
		{Label: "Minimum", Amount: minAmount},
		{Label: "25%", Amount: remaining.Percent(2500)},
		{Label: "50%", Amount: remaining.Percent(5000)},
		{Label: "75%", Amount: remaining.Percent(7500)},
	}

	for i := range suggestions {
		if suggestions[i].Amount.GreaterThan(remaining) {
			suggestions[i].Amount = remaining
			suggestions[i].Clamped = true
		}
	}

	return suggestions
}
