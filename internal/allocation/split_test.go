package allocation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcardoso/payplan/internal/allocation"
	"github.com/jmcardoso/payplan/internal/money"
	"github.com/jmcardoso/payplan/internal/roster"
)

func participants(n int) []allocation.SplitInput {
	inputs := make([]allocation.SplitInput, n)
	for i := range inputs {
		inputs[i] = allocation.SplitInput{
			Participant: roster.Participant{Name: string(rune('A' + i))},
		}
	}

	return inputs
}

func splitCents(plan *allocation.Plan) []int64 {
	cents := make([]int64, len(plan.Splits))
	for i, s := range plan.Splits {
		cents[i] = s.Amount.Cents
	}

	return cents
}

func TestSplit_Equal(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		cents     int64
		n         int
		policy    allocation.RemainderPolicy
		wantCents []int64
	}

	tests := []testCase{
		{
			// First participant absorbs the extra cent.
			name:      "HundredAcrossThree",
			cents:     10000,
			n:         3,
			policy:    allocation.RemainderFrontLoaded,
			wantCents: []int64{3334, 3333, 3333},
		},
		{
			name:      "EvenDivision",
			cents:     10000,
			n:         4,
			policy:    allocation.RemainderFrontLoaded,
			wantCents: []int64{2500, 2500, 2500, 2500},
		},
		{
			name:      "TwoLeftoverCents",
			cents:     1001,
			n:         3,
			policy:    allocation.RemainderFrontLoaded,
			wantCents: []int64{334, 334, 333},
		},
		{
			name:      "BackLoadedPolicy",
			cents:     10000,
			n:         3,
			policy:    allocation.RemainderBackLoaded,
			wantCents: []int64{3333, 3333, 3334},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remaining := money.New(tt.cents, "EUR")
			plan := allocation.Split(remaining, allocation.SplitEqual, participants(tt.n), tt.policy, now)

			assert.Equal(t, allocation.PlanSplit, plan.Kind)
			assert.Equal(t, tt.wantCents, splitCents(plan))
			assert.Equal(t, tt.cents, plan.Total())
		})
	}
}

func TestSplit_Equal_AlwaysReconciles(t *testing.T) {
	now := time.Now()

	// Amounts chosen so almost no participant count divides them evenly.
	amounts := []int64{10001, 10003, 9999, 101, 12345, 777}

	for _, cents := range amounts {
		for n := 2; n <= 10; n++ {
			remaining := money.New(cents, "EUR")
			plan := allocation.Split(remaining, allocation.SplitEqual, participants(n), allocation.RemainderFrontLoaded, now)

			require.Len(t, plan.Splits, n)
			assert.Equal(t, cents, plan.Total(), "cents=%d n=%d", cents, n)

			// No share deviates from the base by more than one minor unit.
			base := cents / int64(n)
			for _, s := range plan.Splits {
				assert.Contains(t, []int64{base, base + 1}, s.Amount.Cents)
			}
		}
	}
}

func TestSplit_Percentage(t *testing.T) {
	now := time.Now()
	remaining := money.New(10000, "EUR")

	inputs := participants(3)
	inputs[0].BasisPoints = 3000
	inputs[1].BasisPoints = 3000
	inputs[2].BasisPoints = 4000

	plan := allocation.Split(remaining, allocation.SplitPercentage, inputs, allocation.RemainderFrontLoaded, now)

	assert.Equal(t, []int64{3000, 3000, 4000}, splitCents(plan))
	assert.Equal(t, int64(10000), plan.Total())
	assert.Equal(t, int64(3000), plan.Splits[0].BasisPoints)
}

func TestSplit_Percentage_LastShareAbsorbsResidual(t *testing.T) {
	now := time.Now()

	// Three thirds of 100.00: independent rounding gives 33.33 each, leaving
	// one cent. The final share is recomputed to 33.34 so the sum is exact.
	remaining := money.New(10000, "EUR")

	inputs := participants(3)
	for i := range inputs {
		inputs[i].BasisPoints = 3333
	}
	inputs[2].BasisPoints = 3334

	plan := allocation.Split(remaining, allocation.SplitPercentage, inputs, allocation.RemainderFrontLoaded, now)

	assert.Equal(t, []int64{3333, 3333, 3334}, splitCents(plan))
	assert.Equal(t, int64(10000), plan.Total())
}

func TestSplit_Percentage_AlwaysReconciles(t *testing.T) {
	now := time.Now()

	type testCase struct {
		name  string
		cents int64
		bps   []int64
	}

	tests := []testCase{
		{name: "Thirds", cents: 10001, bps: []int64{3333, 3333, 3334}},
		{name: "UnevenFive", cents: 9999, bps: []int64{1000, 1500, 2500, 2000, 3000}},
		{name: "FractionalPercentages", cents: 12345, bps: []int64{1250, 1250, 7500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs := participants(len(tt.bps))
			for i, bps := range tt.bps {
				inputs[i].BasisPoints = bps
			}

			plan := allocation.Split(money.New(tt.cents, "EUR"), allocation.SplitPercentage, inputs, allocation.RemainderFrontLoaded, now)

			assert.Equal(t, tt.cents, plan.Total())
		})
	}
}

func TestSplit_Custom_NoSilentCorrection(t *testing.T) {
	now := time.Now()
	remaining := money.New(10000, "EUR")

	inputs := participants(2)
	inputs[0].Amount = money.New(4000, "EUR")
	inputs[1].Amount = money.New(5000, "EUR")

	plan := allocation.Split(remaining, allocation.SplitCustom, inputs, allocation.RemainderFrontLoaded, now)

	// The allocator hands back exactly what was entered; the 10.00 shortfall
	// is the validator's to report.
	assert.Equal(t, []int64{4000, 5000}, splitCents(plan))
	assert.Equal(t, int64(9000), plan.Total())
}

func TestSplit_EmptyInputs(t *testing.T) {
	plan := allocation.Split(money.New(10000, "EUR"), allocation.SplitEqual, nil, allocation.RemainderFrontLoaded, time.Now())

	assert.Equal(t, allocation.PlanSplit, plan.Kind)
	assert.Empty(t, plan.Splits)
}
