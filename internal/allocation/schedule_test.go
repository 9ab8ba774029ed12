package allocation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcardoso/payplan/internal/allocation"
	"github.com/jmcardoso/payplan/internal/money"
)

func TestSchedule_MonthlyAmounts(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	remaining := money.New(10000, "EUR")

	plan := allocation.Schedule(remaining, allocation.CadenceMonthly, 3, now, allocation.RemainderFrontLoaded, now)

	require.Len(t, plan.Entries, 3)

	// Front-loaded: the first installment rounds up.
	assert.Equal(t, int64(3334), plan.Entries[0].Amount.Cents)
	assert.Equal(t, int64(3333), plan.Entries[1].Amount.Cents)
	assert.Equal(t, int64(3333), plan.Entries[2].Amount.Cents)
	assert.Equal(t, int64(10000), plan.Total())

	assert.Equal(t, time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC), plan.Entries[0].DueDate)
	assert.Equal(t, time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC), plan.Entries[1].DueDate)
	assert.Equal(t, time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC), plan.Entries[2].DueDate)

	for i, e := range plan.Entries {
		assert.Equal(t, i+1, e.Sequence)
		assert.Equal(t, allocation.EntryPending, e.Status)
	}
}

func TestSchedule_BackLoadedRemainder(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	plan := allocation.Schedule(money.New(10000, "EUR"), allocation.CadenceWeekly, 3, now, allocation.RemainderBackLoaded, now)

	assert.Equal(t, int64(3333), plan.Entries[0].Amount.Cents)
	assert.Equal(t, int64(3333), plan.Entries[1].Amount.Cents)
	assert.Equal(t, int64(3334), plan.Entries[2].Amount.Cents)
	assert.Equal(t, int64(10000), plan.Total())
}

func TestSchedule_CadenceIntervals(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name    string
		cadence allocation.Cadence
		wantGap time.Duration
	}

	tests := []testCase{
		{name: "Weekly", cadence: allocation.CadenceWeekly, wantGap: 7 * 24 * time.Hour},
		{name: "Biweekly", cadence: allocation.CadenceBiweekly, wantGap: 14 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := allocation.Schedule(money.New(5000, "EUR"), tt.cadence, 4, start, allocation.RemainderFrontLoaded, start)

			require.Len(t, plan.Entries, 4)
			assert.Equal(t, start.Add(tt.wantGap), plan.Entries[0].DueDate)

			for i := 1; i < len(plan.Entries); i++ {
				assert.Equal(t, tt.wantGap, plan.Entries[i].DueDate.Sub(plan.Entries[i-1].DueDate))
			}
		})
	}
}

func TestSchedule_MonthEndClamping(t *testing.T) {
	// A schedule anchored on Jan 31 must fall on the last valid day of each
	// target month instead of overflowing into the next.
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	plan := allocation.Schedule(money.New(30000, "EUR"), allocation.CadenceMonthly, 4, start, allocation.RemainderFrontLoaded, start)

	require.Len(t, plan.Entries, 4)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), plan.Entries[0].DueDate)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), plan.Entries[1].DueDate)
	assert.Equal(t, time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), plan.Entries[2].DueDate)
	assert.Equal(t, time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), plan.Entries[3].DueDate)
}

func TestSchedule_MonthEndClamping_LeapYear(t *testing.T) {
	start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	plan := allocation.Schedule(money.New(10000, "EUR"), allocation.CadenceMonthly, 2, start, allocation.RemainderFrontLoaded, start)

	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), plan.Entries[0].DueDate)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), plan.Entries[1].DueDate)
}

func TestSchedule_AlwaysReconciles(t *testing.T) {
	start := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	amounts := []int64{10000, 10001, 9999, 101, 12345, 333}

	for _, cents := range amounts {
		for count := 2; count <= 12; count++ {
			plan := allocation.Schedule(money.New(cents, "EUR"), allocation.CadenceMonthly, count, start, allocation.RemainderFrontLoaded, start)

			require.Len(t, plan.Entries, count)
			assert.Equal(t, cents, plan.Total(), "cents=%d count=%d", cents, count)
		}
	}
}

func TestSchedule_DatesStrictlyIncreasing(t *testing.T) {
	start := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	for _, cadence := range []allocation.Cadence{allocation.CadenceWeekly, allocation.CadenceBiweekly, allocation.CadenceMonthly} {
		plan := allocation.Schedule(money.New(12000, "EUR"), cadence, 12, start, allocation.RemainderFrontLoaded, start)

		for i := 1; i < len(plan.Entries); i++ {
			assert.True(t, plan.Entries[i].DueDate.After(plan.Entries[i-1].DueDate),
				"cadence=%s entry %d not after %d", cadence, i, i-1)
		}
	}
}

func TestSchedule_ZeroCount(t *testing.T) {
	now := time.Now()

	plan := allocation.Schedule(money.New(10000, "EUR"), allocation.CadenceMonthly, 0, now, allocation.RemainderFrontLoaded, now)

	assert.Equal(t, allocation.PlanSchedule, plan.Kind)
	assert.Empty(t, plan.Entries)
}
