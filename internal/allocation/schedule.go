package allocation

import (
	"time"

	"github.com/jmcardoso/payplan/internal/money"
)

// Cadence is the recurrence interval of a payment schedule.
type Cadence string

const (
	CadenceWeekly   Cadence = "weekly"
	CadenceBiweekly Cadence = "biweekly"
	CadenceMonthly  Cadence = "monthly"
)

// Schedule generates the installment plan for a balance: count entries, one
// cadence interval apart starting one interval after start, whose amounts sum
// exactly to the balance. Leftover minor units are added one per installment,
// front-loaded by default so early installments round up instead of the last
// one drifting. Every entry starts out pending; status changes afterwards
// belong to the external ledger.
func Schedule(remaining money.Money, cadence Cadence, count int, start time.Time, policy RemainderPolicy, now time.Time) *Plan {
	if count <= 0 {
		return &Plan{Kind: PlanSchedule, Mode: ModeSchedule, GeneratedAt: now}
	}

	base := remaining.Cents / int64(count)
	leftover := remaining.Cents % int64(count)

	entries := make([]ScheduleEntry, count)
	for i := range count {
		cents := base
		if absorbsExtra(i, count, int(leftover), policy) {
			cents++
		}

		entries[i] = ScheduleEntry{
			Sequence: i + 1,
			DueDate:  dueDate(start, cadence, i+1),
			Amount:   money.New(cents, remaining.Currency),
			Status:   EntryPending,
		}
	}

	return &Plan{
		Kind:        PlanSchedule,
		Mode:        ModeSchedule,
		Entries:     entries,
		GeneratedAt: now,
	}
}

func dueDate(start time.Time, cadence Cadence, i int) time.Time {
	switch cadence {
	case CadenceWeekly:
		return start.AddDate(0, 0, 7*i)
	case CadenceBiweekly:
		return start.AddDate(0, 0, 14*i)
	default:
		return addMonthsClamped(start, i)
	}
}

// addMonthsClamped advances by whole calendar months, clamping to the last
// valid day of the target month. time.AddDate would normalize Jan 31 + 1
// month into Mar 3; a schedule anchored on the 31st should fall on Feb 28/29
// instead.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}

	return time.Date(first.Year(), first.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
