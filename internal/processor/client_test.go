package processor_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcardoso/payplan/internal/allocation"
	"github.com/jmcardoso/payplan/internal/money"
	"github.com/jmcardoso/payplan/internal/processor"
	"github.com/jmcardoso/payplan/internal/roster"
)

func TestParseRail(t *testing.T) {
	for _, valid := range []string{"card", "bank", "crypto", "wallet"} {
		got, err := processor.ParseRail(valid)
		require.NoError(t, err)
		assert.Equal(t, processor.Rail(valid), got)
	}

	_, err := processor.ParseRail("carrier-pigeon")
	assert.Error(t, err)
}

func TestClient_Submit(t *testing.T) {
	invoiceID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var gotBody map[string]any
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/charges", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":           "ch_123",
			"status":       "accepted",
			"submitted_at": now.Format(time.RFC3339),
		})
	}))
	defer srv.Close()

	client := processor.NewClient(srv.URL, "secret-token")

	plan := &allocation.Plan{
		Kind: allocation.PlanSplit,
		Mode: allocation.ModeSplit,
		Splits: []allocation.PaymentSplit{
			{
				Participant: roster.Participant{Name: "Alice", Email: "alice@example.com"},
				Amount:      money.New(5000, "EUR"),
				BasisPoints: 5000,
			},
			{
				Participant: roster.Participant{Name: "Bob", Email: "bob@example.com"},
				Amount:      money.New(5000, "EUR"),
				BasisPoints: 5000,
			},
		},
	}

	receipt, err := client.Submit(context.Background(), processor.Submission{
		InvoiceID: invoiceID,
		Plan:      plan,
		Rail:      processor.RailCard,
		Memo:      "dinner",
	})

	require.NoError(t, err)
	assert.Equal(t, "ch_123", receipt.ID)
	assert.Equal(t, "accepted", receipt.Status)
	assert.Equal(t, now, receipt.SubmittedAt)

	assert.Equal(t, "Token secret-token", gotAuth)
	assert.Equal(t, invoiceID.String(), gotBody["invoice_id"])
	assert.Equal(t, "card", gotBody["rail"])
	assert.Equal(t, "dinner", gotBody["memo"])
	assert.Equal(t, "split", gotBody["kind"])
	assert.Equal(t, "EUR", gotBody["currency"])

	splits, ok := gotBody["splits"].([]any)
	require.True(t, ok)
	require.Len(t, splits, 2)
}

func TestClient_Submit_Schedule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		schedule, ok := body["schedule"].([]any)
		require.True(t, ok)
		require.Len(t, schedule, 2)

		first, ok := schedule[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "2025-07-01", first["due_date"])
		assert.Equal(t, float64(1), first["sequence"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "ch_456", "status": "scheduled"})
	}))
	defer srv.Close()

	client := processor.NewClient(srv.URL, "")

	plan := &allocation.Plan{
		Kind: allocation.PlanSchedule,
		Mode: allocation.ModeSchedule,
		Entries: []allocation.ScheduleEntry{
			{Sequence: 1, DueDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Amount: money.New(2500, "EUR"), Status: allocation.EntryPending},
			{Sequence: 2, DueDate: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), Amount: money.New(2500, "EUR"), Status: allocation.EntryPending},
		},
	}

	receipt, err := client.Submit(context.Background(), processor.Submission{
		InvoiceID: uuid.New(),
		Plan:      plan,
		Rail:      processor.RailBank,
	})

	require.NoError(t, err)
	assert.Equal(t, "ch_456", receipt.ID)
	assert.Equal(t, "scheduled", receipt.Status)
}

func TestClient_Submit_ProcessorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := processor.NewClient(srv.URL, "")

	_, err := client.Submit(context.Background(), processor.Submission{
		InvoiceID: uuid.New(),
		Plan:      &allocation.Plan{Kind: allocation.PlanSingle, Mode: allocation.ModePartial, Amount: money.New(100, "EUR")},
		Rail:      processor.RailCard,
	})

	assert.ErrorContains(t, err, "unexpected status code 502")
}
