package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcardoso/payplan/internal/allocation"
	"github.com/jmcardoso/payplan/internal/invoice"
	"github.com/jmcardoso/payplan/internal/money"
	"github.com/jmcardoso/payplan/internal/roster"
)

func TestParseParticipants_PercentageRounding(t *testing.T) {
	m := AllocateModel{
		inv:      &invoice.Invoice{TotalAmount: money.New(10000, "EUR")},
		strategy: string(allocation.SplitPercentage),
		participants: "Alice: 33.33\n" +
			"Bob: 33.33\n" +
			"Cara: 33.34",
	}

	inputs, err := m.parseParticipants()

	require.NoError(t, err)
	require.Len(t, inputs, 3)

	// 33.33% must land on 3333 basis points, not truncate to 3332 through
	// the float representation.
	assert.Equal(t, int64(3333), inputs[0].BasisPoints)
	assert.Equal(t, int64(3333), inputs[1].BasisPoints)
	assert.Equal(t, int64(3334), inputs[2].BasisPoints)
}

func TestParseParticipant(t *testing.T) {
	type testCase struct {
		name  string
		input string
		want  roster.Participant
	}

	tests := []testCase{
		{
			name:  "NameAndEmail",
			input: "Alice <alice@example.com>",
			want:  roster.Participant{Name: "Alice", Email: "alice@example.com"},
		},
		{
			name:  "BareEmail",
			input: "bob@example.com",
			want:  roster.Participant{Email: "bob@example.com"},
		},
		{
			name:  "BareName",
			input: "Cara",
			want:  roster.Participant{Name: "Cara"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseParticipant(tt.input))
		})
	}
}
