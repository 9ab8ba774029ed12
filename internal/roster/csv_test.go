package roster_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcardoso/payplan/internal/roster"
)

func TestParseCSV(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    []roster.Participant
		wantErr bool
	}

	tests := []testCase{
		{
			name: "StandardHeader",
			input: "name,email,phone\n" +
				"Alice,alice@example.com,912345678\n" +
				"Bob,bob@example.com,\n",
			want: []roster.Participant{
				{Name: "Alice", Email: "alice@example.com", Phone: "912345678"},
				{Name: "Bob", Email: "bob@example.com"},
			},
		},
		{
			name: "AliasedHeader",
			input: "Full Name,E-Mail,Mobile\n" +
				"Carla,carla@example.com,961111111\n",
			want: []roster.Participant{
				{Name: "Carla", Email: "carla@example.com", Phone: "961111111"},
			},
		},
		{
			name: "SkipsRowsWithoutContact",
			input: "name,email\n" +
				"No Contact,\n" +
				"Dina,dina@example.com\n",
			want: []roster.Participant{
				{Name: "Dina", Email: "dina@example.com"},
			},
		},
		{
			name: "RaggedRows",
			input: "name,email,phone\n" +
				"Eva,eva@example.com\n",
			want: []roster.Participant{
				{Name: "Eva", Email: "eva@example.com"},
			},
		},
		{
			name:    "NoRecognizedColumns",
			input:   "foo,bar\n1,2\n",
			wantErr: true,
		},
		{
			name:    "EmptyFile",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := roster.ParseCSV(strings.NewReader(tt.input))

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCSV_Windows1252(t *testing.T) {
	// "José" with é as a single 0xE9 byte, the way legacy spreadsheet
	// exports encode it.
	input := "name,email\nJos\xe9,jose@example.com\n"

	got, err := roster.ParseCSV(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "José", got[0].Name)
	assert.Equal(t, "jose@example.com", got[0].Email)
}
