package services_test

import (
	"testing"

	"github.com/DimaStam/expenses-bot/pkg/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  services.Record
		wantErr bool
	}{
		{
			name:   "complete record",
			record: services.Record{Amount: 45, Date: "15.07.2025", Place: "Biedronka"},
		},
		{
			name:    "zero amount",
			record:  services.Record{Amount: 0, Date: "15.07.2025", Place: "Biedronka"},
			wantErr: true,
		},
		{
			name:    "negative amount",
			record:  services.Record{Amount: -10, Date: "15.07.2025", Place: "Biedronka"},
			wantErr: true,
		},
		{
			name:    "missing date",
			record:  services.Record{Amount: 45, Date: "  ", Place: "Biedronka"},
			wantErr: true,
		},
		{
			name:    "missing place",
			record:  services.Record{Amount: 45, Date: "15.07.2025", Place: ""},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, services.ErrIncompleteRecord)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRecordNormalize(t *testing.T) {
	rec := services.Record{Amount: 45, Date: "15.07.2025", Place: "  Bie dronka   Warszawa "}

	clean := rec.Normalize()
	assert.Equal(t, "Bie dronka Warszawa", clean.Place)
	assert.Equal(t, rec.Amount, clean.Amount, "amount passes through unchanged")
	assert.Equal(t, rec.Date, clean.Date, "date passes through unchanged")

	// normalize is idempotent
	assert.Equal(t, clean, clean.Normalize())
}

func TestRecordRow(t *testing.T) {
	rec := services.Record{Amount: 45, Date: "15.07.2025", Place: "Biedronka"}

	assert.Equal(t, []any{45.0, "15.07.2025", "Biedronka"}, rec.Row())
}

func TestRecordFormatAmount(t *testing.T) {
	assert.Equal(t, "45", services.Record{Amount: 45}.FormatAmount())
	assert.Equal(t, "20.50", services.Record{Amount: 20.5}.FormatAmount())

	rec := services.Record{Amount: 45, Date: "15.07.2025", Place: "Biedronka"}
	assert.Equal(t, "45 zł, 15.07.2025, Biedronka", rec.String())
}
