package wydatki

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DimaStam/expenses-bot/pkg/services"

	"github.com/vmkteam/embedlog"
)

// ErrExtraction marks any failure of the extraction stage: an unreachable
// service, a malformed reply or an incomplete record. Callers branch on it to
// tell extraction failures apart from ledger ones.
var ErrExtraction = errors.New("expense extraction failed")

// Manager runs the expense pipeline for one message: extract a record from
// text, normalize it, append the canonical row to the ledger. Stages run in
// sequence; the only shared state between concurrent pipelines is the
// append-only ledger.
type Manager struct {
	extractor services.Extractor
	ledger    services.Ledger
	log       embedlog.Logger
}

func NewManager(extractor services.Extractor, ledger services.Ledger, log embedlog.Logger) *Manager {
	return &Manager{
		extractor: extractor,
		ledger:    ledger,
		log:       log,
	}
}

// RecordText extracts an expense from text and persists it. Returns the
// normalized record as persisted, or an error with nothing written. A record
// is never partially persisted: extraction failures stop the pipeline before
// the ledger is touched.
func (m *Manager) RecordText(ctx context.Context, text string, referenceDate time.Time) (*services.Record, error) {
	rec, err := m.extractor.Extract(ctx, text, referenceDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	clean := rec.Normalize()

	rowIndex, err := m.ledger.Append(ctx, clean.Row())
	if err != nil {
		return nil, fmt.Errorf("failed to append ledger row: %w", err)
	}

	m.log.Print(ctx, "expense recorded",
		"row", rowIndex,
		"amount", clean.Amount,
		"date", clean.Date,
		"place", clean.Place,
	)

	return &clean, nil
}
