package services

import (
	"context"
	"sync"

	"github.com/vmkteam/embedlog"
)

// Ledger appends canonical three-column rows to the expense ledger. Append
// must be atomic from the caller's point of view: the next free row is
// computed and written under a single writer, so concurrent appends never
// land on the same row.
type Ledger interface {
	Append(ctx context.Context, row []any) (rowIndex int, err error)
	Ping(ctx context.Context) error
}

// MockLedger is an in-memory implementation of Ledger
type MockLedger struct {
	logger embedlog.Logger

	mu   sync.Mutex
	rows [][]any
}

// NewMockLedger creates a new mock ledger
func NewMockLedger(logger embedlog.Logger) *MockLedger {
	return &MockLedger{logger: logger}
}

// Append stores the row in memory and returns its 1-based index.
func (m *MockLedger) Append(ctx context.Context, row []any) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows = append(m.rows, row)
	m.logger.Print(ctx, "mock ledger append", "row", len(m.rows))

	return len(m.rows), nil
}

// Ping always succeeds.
func (m *MockLedger) Ping(ctx context.Context) error {
	return nil
}

// Rows returns a copy of the appended rows.
func (m *MockLedger) Rows() [][]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([][]any, len(m.rows))
	copy(out, m.rows)
	return out
}
