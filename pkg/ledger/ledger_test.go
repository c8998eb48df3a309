package ledger_test

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/DimaStam/expenses-bot/pkg/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmkteam/embedlog"
)

func newTestLedger(t *testing.T) (*ledger.Ledger, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "wydatki.xlsx")
	l, err := ledger.New(path, "2025", embedlog.NewLogger(true, false))
	require.NoError(t, err)
	return l, path
}

func TestLedgerAppend(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	row, err := l.Append(ctx, []any{45.0, "15.07.2025", "Biedronka"})
	require.NoError(t, err)
	assert.Equal(t, 1, row)

	row, err = l.Append(ctx, []any{20.5, "16.07.2025", "Lidl"})
	require.NoError(t, err)
	assert.Equal(t, 2, row)

	rows, err := l.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"45", "15.07.2025", "Biedronka"}, rows[0])
	assert.Equal(t, []string{"20.5", "16.07.2025", "Lidl"}, rows[1])
}

func TestLedgerAppendAfterReopen(t *testing.T) {
	l, path := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Append(ctx, []any{45.0, "15.07.2025", "Biedronka"})
	require.NoError(t, err)

	// a fresh handle over the same workbook continues from column A
	reopened, err := ledger.New(path, "2025", embedlog.NewLogger(true, false))
	require.NoError(t, err)

	row, err := reopened.Append(ctx, []any{10.0, "16.07.2025", "Żabka"})
	require.NoError(t, err)
	assert.Equal(t, 2, row)
}

func TestLedgerConcurrentAppends(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	const n = 8
	indexes := make([]int, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			row, err := l.Append(ctx, []any{1.0, "15.07.2025", "Biedronka"})
			assert.NoError(t, err)
			indexes[i] = row
		}(i)
	}
	wg.Wait()

	// appends are serialized: every row index is distinct and consecutive
	sort.Ints(indexes)
	for i, row := range indexes {
		assert.Equal(t, i+1, row)
	}

	rows, err := l.Rows(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, n)
}

func TestLedgerCreatesMissingSheet(t *testing.T) {
	_, path := newTestLedger(t)

	l, err := ledger.New(path, "2026", embedlog.NewLogger(true, false))
	require.NoError(t, err)

	row, err := l.Append(context.Background(), []any{5.0, "01.01.2026", "Rossmann"})
	require.NoError(t, err)
	assert.Equal(t, 1, row, "new worksheet starts empty")
}

func TestLedgerPing(t *testing.T) {
	l, _ := newTestLedger(t)
	require.NoError(t, l.Ping(context.Background()))
}
