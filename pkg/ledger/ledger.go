// Package ledger persists canonical expense rows in an xlsx workbook, one
// worksheet tab per calendar year.
package ledger

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/vmkteam/embedlog"
	"github.com/xuri/excelize/v2"
)

// Ledger appends three-column rows [amount, date, place] to a worksheet.
// The next free row is the first row past the last populated cell of column
// A. Scan and write happen under a single writer lock, so Append is atomic
// with respect to concurrent callers in this process.
type Ledger struct {
	log embedlog.Logger

	mu    sync.Mutex
	path  string
	sheet string
}

// New opens the workbook at path, creating it and the worksheet if missing.
func New(path, sheet string, log embedlog.Logger) (*Ledger, error) {
	l := &Ledger{
		log:   log,
		path:  path,
		sheet: sheet,
	}

	if err := l.ensureWorkbook(); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *Ledger) ensureWorkbook() error {
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		f := excelize.NewFile()
		defer f.Close()

		if err := f.SetSheetName("Sheet1", l.sheet); err != nil {
			return fmt.Errorf("failed to name worksheet: %w", err)
		}
		if err := f.SaveAs(l.path); err != nil {
			return fmt.Errorf("failed to create workbook: %w", err)
		}
		return nil
	}

	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(l.sheet)
	if err != nil {
		return err
	}
	if idx >= 0 {
		return nil
	}

	if _, err := f.NewSheet(l.sheet); err != nil {
		return fmt.Errorf("failed to create worksheet: %w", err)
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}

// Append writes the row to the first empty row of the worksheet and returns
// its 1-based index.
func (l *Ledger) Append(ctx context.Context, row []any) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	next, err := l.nextRow(f)
	if err != nil {
		return 0, err
	}

	for i, v := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, next)
		if err != nil {
			return 0, err
		}
		if err := f.SetCellValue(l.sheet, cell, v); err != nil {
			return 0, fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}

	if err := f.Save(); err != nil {
		return 0, fmt.Errorf("failed to save workbook: %w", err)
	}

	l.log.Print(ctx, "ledger row appended", "sheet", l.sheet, "row", next)

	return next, nil
}

// nextRow returns 1 + the number of populated cells in column A.
func (l *Ledger) nextRow(f *excelize.File) (int, error) {
	cols, err := f.GetCols(l.sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to read worksheet: %w", err)
	}

	if len(cols) == 0 {
		return 1, nil
	}

	n := 0
	for i, v := range cols[0] {
		if v != "" {
			n = i + 1
		}
	}

	return n + 1, nil
}

// Rows returns every populated row of the worksheet.
func (l *Ledger) Rows(ctx context.Context) ([][]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(l.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet: %w", err)
	}

	return rows, nil
}

// Ping verifies the workbook is readable. Used by the /status healthcheck.
func (l *Ledger) Ping(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return err
	}

	return f.Close()
}
