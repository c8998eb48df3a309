package wydatki_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DimaStam/expenses-bot/pkg/services"
	"github.com/DimaStam/expenses-bot/pkg/wydatki"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmkteam/embedlog"
)

// stubExtractor returns a fixed record or error.
type stubExtractor struct {
	rec *services.Record
	err error
}

func (s *stubExtractor) Extract(ctx context.Context, text string, referenceDate time.Time) (*services.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rec, nil
}

func TestManagerRecordText(t *testing.T) {
	sl := embedlog.NewLogger(true, false)
	ld := services.NewMockLedger(sl)
	m := wydatki.NewManager(services.NewMockExtractor(sl), ld, sl)

	ref := time.Date(2025, 7, 16, 9, 0, 0, 0, time.UTC)
	rec, err := m.RecordText(context.Background(), "Wydałem 45 złotych w Biedronce wczoraj", ref)
	require.NoError(t, err)

	assert.Equal(t, 45.0, rec.Amount)
	assert.Equal(t, "15.07.2025", rec.Date)
	assert.Equal(t, "Biedronka", rec.Place)

	rows := ld.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, []any{45.0, "15.07.2025", "Biedronka"}, rows[0])
}

func TestManagerNormalizesPlace(t *testing.T) {
	sl := embedlog.NewLogger(true, false)
	ld := services.NewMockLedger(sl)
	ext := &stubExtractor{rec: &services.Record{Amount: 45, Date: "15.07.2025", Place: "Bie dronka   Warszawa"}}
	m := wydatki.NewManager(ext, ld, sl)

	rec, err := m.RecordText(context.Background(), "whatever", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Bie dronka Warszawa", rec.Place)

	rows := ld.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "Bie dronka Warszawa", rows[0][2])
}

func TestManagerVoicePipeline(t *testing.T) {
	sl := embedlog.NewLogger(true, false)
	ld := services.NewMockLedger(sl)
	m := wydatki.NewManager(services.NewMockExtractor(sl), ld, sl)

	tr := services.NewMockTranscriber(sl)
	tr.Text = "Wydałem 20.50 zł w Lidlu wczoraj"

	text, err := tr.Transcribe(context.Background(), "/tmp/voice.ogg")
	require.NoError(t, err)

	ref := time.Date(2025, 7, 16, 9, 0, 0, 0, time.UTC)
	rec, err := m.RecordText(context.Background(), text, ref)
	require.NoError(t, err)

	assert.Equal(t, 20.5, rec.Amount)
	assert.Equal(t, "15.07.2025", rec.Date)
	assert.Equal(t, "Lidl", rec.Place)

	rows := ld.Rows()
	require.Len(t, rows, 1)
}

func TestManagerExtractionFailure(t *testing.T) {
	sl := embedlog.NewLogger(true, false)
	ld := services.NewMockLedger(sl)
	m := wydatki.NewManager(services.NewMockExtractor(sl), ld, sl)

	// no identifiable amount: extraction fails, nothing is appended
	rec, err := m.RecordText(context.Background(), "byłem wczoraj na spacerze", time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, wydatki.ErrExtraction)
	assert.ErrorIs(t, err, services.ErrIncompleteRecord)
	assert.Nil(t, rec)
	assert.Empty(t, ld.Rows())
}

func TestManagerExtractionServiceFailure(t *testing.T) {
	sl := embedlog.NewLogger(true, false)
	ld := services.NewMockLedger(sl)
	ext := &stubExtractor{err: errors.New("api error: rate limit exceeded")}
	m := wydatki.NewManager(ext, ld, sl)

	// an outage with no sentinel of its own still reads as an extraction failure
	rec, err := m.RecordText(context.Background(), "whatever", time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, wydatki.ErrExtraction)
	assert.Nil(t, rec)
	assert.Empty(t, ld.Rows())
}

func TestManagerLedgerFailure(t *testing.T) {
	sl := embedlog.NewLogger(true, false)
	ext := &stubExtractor{rec: &services.Record{Amount: 45, Date: "15.07.2025", Place: "Biedronka"}}
	m := wydatki.NewManager(ext, &failingLedger{}, sl)

	rec, err := m.RecordText(context.Background(), "whatever", time.Now())
	require.Error(t, err)
	assert.NotErrorIs(t, err, wydatki.ErrExtraction)
	assert.Nil(t, rec)
}

type failingLedger struct{}

func (f *failingLedger) Append(ctx context.Context, row []any) (int, error) {
	return 0, errors.New("workbook locked")
}

func (f *failingLedger) Ping(ctx context.Context) error { return nil }
