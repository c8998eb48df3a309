package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vmkteam/embedlog"
)

// Extractor turns free-form Polish text describing one purchase into a
// structured expense record. referenceDate is the day the message is
// processed and resolves relative dates and missing years.
type Extractor interface {
	Extract(ctx context.Context, text string, referenceDate time.Time) (*Record, error)
}

// MockExtractor is a deterministic pattern-based implementation of Extractor
// used in tests and devel runs without an OpenAI token.
type MockExtractor struct {
	logger embedlog.Logger
}

// NewMockExtractor creates a new mock extractor
func NewMockExtractor(logger embedlog.Logger) *MockExtractor {
	return &MockExtractor{logger: logger}
}

var (
	amountRe = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:zł|złotych|złote|zlotych|pln)?`)
	dateRe   = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})(?:\.(\d{4}))?\b`)
	placeRe  = regexp.MustCompile(`(?i)\b(?:w|we|na)\s+([\p{L}]+)`)
)

// Inflected store names seen in speech, mapped to their base form.
var knownPlaces = map[string]string{
	"biedronce":   "Biedronka",
	"biedronki":   "Biedronka",
	"lidlu":       "Lidl",
	"żabce":       "Żabka",
	"zabce":       "Żabka",
	"rossmannie":  "Rossmann",
	"kauflandzie": "Kaufland",
	"aldi":        "Aldi",
}

// Extract mocks LLM extraction with simple pattern matching (mirrors the kind
// of Polish phrases the bot receives: "Wydałem 45 złotych w Biedronce wczoraj").
func (m *MockExtractor) Extract(ctx context.Context, text string, referenceDate time.Time) (*Record, error) {
	m.logger.Print(ctx, "mock extract expense", "text", text)

	rec := &Record{}
	lower := strings.ToLower(text)

	if matches := amountRe.FindStringSubmatch(lower); len(matches) > 1 {
		rec.Amount, _ = strconv.ParseFloat(strings.ReplaceAll(matches[1], ",", "."), 64)
	}

	rec.Date = m.resolveDate(lower, referenceDate)

	if matches := placeRe.FindStringSubmatch(text); len(matches) > 1 {
		word := matches[1]
		if base, ok := knownPlaces[strings.ToLower(word)]; ok {
			rec.Place = base
		} else {
			runes := []rune(word)
			rec.Place = strings.ToUpper(string(runes[0])) + string(runes[1:])
		}
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// resolveDate handles relative date words and explicit dates with or without
// a year, defaulting to the reference date.
func (m *MockExtractor) resolveDate(lower string, ref time.Time) string {
	switch {
	case strings.Contains(lower, "przedwczoraj"):
		return ref.AddDate(0, 0, -2).Format("02.01.2006")
	case strings.Contains(lower, "wczoraj"):
		return ref.AddDate(0, 0, -1).Format("02.01.2006")
	}

	// skip candidates that are not calendar dates (e.g. the decimal amount)
	for _, matches := range dateRe.FindAllStringSubmatch(lower, -1) {
		day, _ := strconv.Atoi(matches[1])
		month, _ := strconv.Atoi(matches[2])
		if day < 1 || day > 31 || month < 1 || month > 12 {
			continue
		}
		year := ref.Year()
		if matches[3] != "" {
			year, _ = strconv.Atoi(matches[3])
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, ref.Location()).Format("02.01.2006")
	}

	return ref.Format("02.01.2006")
}
