package telegram

import (
	"context"
	"testing"

	"github.com/DimaStam/expenses-bot/pkg/services"
	"github.com/DimaStam/expenses-bot/pkg/wydatki"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/vmkteam/embedlog"
)

// Command texts also match the catch-all prefix handler, so handleMessage
// must drop them instead of feeding them to the extractor.
func TestHandleMessageIgnoresCommands(t *testing.T) {
	sl := embedlog.NewLogger(true, false)
	ld := services.NewMockLedger(sl)
	b := &Bot{
		logger:  sl,
		manager: wydatki.NewManager(services.NewMockExtractor(sl), ld, sl),
	}

	update := &models.Update{
		Message: &models.Message{
			From: &models.User{ID: 1, Username: "tester"},
			Chat: models.Chat{ID: 1},
			Text: "/start",
		},
	}

	b.handleMessage(context.Background(), nil, update)
	assert.Empty(t, ld.Rows())
}
