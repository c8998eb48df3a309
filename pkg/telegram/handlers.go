package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DimaStam/expenses-bot/pkg/wydatki"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleStart handles /start command
func (b *Bot) handleStart(ctx context.Context, botAPI *bot.Bot, update *models.Update) {
	commandsProcessed.WithLabelValues("start").Inc()
	if update.Message == nil || update.Message.From == nil {
		return
	}

	_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "Скажи скільки, де і коли витратив:\n",
	})
}

// handleMessage handles incoming messages: voice messages go through
// transcription first, plain text goes straight to extraction.
func (b *Bot) handleMessage(ctx context.Context, botAPI *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID

	if update.Message.Voice != nil {
		b.handleVoice(ctx, botAPI, update)
		return
	}

	text := update.Message.Text
	if text == "" || strings.HasPrefix(text, "/") {
		// commands have their own handlers, never feed them to the extractor
		return
	}

	messagesProcessed.WithLabelValues("text").Inc()
	b.recordExpense(ctx, botAPI, chatID, text)
}

// handleVoice handles voice messages
func (b *Bot) handleVoice(ctx context.Context, botAPI *bot.Bot, update *models.Update) {
	messagesProcessed.WithLabelValues("voice").Inc()

	chatID := update.Message.Chat.ID
	voiceFileID := update.Message.Voice.FileID
	b.logger.Print(ctx, "received voice message", "file_id", voiceFileID)

	tmpOgg, err := b.downloadTgFile(ctx, botAPI, voiceFileID)
	if err != nil {
		errorsTotal.WithLabelValues("download_file").Inc()
		b.logger.Error(ctx, "failed to download voice file", "err", err)
		_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Не вдалося отримати голосове повідомлення.",
		})
		return
	}
	defer os.Remove(tmpOgg)

	startTime := time.Now()
	transcription, err := b.transcriber.Transcribe(ctx, tmpOgg)
	transcriptionDuration.Observe(time.Since(startTime).Seconds())

	if err != nil {
		errorsTotal.WithLabelValues("transcription").Inc()
		b.logger.Error(ctx, "failed to transcribe voice", "err", err)
		_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Не вдалося розпізнати голос.",
		})
		return
	}

	b.logger.Print(ctx, "transcription result", "text", transcription)
	_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("Розпізнано: %s", transcription),
	})

	b.recordExpense(ctx, botAPI, chatID, transcription)
}

// recordExpense runs the pipeline and always replies: either a confirmation
// with the persisted record or an explicit failure notice.
func (b *Bot) recordExpense(ctx context.Context, botAPI *bot.Bot, chatID int64, text string) {
	startTime := time.Now()
	rec, err := b.manager.RecordText(ctx, text, time.Now())
	recordDuration.Observe(time.Since(startTime).Seconds())

	if err != nil {
		if errors.Is(err, wydatki.ErrExtraction) {
			errorsTotal.WithLabelValues("extraction").Inc()
			b.logger.Error(ctx, "failed to extract expense", "err", err, "text", text)
			_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "🤔 Не зрозумів витрату. Скажи суму, місце і дату.",
			})
			return
		}

		errorsTotal.WithLabelValues("ledger").Inc()
		b.logger.Error(ctx, "failed to record expense", "err", err)
		_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "⚠️ Помилка запису витрати. Спробуй ще раз.",
		})
		return
	}

	expensesRecorded.Inc()

	_, _ = botAPI.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("📌 Записано: %s", rec),
	})
}

// Download Telegram file by file ID
func (b *Bot) downloadTgFile(ctx context.Context, botAPI *bot.Bot, fileID string) (string, error) {
	file, err := botAPI.GetFile(ctx, &bot.GetFileParams{
		FileID: fileID,
	})
	if err != nil {
		b.logger.Error(ctx, "failed to get file", "err", err)
		return "", err
	}

	fileURL := botAPI.FileDownloadLink(file)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		b.logger.Error(ctx, "failed to download file from telegram", "err", err)
		return "", err
	}
	defer resp.Body.Close()

	tmpOgg := fmt.Sprintf("/tmp/expenses-bot/%s.ogg", fileID)
	err = os.MkdirAll(filepath.Dir(tmpOgg), 0755)
	if err != nil {
		return "", err
	}
	ogg, err := os.Create(tmpOgg)
	if err != nil {
		return "", err
	}
	_, err = io.Copy(ogg, resp.Body)
	if err != nil {
		b.logger.Error(ctx, "failed to save downloaded file", "err", err)
		return "", err
	}
	ogg.Close()
	return tmpOgg, nil
}
