package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/pagecraft/page-craft-bot/internal/messages"
)

// Plain text is only meaningful as the filename for a pending result.
func (bh *Handlers) HandleText(ctx context.Context, b *bot.Bot, update *models.Update, userID int64) {
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)
	if text == "" {
		return
	}

	pending, err := bh.sessions.TakePending(userID)
	if err != nil {
		bh.sendText(ctx, b, chatID, messages.ErrorNoPending())
		return
	}

	bh.deliverPending(ctx, b, chatID, userID, pending, text)
}
