package handlers

import (
	"context"
	"log"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/go-telegram/bot"

	"github.com/pagecraft/page-craft-bot/internal/messages"
	"github.com/pagecraft/page-craft-bot/types"
)

const defaultBaseName = "document"

// sanitizeBaseName strips everything except letters, digits, spaces,
// hyphens and underscores, so the name is safe as a filename on any
// platform. An empty result falls back to "document".
func sanitizeBaseName(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	name := strings.TrimRight(b.String(), " ")
	if name == "" {
		return defaultBaseName
	}
	return name
}

// deliverPending sends the pending result under the chosen name and
// registers PDF results back into the registry so they can be
// reply-targeted. An empty baseName keeps the default.
func (bh *Handlers) deliverPending(ctx context.Context, b *bot.Bot, chatID, userID int64, pending *types.PendingOperation, baseName string) {
	usedDefault := strings.TrimSpace(baseName) == ""
	name := defaultBaseName
	if !usedDefault {
		name = sanitizeBaseName(baseName)
	}
	fileName := name + pending.ResultKind.Extension()

	msg, err := bh.sendDocumentFromPath(ctx, b, chatID, pending.ResultPath, fileName)
	if err != nil {
		log.Printf("Error sending result for user %d: %v", userID, err)
		// Put the result back so the user can retry with another name.
		if _, serr := bh.sessions.SetPending(userID, *pending); serr != nil {
			log.Printf("Error restoring pending for user %d: %v", userID, serr)
			_ = os.Remove(pending.ResultPath)
		}
		bh.sendText(ctx, b, chatID, messages.ErrorSendFailed(err))
		return
	}

	if pending.ResultKind == types.ResultPDF && msg != nil {
		_, err := bh.sessions.AddFile(userID, types.FileEntry{
			Name:            fileName,
			Path:            pending.ResultPath,
			Kind:            types.KindPDF,
			OriginMessageID: msg.ID,
			UploadedAt:      time.Now(),
		})
		if err != nil {
			// Registry full: the result was delivered, only the reply
			// targeting is lost.
			_ = os.Remove(pending.ResultPath)
		}
	} else {
		_ = os.Remove(pending.ResultPath)
	}

	if usedDefault {
		bh.sendText(ctx, b, chatID, messages.DeliveredDefault())
		return
	}
	bh.sendText(ctx, b, chatID, messages.DeliveredAs(fileName))
}
