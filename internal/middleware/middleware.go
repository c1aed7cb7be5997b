package middleware

import (
	"context"
	"log"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/pagecraft/page-craft-bot/internal/contextkeys"
	"github.com/pagecraft/page-craft-bot/internal/messages"
	"github.com/pagecraft/page-craft-bot/types"
)

type Middlewares struct {
	sessions types.SessionStore
	audit    types.AuditStore
}

func NewMessageAnalyzer(sessions types.SessionStore, audit types.AuditStore) *Middlewares {
	return &Middlewares{
		sessions: sessions,
		audit:    audit,
	}
}

// EnsureSessionMiddleware guarantees a session exists for the sender before
// any handler runs, and mirrors the user into the audit store when one is
// configured.
func (m *Middlewares) EnsureSessionMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}

		userID := update.Message.From.ID
		chatID := update.Message.Chat.ID
		if userID == 0 || chatID == 0 {
			return
		}

		if _, err := m.sessions.EnsureSession(userID, chatID); err != nil {
			log.Printf("Error ensuring session for user %d: %v", userID, err)
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:    chatID,
				Text:      messages.ErrorDefault(),
				ParseMode: messages.ParseModeHTML,
			})
			return
		}

		if m.audit != nil {
			from := update.Message.From
			if err := m.audit.UpsertUser(types.User{
				UserID:    userID,
				ChatID:    chatID,
				Username:  from.Username,
				FirstName: from.FirstName,
				LastName:  from.LastName,
			}); err != nil {
				log.Printf("Error upserting user %d: %v", userID, err)
			}
		}

		next(ctx, b, update)
	}
}

func (m *Middlewares) AnalyzeMessageMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}

		msg := update.Message

		if msg.Text != "" && strings.HasPrefix(msg.Text, "/") {
			next(contextkeys.WithMessageType(ctx, contextkeys.MessageTypeCommand), b, update)
			return
		}

		msgType := m.determineMessageType(msg)
		ctx = contextkeys.WithMessageType(ctx, msgType)

		switch msgType {
		case contextkeys.MessageTypeDocument:
			ctx = contextkeys.WithUploadInfo(ctx, m.analyzeDocument(msg.Document))
		case contextkeys.MessageTypePhoto:
			ctx = contextkeys.WithUploadInfo(ctx, m.analyzePhoto(msg.Photo))
		}

		next(ctx, b, update)
	}
}

func (m *Middlewares) determineMessageType(msg *models.Message) contextkeys.MessageType {
	if msg.Document != nil {
		return contextkeys.MessageTypeDocument
	}
	if len(msg.Photo) > 0 {
		return contextkeys.MessageTypePhoto
	}
	if msg.Text != "" || msg.Caption != "" {
		return contextkeys.MessageTypeText
	}
	return contextkeys.MessageTypeUnknown
}

func (m *Middlewares) analyzeDocument(doc *models.Document) *contextkeys.UploadInfo {
	fileName := doc.FileName
	if fileName == "" {
		fileName = "document"
		if ext := extensionFromMimeType(doc.MimeType); ext != "" {
			fileName += "." + ext
		}
	}

	return &contextkeys.UploadInfo{
		FileID:   doc.FileID,
		FileName: fileName,
		FileSize: int64(doc.FileSize),
		MimeType: doc.MimeType,
	}
}

// analyzePhoto picks the largest rendition Telegram offers for the photo.
func (m *Middlewares) analyzePhoto(sizes []models.PhotoSize) *contextkeys.UploadInfo {
	best := sizes[0]
	for i := 1; i < len(sizes); i++ {
		if sizes[i].FileSize > best.FileSize {
			best = sizes[i]
		}
	}

	return &contextkeys.UploadInfo{
		FileID:   best.FileID,
		FileName: "photo.jpg",
		FileSize: int64(best.FileSize),
		MimeType: "image/jpeg",
	}
}

func extensionFromMimeType(mimeType string) string {
	parts := strings.Split(mimeType, "/")
	if len(parts) != 2 {
		return ""
	}
	subtype := strings.ToLower(strings.Split(parts[1], ";")[0])

	switch subtype {
	case "jpeg", "jpg":
		return "jpg"
	case "png", "gif", "webp", "bmp", "pdf":
		return subtype
	}
	return ""
}
