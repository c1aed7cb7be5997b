package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/pagecraft/page-craft-bot/internal/config"
	"github.com/pagecraft/page-craft-bot/internal/contextkeys"
	"github.com/pagecraft/page-craft-bot/internal/messages"
	"github.com/pagecraft/page-craft-bot/internal/pdf"
	"github.com/pagecraft/page-craft-bot/internal/worker"
	"github.com/pagecraft/page-craft-bot/types"
)

type JobEnqueuer interface {
	Enqueue(job *worker.Job, statusMessageID int) int
}

type Handlers struct {
	sessions   types.SessionStore
	executor   pdf.Executor
	pool       JobEnqueuer
	limits     config.Limits
	httpClient *http.Client
	uploadDir  string
}

func NewHandlers(sessions types.SessionStore, executor pdf.Executor, pool JobEnqueuer, limits config.Limits) *Handlers {
	return &Handlers{
		sessions:   sessions,
		executor:   executor,
		pool:       pool,
		limits:     limits,
		httpClient: &http.Client{},
		uploadDir:  filepath.Join(os.TempDir(), "page_craft_uploads"),
	}
}

func (bh *Handlers) MainHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	messageType, _ := contextkeys.GetMessageType(ctx)

	switch messageType {
	case contextkeys.MessageTypeCommand:
		bh.HandleCommand(ctx, b, update, userID)
	case contextkeys.MessageTypeDocument, contextkeys.MessageTypePhoto:
		bh.HandleFile(ctx, b, update, userID)
	case contextkeys.MessageTypeText:
		bh.HandleText(ctx, b, update, userID)
	default:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      messages.ErrorUnsupportedFile(),
			ParseMode: messages.ParseModeHTML,
		})
	}
}

func (bh *Handlers) downloadFile(ctx context.Context, b *bot.Bot, fileID, fileName string) (string, error) {
	fileInfo, err := b.GetFile(ctx, &bot.GetFileParams{
		FileID: fileID,
	})
	if err != nil {
		return "", fmt.Errorf("error getting file info: %v", err)
	}

	fileURL := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", b.Token(), fileInfo.FilePath)

	req, err := http.NewRequestWithContext(ctx, "GET", fileURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := bh.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error downloading file: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status downloading file: %s", resp.Status)
	}

	if err := os.MkdirAll(bh.uploadDir, 0755); err != nil {
		return "", err
	}

	localPath := filepath.Join(bh.uploadDir, fmt.Sprintf("%s_%s", fileID, filepath.Base(fileName)))
	out, err := os.Create(localPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = os.Remove(localPath)
		return "", err
	}

	return localPath, nil
}

func (bh *Handlers) sendDocumentFromPath(ctx context.Context, b *bot.Bot, chatID int64, filePath, fileName string) (*models.Message, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if strings.TrimSpace(fileName) == "" {
		fileName = filepath.Base(filePath)
	}

	return b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: fileName,
			Data:     file,
		},
	})
}

// enqueueOperation sends the progress message, schedules the job and keeps
// the message in sync with the job's queue position.
func (bh *Handlers) enqueueOperation(ctx context.Context, b *bot.Bot, chatID int64, job *worker.Job) {
	msg, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      messages.OperationStarted(job.Description),
		ParseMode: messages.ParseModeHTML,
	})
	if err != nil {
		log.Printf("Error sending status message for job %s: %v", job.ID, err)
	}

	messageID := 0
	if msg != nil {
		messageID = msg.ID
	}

	position := bh.pool.Enqueue(job, messageID)
	if position > 0 && messageID != 0 {
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: messageID,
			Text:      messages.OperationQueued(job.Description, position),
			ParseMode: messages.ParseModeHTML,
		})
	}
}
