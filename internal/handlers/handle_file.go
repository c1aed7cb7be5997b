package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/pagecraft/page-craft-bot/internal/contextkeys"
	"github.com/pagecraft/page-craft-bot/internal/messages"
	"github.com/pagecraft/page-craft-bot/internal/resolver"
	"github.com/pagecraft/page-craft-bot/store"
	"github.com/pagecraft/page-craft-bot/types"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

func (bh *Handlers) HandleFile(ctx context.Context, b *bot.Bot, update *models.Update, userID int64) {
	chatID := update.Message.Chat.ID

	upload, ok := contextkeys.GetUploadInfo(ctx)
	if !ok || upload == nil {
		bh.sendText(ctx, b, chatID, messages.ErrorDefault())
		return
	}

	fileName := strings.TrimSpace(upload.FileName)
	if strings.EqualFold(fileName, "photo.jpg") {
		fileName = fmt.Sprintf("photo_%d.jpg", time.Now().Unix())
	}

	kind, ok := classifyFile(fileName, upload.MimeType)
	if !ok {
		bh.sendText(ctx, b, chatID, messages.ErrorUnsupportedFile())
		return
	}

	if upload.FileSize > bh.limits.MaxFileBytes {
		sizeMB := float64(upload.FileSize) / (1 << 20)
		bh.sendText(ctx, b, chatID, messages.ErrorFileTooLarge(sizeMB, int(bh.limits.MaxFileBytes>>20)))
		return
	}

	// Reject before downloading so a full registry costs nothing.
	files, err := bh.sessions.ListFiles(userID)
	if err != nil {
		log.Printf("Error listing files for user %d: %v", userID, err)
		bh.sendText(ctx, b, chatID, messages.ErrorDefault())
		return
	}
	if len(files) >= bh.limits.MaxFilesPerUser {
		bh.sendText(ctx, b, chatID, messages.ErrorLimitReached(bh.limits.MaxFilesPerUser))
		return
	}

	localPath, err := bh.downloadFile(ctx, b, upload.FileID, fileName)
	if err != nil {
		log.Printf("Error downloading file for user %d: %v", userID, err)
		bh.sendText(ctx, b, chatID, messages.ErrorDefault())
		return
	}

	position, err := bh.registerUpload(userID, types.FileEntry{
		Name:            fileName,
		Path:            localPath,
		Kind:            kind,
		OriginMessageID: update.Message.ID,
		Size:            upload.FileSize,
		UploadedAt:      time.Now(),
	})
	if err != nil {
		if errors.Is(err, store.ErrLimitExceeded) {
			bh.sendText(ctx, b, chatID, messages.ErrorLimitReached(bh.limits.MaxFilesPerUser))
		} else {
			log.Printf("Error registering file for user %d: %v", userID, err)
			bh.sendText(ctx, b, chatID, messages.ErrorDefault())
		}
		return
	}

	// The confirmation carries the index within the file's kind, the
	// same number /list shows and the commands accept.
	kindPosition := position
	if files, err := bh.sessions.ListFiles(userID); err == nil {
		kindPosition = len(resolver.FilterKind(files, kind))
	}

	if kind == types.KindImage {
		bh.sendText(ctx, b, chatID, messages.ImageReceived(fileName, kindPosition))
		return
	}
	bh.sendText(ctx, b, chatID, messages.PDFReceived(fileName, kindPosition))
}

// registerUpload adds the downloaded file to the registry. The pre-add
// checks race against concurrent uploads, so a rejection here still
// needs to release the file already on disk.
func (bh *Handlers) registerUpload(userID int64, entry types.FileEntry) (int, error) {
	position, err := bh.sessions.AddFile(userID, entry)
	if err != nil {
		_ = os.Remove(entry.Path)
		return 0, err
	}
	return position, nil
}

func classifyFile(fileName, mimeType string) (types.FileKind, bool) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch {
	case ext == ".pdf" || mimeType == "application/pdf":
		return types.KindPDF, true
	case imageExtensions[ext] || strings.HasPrefix(mimeType, "image/"):
		return types.KindImage, true
	}
	return "", false
}
