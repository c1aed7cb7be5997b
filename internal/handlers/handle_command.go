package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"

	"github.com/pagecraft/page-craft-bot/internal/messages"
	"github.com/pagecraft/page-craft-bot/internal/resolver"
	"github.com/pagecraft/page-craft-bot/internal/worker"
	"github.com/pagecraft/page-craft-bot/types"
)

func (bh *Handlers) HandleCommand(ctx context.Context, b *bot.Bot, update *models.Update, userID int64) {
	command := strings.TrimSpace(update.Message.Text)
	chatID := update.Message.Chat.ID
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return
	}
	cmd := fields[0]
	if strings.Contains(cmd, "@") {
		cmd = strings.SplitN(cmd, "@", 2)[0]
	}
	args := fields[1:]

	switch cmd {
	case "/start":
		bh.sendText(ctx, b, chatID, messages.StartWelcome(bh.limits.MaxFilesPerUser, int(bh.limits.MaxFileBytes>>20)))
	case "/help":
		bh.sendText(ctx, b, chatID, messages.Help())
	case "/list":
		bh.handleList(ctx, b, chatID, userID)
	case "/clear":
		bh.handleClear(ctx, b, chatID, userID)
	case "/merge":
		bh.handleMerge(ctx, b, update, chatID, userID, args)
	case "/merge_with":
		bh.handleMergeWith(ctx, b, update, chatID, userID, args)
	case "/merge_wth":
		bh.sendText(ctx, b, chatID, messages.MergeWithTypoHint())
	case "/split":
		bh.handleSplit(ctx, b, update, chatID, userID, args)
	case "/to_images":
		bh.handleToImages(ctx, b, update, chatID, userID, args)
	case "/convert_image":
		bh.handleConvertImage(ctx, b, chatID, userID, args)
	case "/combine_images":
		bh.handleCombineImages(ctx, b, chatID, userID)
	case "/cancel":
		bh.handleCancel(ctx, b, chatID, userID)
	default:
		bh.sendText(ctx, b, chatID, messages.ErrorUnknownCommand())
	}
}

func (bh *Handlers) handleList(ctx context.Context, b *bot.Bot, chatID, userID int64) {
	files, err := bh.sessions.ListFiles(userID)
	if err != nil {
		log.Printf("Error listing files for user %d: %v", userID, err)
		bh.sendText(ctx, b, chatID, messages.ErrorDefault())
		return
	}
	if len(files) == 0 {
		bh.sendText(ctx, b, chatID, messages.FileListEmpty())
		return
	}
	bh.sendText(ctx, b, chatID, messages.FileList(files))
}

func (bh *Handlers) handleClear(ctx context.Context, b *bot.Bot, chatID, userID int64) {
	removed, err := bh.sessions.ClearFiles(userID)
	if err != nil {
		log.Printf("Error clearing files for user %d: %v", userID, err)
		bh.sendText(ctx, b, chatID, messages.ErrorDefault())
		return
	}
	if len(removed) == 0 {
		bh.sendText(ctx, b, chatID, messages.ClearNothing())
		return
	}
	bh.sendText(ctx, b, chatID, messages.ClearDone())
}

func (bh *Handlers) handleMerge(ctx context.Context, b *bot.Bot, update *models.Update, chatID, userID int64, args []string) {
	pdfs, ok := bh.listPDFs(ctx, b, chatID, userID)
	if !ok {
		return
	}

	if target := bh.repliedFile(update, userID, types.KindPDF); target != nil {
		if len(pdfs) < 2 {
			bh.sendText(ctx, b, chatID, messages.ErrorNeedTwoFiles())
			return
		}
		bh.sendText(ctx, b, chatID, messages.MergePicker(target.Name, pdfs, target.OriginMessageID))
		return
	}

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	res, err := resolver.ResolveMerge(pdfs, arg)
	if err != nil {
		bh.sendResolveError(ctx, b, chatID, err)
		return
	}

	bh.enqueuePDFJob(ctx, b, chatID, userID, &worker.Job{
		Kind:        "merge",
		Description: fmt.Sprintf("Merging %d PDFs", len(res.Entries)),
		ResultKind:  types.ResultPDF,
		InputCount:  len(res.Entries),
	}, func(jobCtx context.Context) (string, error) {
		return bh.executor.Merge(jobCtx, entryPaths(res.Entries))
	})
}

func (bh *Handlers) handleMergeWith(ctx context.Context, b *bot.Bot, update *models.Update, chatID, userID int64, args []string) {
	pdfs, ok := bh.listPDFs(ctx, b, chatID, userID)
	if !ok {
		return
	}

	primary := bh.repliedFile(update, userID, types.KindPDF)
	if primary == nil || len(args) == 0 {
		bh.sendText(ctx, b, chatID, messages.MergeWithUsage(pdfs))
		return
	}

	res, err := resolver.ResolveMergeWith(pdfs, *primary, args[0])
	if err != nil {
		bh.sendResolveError(ctx, b, chatID, err)
		return
	}

	bh.enqueuePDFJob(ctx, b, chatID, userID, &worker.Job{
		Kind:        "merge",
		Description: fmt.Sprintf("Merging %d PDFs", len(res.Entries)),
		ResultKind:  types.ResultPDF,
		InputCount:  len(res.Entries),
	}, func(jobCtx context.Context) (string, error) {
		return bh.executor.Merge(jobCtx, entryPaths(res.Entries))
	})
}

func (bh *Handlers) handleSplit(ctx context.Context, b *bot.Bot, update *models.Update, chatID, userID int64, args []string) {
	pdfs, ok := bh.listPDFs(ctx, b, chatID, userID)
	if !ok {
		return
	}

	var target *types.FileEntry
	rangeSpec := ""

	if replied := bh.repliedFile(update, userID, types.KindPDF); replied != nil {
		if len(args) == 0 {
			bh.sendText(ctx, b, chatID, messages.SplitReplyUsage(replied.Name))
			return
		}
		target = replied
		rangeSpec = args[0]
	} else {
		if len(args) < 2 {
			bh.sendText(ctx, b, chatID, messages.SplitUsage())
			return
		}
		res, err := resolver.ResolveByIndex(pdfs, args[0])
		if err != nil {
			bh.sendResolveError(ctx, b, chatID, err)
			return
		}
		target = &res.Entries[0]
		rangeSpec = args[1]
	}

	pages, err := resolver.ParsePageRange(rangeSpec)
	if err != nil {
		bh.sendResolveError(ctx, b, chatID, err)
		return
	}

	input := target.Path
	bh.enqueuePDFJob(ctx, b, chatID, userID, &worker.Job{
		Kind:        "split",
		Description: fmt.Sprintf("Splitting %s (pages %s)", target.Name, pages.Human()),
		ResultKind:  types.ResultPDF,
		InputCount:  1,
	}, func(jobCtx context.Context) (string, error) {
		return bh.executor.Split(jobCtx, input, pages)
	})
}

func (bh *Handlers) handleToImages(ctx context.Context, b *bot.Bot, update *models.Update, chatID, userID int64, args []string) {
	pdfs, ok := bh.listPDFs(ctx, b, chatID, userID)
	if !ok {
		return
	}

	target := bh.repliedFile(update, userID, types.KindPDF)
	if target == nil {
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		res, err := resolver.ResolveByIndex(pdfs, arg)
		if err != nil {
			bh.sendResolveError(ctx, b, chatID, err)
			return
		}
		target = &res.Entries[0]
	}

	input := target.Path
	baseName := strings.TrimSuffix(target.Name, filepath.Ext(target.Name))
	name := target.Name
	bh.enqueuePDFJob(ctx, b, chatID, userID, &worker.Job{
		Kind:        "to_images",
		Description: fmt.Sprintf("Converting %s to images", name),
		ResultKind:  types.ResultZip,
		InputCount:  1,
	}, func(jobCtx context.Context) (string, error) {
		zipPath, _, err := bh.executor.ToImages(jobCtx, input, baseName)
		return zipPath, err
	})
}

func (bh *Handlers) handleConvertImage(ctx context.Context, b *bot.Bot, chatID, userID int64, args []string) {
	images, ok := bh.listImages(ctx, b, chatID, userID)
	if !ok {
		return
	}

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	res, err := resolver.ResolveByIndex(images, arg)
	if err != nil {
		bh.sendResolveError(ctx, b, chatID, err)
		return
	}

	target := res.Entries[0]
	input := target.Path
	bh.enqueuePDFJob(ctx, b, chatID, userID, &worker.Job{
		Kind:        "convert_image",
		Description: fmt.Sprintf("Converting %s to PDF", target.Name),
		ResultKind:  types.ResultPDF,
		InputCount:  1,
	}, func(jobCtx context.Context) (string, error) {
		return bh.executor.ImageToPDF(jobCtx, input)
	})
}

func (bh *Handlers) handleCombineImages(ctx context.Context, b *bot.Bot, chatID, userID int64) {
	images, ok := bh.listImages(ctx, b, chatID, userID)
	if !ok {
		return
	}
	if len(images) < 2 {
		bh.sendText(ctx, b, chatID, messages.ErrorNeedTwoImages(len(images)))
		return
	}

	bh.enqueuePDFJob(ctx, b, chatID, userID, &worker.Job{
		Kind:        "combine_images",
		Description: fmt.Sprintf("Combining %d images into PDF", len(images)),
		ResultKind:  types.ResultPDF,
		InputCount:  len(images),
	}, func(jobCtx context.Context) (string, error) {
		return bh.executor.ImagesToPDF(jobCtx, entryPaths(images))
	})
}

func (bh *Handlers) handleCancel(ctx context.Context, b *bot.Bot, chatID, userID int64) {
	pending, err := bh.sessions.TakePending(userID)
	if err != nil {
		bh.sendText(ctx, b, chatID, messages.ErrorNoPendingCancel())
		return
	}
	bh.deliverPending(ctx, b, chatID, userID, pending, "")
}

func (bh *Handlers) listPDFs(ctx context.Context, b *bot.Bot, chatID, userID int64) ([]types.FileEntry, bool) {
	files, err := bh.sessions.ListFiles(userID)
	if err != nil {
		log.Printf("Error listing files for user %d: %v", userID, err)
		bh.sendText(ctx, b, chatID, messages.ErrorDefault())
		return nil, false
	}
	pdfs := resolver.FilterKind(files, types.KindPDF)
	if len(pdfs) == 0 {
		bh.sendText(ctx, b, chatID, messages.ErrorNoFiles())
		return nil, false
	}
	return pdfs, true
}

func (bh *Handlers) listImages(ctx context.Context, b *bot.Bot, chatID, userID int64) ([]types.FileEntry, bool) {
	files, err := bh.sessions.ListFiles(userID)
	if err != nil {
		log.Printf("Error listing files for user %d: %v", userID, err)
		bh.sendText(ctx, b, chatID, messages.ErrorDefault())
		return nil, false
	}
	images := resolver.FilterKind(files, types.KindImage)
	if len(images) == 0 {
		bh.sendText(ctx, b, chatID, messages.ErrorNoImages())
		return nil, false
	}
	return images, true
}

// repliedFile resolves a reply-targeted command to the registered file the
// replied message carried, if any.
func (bh *Handlers) repliedFile(update *models.Update, userID int64, kind types.FileKind) *types.FileEntry {
	if update.Message.ReplyToMessage == nil {
		return nil
	}
	entry, err := bh.sessions.FindByReply(userID, update.Message.ReplyToMessage.ID)
	if err != nil || entry == nil {
		return nil
	}
	if entry.Kind != kind {
		return nil
	}
	return entry
}

func (bh *Handlers) sendResolveError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	var indexErr *resolver.InvalidIndexError
	var rangeErr *resolver.InvalidRangeError
	switch {
	case errors.Is(err, resolver.ErrNotEnoughFiles):
		bh.sendText(ctx, b, chatID, messages.ErrorNeedTwoFiles())
	case errors.As(err, &indexErr):
		bh.sendText(ctx, b, chatID, messages.ErrorInvalidIndex(indexErr.Error()))
	case errors.As(err, &rangeErr):
		bh.sendText(ctx, b, chatID, messages.ErrorInvalidRange(rangeErr.Error()))
	default:
		bh.sendText(ctx, b, chatID, messages.ErrorDefault())
	}
}

func (bh *Handlers) enqueuePDFJob(ctx context.Context, b *bot.Bot, chatID, userID int64, job *worker.Job, execute func(context.Context) (string, error)) {
	job.ID = uuid.NewString()
	job.UserID = userID
	job.ChatID = chatID
	job.Execute = execute
	bh.enqueueOperation(ctx, b, chatID, job)
}

func (bh *Handlers) sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	})
	if err != nil {
		log.Printf("Error sending message to chat %d: %v", chatID, err)
	}
}

func entryPaths(entries []types.FileEntry) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	return paths
}
