package messages

import (
	"fmt"
	"strings"

	"github.com/pagecraft/page-craft-bot/types"
)

const ParseModeHTML = "HTML"

func Escape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(strings.TrimSpace(s))
}

func StartWelcome(maxFiles, maxFileMB int) string {
	return fmt.Sprintf("📄 <b>Page Craft Bot</b>\n\n"+
		"Upload files (max %dMB each, %d files per user):\n"+
		"• 📄 PDFs: /merge, /split, /to_images\n"+
		"• 🖼️ Images: /convert_image, /combine_images\n"+
		"• /help - Full help\n\n"+
		"Files are auto-numbered as uploaded.", maxFileMB, maxFiles)
}

func Help() string {
	return "📄 <b>Page Craft Bot Commands</b>\n\n" +
		"📤 Upload files, then use:\n\n" +
		"🔗 <b>Merge PDFs:</b>\n" +
		"• /merge - merge all uploaded PDFs\n" +
		"• /merge 1,3,2 - merge specific PDFs in order\n\n" +
		"✂️ <b>Split PDF:</b>\n" +
		"• /split 1 5-8 - split PDF #1, pages 5 to 8\n" +
		"• /split 2 3 - split PDF #2, page 3 only\n\n" +
		"🖼️ <b>PDF to images:</b>\n" +
		"• /to_images - convert latest PDF to images\n" +
		"• /to_images 1 - convert PDF #1 to images\n\n" +
		"📑 <b>Image to PDF:</b>\n" +
		"• /convert_image - convert latest image to PDF\n" +
		"• /convert_image 2 - convert image #2 to PDF\n" +
		"• /combine_images - combine all images into one PDF\n\n" +
		"💡 <b>Reply feature:</b>\n" +
		"Reply to any sent PDF with a command:\n" +
		"• reply + /merge → shows merge options\n" +
		"• reply + /split 5-8 → splits that PDF\n" +
		"• reply + /to_images → converts that PDF\n\n" +
		"📝 After processing you will be asked to name your file.\n" +
		"Use /cancel to keep the default name.\n\n" +
		"📋 <b>File management:</b>\n" +
		"• /list - show all uploaded files\n" +
		"• /clear - clear all uploaded files"
}

func ErrorDefault() string {
	return "🚫 <b>Something went wrong</b>\nPlease try again."
}

func ErrorUnknownCommand() string {
	return "❓ Unknown command. Use /help to see all available commands."
}

func MergeWithTypoHint() string {
	return "❓ Did you mean /merge_with?\n\n" +
		"💡 Reply to a PDF and use /merge_with 1,2,3, or use /merge to see merge options."
}

func ErrorUnsupportedFile() string {
	return "❌ <b>Unsupported file type</b>\n\n" +
		"📄 Supported formats:\n" +
		"• PDF files (.pdf)\n" +
		"• image files (.jpg, .png, .gif, .bmp, .webp)"
}

func ErrorFileTooLarge(sizeMB float64, maxMB int) string {
	return fmt.Sprintf("❌ File too large (%.1fMB). Max size: %dMB.", sizeMB, maxMB)
}

func ErrorLimitReached(maxFiles int) string {
	return fmt.Sprintf("⚠️ File limit reached (%d). Use /clear to remove old files.", maxFiles)
}

func PDFReceived(fileName string, number int) string {
	return fmt.Sprintf("📄 PDF uploaded as file #%d: %s", number, Escape(fileName))
}

func ImageReceived(fileName string, imageCount int) string {
	return fmt.Sprintf("✅ Image received: %s\n\n"+
		"📁 Your uploaded images: %d\n\n"+
		"📋 Options:\n"+
		"• upload more images and use /combine_images\n"+
		"• use /convert_image to convert this image to PDF\n"+
		"• use /list to see all files", Escape(fileName), imageCount)
}

func FileListEmpty() string {
	return "📁 No files uploaded yet! Send me a PDF or image file to get started."
}

// FileList renders the registry partitioned by kind. Each section is
// numbered on its own, because commands resolve indices against the
// files of their kind: "/split 2 …" means the second PDF, not the
// second upload.
func FileList(files []types.FileEntry) string {
	var pdfs, images []string
	for _, f := range files {
		if f.Kind == types.KindImage {
			images = append(images, fmt.Sprintf("%d. %s", len(images)+1, Escape(f.Name)))
		} else {
			pdfs = append(pdfs, fmt.Sprintf("%d. %s", len(pdfs)+1, Escape(f.Name)))
		}
	}

	var b strings.Builder
	b.WriteString("📁 <b>Your uploaded files:</b>\n\n")
	if len(pdfs) > 0 {
		b.WriteString("📄 <b>PDFs:</b>\n")
		b.WriteString(strings.Join(pdfs, "\n"))
		b.WriteString("\n\n")
	}
	if len(images) > 0 {
		b.WriteString("🖼️ <b>Images:</b>\n")
		b.WriteString(strings.Join(images, "\n"))
		b.WriteString("\n\n")
	}
	b.WriteString(fmt.Sprintf("📊 <b>Total:</b> %d files\n\n", len(files)))
	b.WriteString("📋 Use commands:\n• /merge 1,2,3\n• /split 2 5-10\n• /to_images 1")
	return b.String()
}

func ClearDone() string {
	return "🗑️ All your uploaded files have been cleared!"
}

func ClearNothing() string {
	return "No files to clear!"
}

func MergePicker(primaryName string, files []types.FileEntry, primaryMessageID int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔗 <b>Merge %s with:</b>\n\n", Escape(primaryName)))
	for i, f := range files {
		if f.OriginMessageID == primaryMessageID {
			continue
		}
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, Escape(f.Name)))
	}
	b.WriteString(fmt.Sprintf("\n💡 <b>Usage:</b> /merge_with 1,2,3 (file numbers to merge with %s)", Escape(primaryName)))
	return b.String()
}

func MergeWithUsage(files []types.FileEntry) string {
	var b strings.Builder
	b.WriteString("🔗 <b>Available PDFs to merge:</b>\n\n")
	for i, f := range files {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, Escape(f.Name)))
	}
	b.WriteString("\n💡 Reply to a PDF and use /merge_with 1,2,3 to merge with it.")
	return b.String()
}

func SplitUsage() string {
	return "Please specify file number and page range.\n\n" +
		"Examples:\n" +
		"• /split 1 5-8 (split file #1, pages 5-8)\n" +
		"• /split 2 3 (split file #2, page 3 only)\n\n" +
		"Use /list to see your uploaded files.\n\n" +
		"💡 <b>Tip:</b> reply to any PDF with /split [pages]"
}

func SplitReplyUsage(fileName string) string {
	return fmt.Sprintf("📄 <b>Split %s</b>\n\n"+
		"Please specify page range:\n"+
		"• reply with /split 5-8 (pages 5 to 8)\n"+
		"• reply with /split 3 (page 3 only)", Escape(fileName))
}

func ErrorNoFiles() string {
	return "Please upload PDF files first."
}

func ErrorNoImages() string {
	return "❌ No image files found. Please upload an image first."
}

func ErrorNeedTwoFiles() string {
	return "❌ You need at least 2 files to merge. Upload more files first."
}

func ErrorNeedTwoImages(have int) string {
	return fmt.Sprintf("❌ Need at least 2 images to combine. You have %d images.", have)
}

func ErrorInvalidIndex(detail string) string {
	return fmt.Sprintf("❌ %s. Use /list to see available files.", Escape(detail))
}

func ErrorInvalidRange(detail string) string {
	return fmt.Sprintf("❌ %s", Escape(detail))
}

func OperationQueued(description string, position int) string {
	return fmt.Sprintf("⏳ <b>Queued:</b> %d\n%s", position, Escape(description))
}

func OperationStarted(description string) string {
	return fmt.Sprintf("🔄 %s...", Escape(description))
}

func AskFilename(operationInfo, extension string) string {
	return fmt.Sprintf("✅ %s\n\n"+
		"📝 <b>Please enter a filename for your %s:</b>\n"+
		"(Just type the name, the extension is added automatically)\n\n"+
		"Example: my_document → my_document%s\n\n"+
		"Or /cancel to keep the default name.",
		Escape(operationInfo), strings.TrimPrefix(extension, "."), extension)
}

func DeliveredAs(fileName string) string {
	return fmt.Sprintf("✅ File sent as %s! You can now reply to it with commands.", Escape(fileName))
}

func DeliveredDefault() string {
	return "✅ File sent with default name! You can now reply to it with commands."
}

func ErrorNoPending() string {
	return "❌ No pending file to rename. Please try the operation again."
}

func ErrorNoPendingCancel() string {
	return "❌ No pending file to cancel."
}

func ErrorConversionFailed(description string, err error) string {
	return fmt.Sprintf("❌ <b>Operation failed</b>\n%s\n\n%s", Escape(description), Escape(err.Error()))
}

func ErrorFeatureUnavailable() string {
	return "❌ This feature is not available in this deployment."
}

func TimeoutAdvisory() string {
	return "⚠️ Processing took longer than expected, but your files are likely still being processed.\n" +
		"Please wait a moment for the result."
}

func ErrorSendFailed(err error) string {
	return fmt.Sprintf("❌ Error sending file: %s", Escape(err.Error()))
}
