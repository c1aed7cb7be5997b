package contextkeys

import "context"

type messageTypeKey struct{}
type uploadInfoKey struct{}

type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeCommand  MessageType = "command"
	MessageTypeDocument MessageType = "document"
	MessageTypePhoto    MessageType = "photo"
	MessageTypeUnknown  MessageType = "unknown"
)

// UploadInfo describes the single file attached to an inbound message.
type UploadInfo struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

func WithMessageType(ctx context.Context, msgType MessageType) context.Context {
	return context.WithValue(ctx, messageTypeKey{}, msgType)
}

func GetMessageType(ctx context.Context) (MessageType, bool) {
	v := ctx.Value(messageTypeKey{})
	if v == nil {
		return MessageTypeUnknown, false
	}
	return v.(MessageType), true
}

func WithUploadInfo(ctx context.Context, info *UploadInfo) context.Context {
	return context.WithValue(ctx, uploadInfoKey{}, info)
}

func GetUploadInfo(ctx context.Context) (*UploadInfo, bool) {
	v := ctx.Value(uploadInfoKey{})
	if v == nil {
		return nil, false
	}
	return v.(*UploadInfo), true
}
