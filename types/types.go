package types

import "time"

type FileEntry struct {
	Name            string    `json:"name"`
	Path            string    `json:"path"`
	Kind            FileKind  `json:"kind"`
	OriginMessageID int       `json:"origin_message_id"`
	Size            int64     `json:"size,omitempty"`
	UploadedAt      time.Time `json:"uploaded_at"`
}

type Session struct {
	UserID    int64       `json:"user_id"`
	ChatID    int64       `json:"chat_id"`
	Files     []FileEntry `json:"files"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// PendingOperation is a completed conversion waiting for the user to
// choose a filename. At most one exists per user; a newer result
// replaces an unconfirmed one.
type PendingOperation struct {
	ResultPath       string     `json:"result_path"`
	ResultKind       ResultKind `json:"result_kind"`
	Description      string     `json:"description"`
	ReplyToMessageID int        `json:"reply_to_message_id"`
	CreatedAt        time.Time  `json:"created_at"`
}

type SessionStore interface {
	GetSession(userID int64) (*Session, error)
	EnsureSession(userID, chatID int64) (*Session, error)

	AddFile(userID int64, entry FileEntry) (position int, err error)
	ListFiles(userID int64) ([]FileEntry, error)
	FindByReply(userID int64, messageID int) (*FileEntry, error)
	ClearFiles(userID int64) ([]FileEntry, error)

	// SetPending installs the user's pending operation, returning the
	// one it displaced so the caller can reclaim its temp file.
	SetPending(userID int64, p PendingOperation) (*PendingOperation, error)
	TakePending(userID int64) (*PendingOperation, error)
	PeekPending(userID int64) (*PendingOperation, error)
}

type OperationRecord struct {
	UserID      int64
	Kind        string
	InputCount  int
	ResultBytes int64
	Error       string
	CreatedAt   time.Time
}

type User struct {
	UserID    int64
	ChatID    int64
	Username  string
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AuditStore interface {
	UpsertUser(user User) error
	GetUser(userID int64) (*User, error)
	RecordOperation(rec OperationRecord) error
	CountOperations(userID int64) (int, error)
}
