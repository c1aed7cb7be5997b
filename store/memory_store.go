package store

import (
	"os"
	"sync"
	"time"

	"github.com/pagecraft/page-craft-bot/types"
)

// MemoryStore keeps sessions in process memory. It is the default
// SessionStore when no Redis is configured and the one the tests use.
type MemoryStore struct {
	mu           sync.RWMutex
	sessions     map[int64]*types.Session
	pending      map[int64]*types.PendingOperation
	maxFiles     int
	maxFileBytes int64
}

func NewMemoryStore(maxFiles int, maxFileBytes int64) *MemoryStore {
	if maxFiles <= 0 {
		maxFiles = 5
	}
	if maxFileBytes <= 0 {
		maxFileBytes = 10 << 20
	}
	return &MemoryStore{
		sessions:     make(map[int64]*types.Session),
		pending:      make(map[int64]*types.PendingOperation),
		maxFiles:     maxFiles,
		maxFileBytes: maxFileBytes,
	}
}

func (s *MemoryStore) GetSession(userID int64) (*types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	copied := *session
	copied.Files = append([]types.FileEntry(nil), session.Files...)
	return &copied, nil
}

func (s *MemoryStore) EnsureSession(userID, chatID int64) (*types.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		now := time.Now()
		session = &types.Session{
			UserID:    userID,
			ChatID:    chatID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.sessions[userID] = session
	}
	if chatID != 0 {
		session.ChatID = chatID
	}
	copied := *session
	copied.Files = append([]types.FileEntry(nil), session.Files...)
	return &copied, nil
}

func (s *MemoryStore) AddFile(userID int64, entry types.FileEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		now := time.Now()
		session = &types.Session{UserID: userID, CreatedAt: now, UpdatedAt: now}
		s.sessions[userID] = session
	}

	if len(session.Files) >= s.maxFiles {
		return 0, ErrLimitExceeded
	}
	if entry.Size > s.maxFileBytes {
		return 0, ErrLimitExceeded
	}

	if entry.UploadedAt.IsZero() {
		entry.UploadedAt = time.Now()
	}
	session.Files = append(session.Files, entry)
	session.UpdatedAt = time.Now()
	return len(session.Files), nil
}

func (s *MemoryStore) ListFiles(userID int64) ([]types.FileEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	return append([]types.FileEntry(nil), session.Files...), nil
}

func (s *MemoryStore) FindByReply(userID int64, messageID int) (*types.FileEntry, error) {
	if messageID == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	for i := range session.Files {
		if session.Files[i].OriginMessageID == messageID {
			entry := session.Files[i]
			return &entry, nil
		}
	}
	return nil, nil
}

// ClearFiles drops the user's registry and removes the backing files.
// Idempotent: clearing an empty registry is not an error.
func (s *MemoryStore) ClearFiles(userID int64) ([]types.FileEntry, error) {
	s.mu.Lock()
	session, ok := s.sessions[userID]
	var removed []types.FileEntry
	if ok {
		removed = session.Files
		session.Files = nil
		session.UpdatedAt = time.Now()
	}
	s.mu.Unlock()

	for _, entry := range removed {
		if entry.Path != "" {
			_ = os.Remove(entry.Path)
		}
	}
	return removed, nil
}

func (s *MemoryStore) SetPending(userID int64, p types.PendingOperation) (*types.PendingOperation, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.pending[userID]
	s.pending[userID] = &p
	return previous, nil
}

func (s *MemoryStore) TakePending(userID int64) (*types.PendingOperation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[userID]
	if !ok {
		return nil, ErrNoPending
	}
	delete(s.pending, userID)
	return p, nil
}

func (s *MemoryStore) PeekPending(userID int64) (*types.PendingOperation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pending[userID]
	if !ok {
		return nil, ErrNoPending
	}
	copied := *p
	return &copied, nil
}
