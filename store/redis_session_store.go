package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pagecraft/page-craft-bot/types"
)

// RedisSessionStore persists sessions and pending operations in Redis
// with a TTL, so an idle user's files age out on their own.
type RedisSessionStore struct {
	client       *RedisClient
	ttl          time.Duration
	maxFiles     int
	maxFileBytes int64
}

func NewRedisSessionStore(client *RedisClient, ttlHours int, maxFiles int, maxFileBytes int64) *RedisSessionStore {
	ttl := time.Duration(ttlHours) * time.Hour
	if ttlHours <= 0 {
		ttl = 24 * time.Hour
	}
	if maxFiles <= 0 {
		maxFiles = 5
	}
	if maxFileBytes <= 0 {
		maxFileBytes = 10 << 20
	}

	return &RedisSessionStore{
		client:       client,
		ttl:          ttl,
		maxFiles:     maxFiles,
		maxFileBytes: maxFileBytes,
	}
}

func (s *RedisSessionStore) sessionKey(userID int64) string {
	return s.client.generateKey("session", fmt.Sprintf("%d", userID))
}

func (s *RedisSessionStore) pendingKey(userID int64) string {
	return s.client.generateKey("pending", fmt.Sprintf("%d", userID))
}

func (s *RedisSessionStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

func (s *RedisSessionStore) GetSession(userID int64) (*types.Session, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var session types.Session
	if err := s.client.Get(ctx, s.sessionKey(userID), &session); err != nil {
		return nil, nil
	}
	return &session, nil
}

func (s *RedisSessionStore) saveSession(session *types.Session) error {
	ctx, cancel := s.ctx()
	defer cancel()

	session.UpdatedAt = time.Now()
	return s.client.Set(ctx, s.sessionKey(session.UserID), session, s.ttl)
}

func (s *RedisSessionStore) EnsureSession(userID, chatID int64) (*types.Session, error) {
	session, _ := s.GetSession(userID)
	if session == nil {
		now := time.Now()
		session = &types.Session{
			UserID:    userID,
			ChatID:    chatID,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	if chatID != 0 {
		session.ChatID = chatID
	}
	if err := s.saveSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *RedisSessionStore) AddFile(userID int64, entry types.FileEntry) (int, error) {
	session, err := s.GetSession(userID)
	if err != nil {
		return 0, err
	}
	if session == nil {
		session, err = s.EnsureSession(userID, 0)
		if err != nil {
			return 0, err
		}
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
	if err := s.saveSession(session); err != nil {
		return 0, err
	}
	return len(session.Files), nil
}

func (s *RedisSessionStore) ListFiles(userID int64) ([]types.FileEntry, error) {
	session, err := s.GetSession(userID)
	if err != nil || session == nil {
		return nil, err
	}
	return session.Files, nil
}

func (s *RedisSessionStore) FindByReply(userID int64, messageID int) (*types.FileEntry, error) {
	if messageID == 0 {
		return nil, nil
	}

	session, err := s.GetSession(userID)
	if err != nil || session == nil {
		return nil, err
	}
	for i := range session.Files {
		if session.Files[i].OriginMessageID == messageID {
			entry := session.Files[i]
			return &entry, nil
		}
	}
	return nil, nil
}

func (s *RedisSessionStore) ClearFiles(userID int64) ([]types.FileEntry, error) {
	session, err := s.GetSession(userID)
	if err != nil || session == nil {
		return nil, err
	}

	removed := session.Files
	session.Files = nil
	if err := s.saveSession(session); err != nil {
		return nil, err
	}

	for _, entry := range removed {
		if entry.Path != "" {
			_ = os.Remove(entry.Path)
		}
	}
	return removed, nil
}

func (s *RedisSessionStore) SetPending(userID int64, p types.PendingOperation) (*types.PendingOperation, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	var previous *types.PendingOperation
	var existing types.PendingOperation
	if err := s.client.Get(ctx, s.pendingKey(userID), &existing); err == nil {
		previous = &existing
	}

	if err := s.client.Set(ctx, s.pendingKey(userID), &p, s.ttl); err != nil {
		return nil, err
	}
	return previous, nil
}

func (s *RedisSessionStore) TakePending(userID int64) (*types.PendingOperation, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var p types.PendingOperation
	if err := s.client.Get(ctx, s.pendingKey(userID), &p); err != nil {
		return nil, ErrNoPending
	}
	if err := s.client.Del(ctx, s.pendingKey(userID)); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *RedisSessionStore) PeekPending(userID int64) (*types.PendingOperation, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var p types.PendingOperation
	if err := s.client.Get(ctx, s.pendingKey(userID), &p); err != nil {
		return nil, ErrNoPending
	}
	return &p, nil
}
