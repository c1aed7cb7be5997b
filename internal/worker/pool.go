package worker

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/go-telegram/bot"

	"github.com/pagecraft/page-craft-bot/internal/messages"
	"github.com/pagecraft/page-craft-bot/internal/pdf"
	"github.com/pagecraft/page-craft-bot/types"
)

// Job is one queued document operation. Execute produces the result file
// and returns its path; the pool owns the result from then on until the
// filename negotiation hands it to the user.
type Job struct {
	ID          string
	UserID      int64
	ChatID      int64
	Kind        string
	Description string
	ResultKind  types.ResultKind
	InputCount  int
	Execute     func(ctx context.Context) (string, error)
}

type Pool struct {
	sessions   types.SessionStore
	audit      types.AuditStore
	botClient  *bot.Bot
	workers    int
	jobTimeout time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.Mutex
	running    bool
	jobQueue   chan *Job
	inFlight   map[string]*inFlightEntry
	inFlightMu sync.RWMutex
}

type inFlightEntry struct {
	chatID      int64
	messageID   int
	position    int
	description string
}

type Config struct {
	Workers    int
	JobTimeout time.Duration
}

func NewPool(sessions types.SessionStore, audit types.AuditStore, botClient *bot.Bot, config Config) *Pool {
	if config.Workers <= 0 {
		config.Workers = 3
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = 5 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())

	queueSize := config.Workers * 2
	if queueSize < 10 {
		queueSize = 10
	}

	return &Pool{
		sessions:   sessions,
		audit:      audit,
		botClient:  botClient,
		workers:    config.Workers,
		jobTimeout: config.JobTimeout,
		ctx:        ctx,
		cancel:     cancel,
		jobQueue:   make(chan *Job, queueSize),
		inFlight:   make(map[string]*inFlightEntry),
	}
}

func (p *Pool) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	log.Printf("Worker pool started with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	log.Println("Stopping worker pool...")
	p.cancel()
	p.wg.Wait()
	log.Println("Worker pool stopped")
}

// Enqueue schedules the job and returns its queue position: 0 means a
// worker picks it up immediately, N means N jobs run or wait ahead of it.
// statusMessageID is the progress message the pool edits as the queue
// drains and deletes when the job finishes.
func (p *Pool) Enqueue(job *Job, statusMessageID int) int {
	p.inFlightMu.Lock()
	if _, exists := p.inFlight[job.ID]; exists {
		p.inFlightMu.Unlock()
		return -1
	}

	running := 0
	maxPos := 0
	for _, e := range p.inFlight {
		if e.position == 0 {
			running++
			continue
		}
		if e.position > maxPos {
			maxPos = e.position
		}
	}

	position := 0
	if running >= p.workers {
		position = maxPos + 1
	}

	p.inFlight[job.ID] = &inFlightEntry{
		chatID:      job.ChatID,
		messageID:   statusMessageID,
		position:    position,
		description: job.Description,
	}
	p.inFlightMu.Unlock()

	go func() {
		select {
		case p.jobQueue <- job:
		case <-p.ctx.Done():
			p.inFlightMu.Lock()
			delete(p.inFlight, job.ID)
			p.inFlightMu.Unlock()
		}
	}()

	return position
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	log.Printf("Worker %d started", id)

	for {
		select {
		case <-p.ctx.Done():
			log.Printf("Worker %d stopped", id)
			return
		case job := <-p.jobQueue:
			if err := p.processJob(job); err != nil {
				log.Printf("Worker %d: job %s (%s) failed: %v", id, job.ID, job.Kind, err)
			}

			p.inFlightMu.RLock()
			entry := p.inFlight[job.ID]
			p.inFlightMu.RUnlock()
			if entry != nil && entry.chatID != 0 && entry.messageID != 0 {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				_, err := p.botClient.DeleteMessage(ctx, &bot.DeleteMessageParams{
					ChatID:    entry.chatID,
					MessageID: entry.messageID,
				})
				cancel()
				if err != nil {
					log.Printf("Failed to delete status message chat=%d msg=%d: %v", entry.chatID, entry.messageID, err)
				}
			}

			p.inFlightMu.Lock()
			delete(p.inFlight, job.ID)
			p.inFlightMu.Unlock()

			go p.advanceQueueMessages()
		}
	}
}

func (p *Pool) advanceQueueMessages() {
	type upd struct {
		chatID    int64
		messageID int
		text      string
	}
	updates := make([]upd, 0)

	p.inFlightMu.Lock()
	for _, entry := range p.inFlight {
		if entry.position == 0 {
			continue
		}

		entry.position--

		if entry.chatID == 0 || entry.messageID == 0 {
			continue
		}

		if entry.position == 0 {
			updates = append(updates, upd{
				chatID:    entry.chatID,
				messageID: entry.messageID,
				text:      messages.OperationStarted(entry.description),
			})
		} else {
			updates = append(updates, upd{
				chatID:    entry.chatID,
				messageID: entry.messageID,
				text:      messages.OperationQueued(entry.description, entry.position),
			})
		}
	}
	p.inFlightMu.Unlock()

	if len(updates) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	for _, u := range updates {
		_, err := p.botClient.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    u.chatID,
			MessageID: u.messageID,
			Text:      u.text,
			ParseMode: messages.ParseModeHTML,
		})
		if err != nil {
			log.Printf("Queue update: failed to edit message chat=%d msg=%d: %v", u.chatID, u.messageID, err)
		}
	}
}

func (p *Pool) processJob(job *Job) error {
	log.Printf("Processing job %s: %s for user %d", job.ID, job.Kind, job.UserID)

	ctx, cancel := context.WithTimeout(context.Background(), p.jobTimeout)
	defer cancel()

	resultPath, err := job.Execute(ctx)
	p.recordOperation(job, resultPath, err)
	if err != nil {
		p.reportFailure(ctx, job, err)
		return err
	}

	displaced, err := p.sessions.SetPending(job.UserID, types.PendingOperation{
		ResultPath:  resultPath,
		ResultKind:  job.ResultKind,
		Description: job.Description,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		_ = os.Remove(resultPath)
		p.reportFailure(ctx, job, err)
		return err
	}
	if displaced != nil && displaced.ResultPath != "" {
		if err := os.Remove(displaced.ResultPath); err != nil && !os.IsNotExist(err) {
			log.Printf("Error removing displaced result %s: %v", displaced.ResultPath, err)
		}
	}

	_, err = p.botClient.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    job.ChatID,
		Text:      messages.AskFilename(job.Description, job.ResultKind.Extension()),
		ParseMode: messages.ParseModeHTML,
	})
	if err != nil {
		log.Printf("Error sending filename prompt for job %s: %v", job.ID, err)
		return err
	}

	log.Printf("Job %s completed, awaiting filename", job.ID)
	return nil
}

func (p *Pool) reportFailure(ctx context.Context, job *Job, err error) {
	text := failureText(job.Description, err, ctx.Err())

	sendCtx := ctx
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}

	p.botClient.SendMessage(sendCtx, &bot.SendMessageParams{
		ChatID:    job.ChatID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	})
}

// failureText picks the user-facing message for a failed job. The job
// context's own error is checked as well: when the deadline kills the
// external tool, the exec error reports the signal, not the deadline.
func failureText(description string, err, ctxErr error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctxErr, context.DeadlineExceeded):
		return messages.TimeoutAdvisory()
	case errors.Is(err, pdf.ErrToolUnavailable):
		return messages.ErrorFeatureUnavailable()
	default:
		return messages.ErrorConversionFailed(description, err)
	}
}

func (p *Pool) recordOperation(job *Job, resultPath string, opErr error) {
	if p.audit == nil {
		return
	}

	rec := types.OperationRecord{
		UserID:     job.UserID,
		Kind:       job.Kind,
		InputCount: job.InputCount,
	}
	if opErr != nil {
		rec.Error = opErr.Error()
	} else if info, err := os.Stat(resultPath); err == nil {
		rec.ResultBytes = info.Size()
	}

	if err := p.audit.RecordOperation(rec); err != nil {
		log.Printf("Error recording operation for user %d: %v", job.UserID, err)
	}
}
