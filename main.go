package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/pagecraft/page-craft-bot/internal/config"
	"github.com/pagecraft/page-craft-bot/internal/handlers"
	"github.com/pagecraft/page-craft-bot/internal/health"
	"github.com/pagecraft/page-craft-bot/internal/middleware"
	"github.com/pagecraft/page-craft-bot/internal/pdf"
	"github.com/pagecraft/page-craft-bot/internal/worker"
	"github.com/pagecraft/page-craft-bot/store"
	"github.com/pagecraft/page-craft-bot/types"
)

func main() {
	_ = config.LoadEnvFile("config.env")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	limits := config.LoadLimits()

	var sessions types.SessionStore
	redisHost := os.Getenv("REDIS_HOST")
	if redisHost != "" {
		redisPort := os.Getenv("REDIS_PORT")
		if redisPort == "" {
			redisPort = "6379"
		}
		redisDB := 0
		if v := os.Getenv("REDIS_DB"); v != "" {
			var err error
			redisDB, err = strconv.Atoi(v)
			if err != nil {
				log.Printf("Invalid REDIS_DB value, using default: 0")
				redisDB = 0
			}
		}

		redisAddr := fmt.Sprintf("%s:%s", redisHost, redisPort)
		rdb, err := store.NewRedisClient(ctx, redisAddr, os.Getenv("REDIS_PASSWORD"), redisDB, "page_craft")
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()

		sessions = store.NewRedisSessionStore(rdb, 24, limits.MaxFilesPerUser, limits.MaxFileBytes)
		log.Println("Using Redis session store")
	} else {
		sessions = store.NewMemoryStore(limits.MaxFilesPerUser, limits.MaxFileBytes)
		log.Println("Using in-memory session store")
	}

	var audit types.AuditStore
	if os.Getenv("POSTGRES_DSN") != "" || os.Getenv("POSTGRES_HOST") != "" {
		pgStore, err := store.NewPostgresStore(ctx, os.Getenv("POSTGRES_DSN"))
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pgStore.Close()
		audit = pgStore
		log.Println("Operation audit enabled")
	}

	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		log.Fatalln("BOT_TOKEN environment variable is required")
	}

	httpClient := &http.Client{
		Timeout: 10 * time.Minute,
	}
	pollTimeout := 50 * time.Second

	b, err := bot.New(
		botToken,
		bot.WithHTTPClient(pollTimeout, httpClient),
	)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	executor := pdf.NewToolExecutor()

	pool := worker.NewPool(sessions, audit, b, worker.Config{
		Workers:    config.EnvInt("WORKERS", 3),
		JobTimeout: 5 * time.Minute,
	})
	pool.Start()
	defer pool.Stop()

	h := handlers.NewHandlers(sessions, executor, pool, limits)
	middlewares := middleware.NewMessageAnalyzer(sessions, audit)

	handlerChain := middlewares.EnsureSessionMiddleware(
		middlewares.AnalyzeMessageMiddleware(
			h.MainHandler,
		),
	)

	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.Message != nil
	}, handlerChain)

	var keepaliveURLs []string
	if raw := os.Getenv("EXTERNAL_URL"); raw != "" {
		keepaliveURLs = strings.Split(raw, ",")
	}
	healthServer := health.NewServer(os.Getenv("PORT"), keepaliveURLs)
	go func() {
		if err := healthServer.Run(ctx); err != nil {
			log.Printf("Health server error: %v", err)
		}
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	b.Start(ctx)
}
