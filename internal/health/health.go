package health

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Server exposes the liveness endpoints hosting platforms poll and,
// when configured, pings the bot's own public URL so free-tier hosts
// do not put it to sleep.
type Server struct {
	port          string
	keepaliveURLs []string
	interval      time.Duration
	httpClient    *http.Client
	startedAt     time.Time
}

func NewServer(port string, keepaliveURLs []string) *Server {
	if port == "" {
		port = "8080"
	}
	return &Server{
		port:          port,
		keepaliveURLs: keepaliveURLs,
		interval:      10 * time.Minute,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		startedAt:     time.Now(),
	}
}

func (s *Server) Run(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Page Craft Bot is running")
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(s.startedAt).Round(time.Second).String(),
		})
	})

	srv := &http.Server{
		Addr:    ":" + s.port,
		Handler: router,
	}

	if len(s.keepaliveURLs) > 0 {
		go s.keepalive(ctx)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Health server listening on :%s", s.port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) keepalive(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.pingAll(ctx); err != nil {
				log.Printf("Keepalive ping failed: %v", err)
			}
		}
	}
}

func (s *Server) pingAll(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, rawURL := range s.keepaliveURLs {
		url := strings.TrimSpace(rawURL)
		if url == "" {
			continue
		}
		g.Go(func() error {
			req, err := http.NewRequestWithContext(gctx, "GET", url, nil)
			if err != nil {
				return err
			}
			resp, err := s.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= http.StatusBadRequest {
				return fmt.Errorf("keepalive %s: status %s", url, resp.Status)
			}
			return nil
		})
	}
	return g.Wait()
}
