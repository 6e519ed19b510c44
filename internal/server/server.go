package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"go-openclaw-mailer/internal/conversation"
	"go-openclaw-mailer/internal/telegram"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SubmitFunc hands a translated event to the dispatcher.
type SubmitFunc func(ev conversation.Event) error

type Server struct {
	port   string
	debug  bool
	submit SubmitFunc
}

func New(port string, debug bool, submit SubmitFunc) *Server {
	return &Server{port: port, debug: debug, submit: submit}
}

func (s *Server) Router() *gin.Engine {
	if !s.debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "OpenClaw Mailer is running!",
			"status":  "healthy",
		})
	})
	r.POST("/webhook", s.webhook)
	return r
}

// webhook always answers 200 "ok": Telegram only needs the delivery
// acknowledged, and problems are logged here.
func (s *Server) webhook(c *gin.Context) {
	defer c.String(http.StatusOK, "ok")

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("⚠️ Unreadable webhook body: %v", err)
		return
	}
	if s.debug {
		log.Printf("📨 Webhook payload: %s", raw)
	}

	var update tgbotapi.Update
	if err := json.Unmarshal(raw, &update); err != nil {
		log.Printf("⚠️ Malformed webhook payload: %v", err)
		return
	}

	ev, ok := telegram.ToEvent(update)
	if !ok {
		return
	}
	if err := s.submit(ev); err != nil {
		log.Printf("❌ Dropped update %d: %v", update.UpdateID, err)
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🌐 Server listening on port %s", s.port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Println("🛑 Shutting down server")
	return srv.Shutdown(shutdownCtx)
}
