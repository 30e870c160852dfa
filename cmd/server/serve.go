package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yukikurage/goal-tracker-api/internal/bot"
	"github.com/yukikurage/goal-tracker-api/internal/router"
	"github.com/yukikurage/goal-tracker-api/internal/services"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(a.cfg.GinMode)

	db, err := a.openDB()
	if err != nil {
		return err
	}

	store, err := redisStore.NewStore(
		10,
		"tcp",
		a.cfg.RedisAddr(),
		a.cfg.RedisPassword,
		[]byte(a.cfg.SessionSecret),
	)
	if err != nil {
		return fmt.Errorf("failed to create redis session store: %w", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   a.cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})

	var suggester services.GoalSuggester
	if a.cfg.OpenAIAPIKey != "" {
		suggester = services.NewAIService(a.cfg.OpenAIAPIKey)
	}

	var notifier services.Notifier
	if a.cfg.TelegramToken != "" {
		client, err := bot.NewTelegramClient(a.cfg.TelegramToken)
		if err != nil {
			a.log.Warn("telegram unavailable, verification will not notify chats", zap.Error(err))
		} else {
			notifier = client
		}
	}

	svc := router.NewServices(db, suggester, notifier, a.log)
	engine := router.New(router.NewHandlers(svc, a.log), store, a.log)

	srv := &http.Server{
		Addr:    a.cfg.HTTPAddr,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server starting", zap.String("addr", a.cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
