package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/yukikurage/goal-tracker-api/internal/bot"
	"github.com/yukikurage/goal-tracker-api/internal/router"
	"go.uber.org/zap"
)

func newRunBotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "runbot",
		Short: "Run the Telegram bot long-poll loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBot(cmd.Context())
		},
	}
}

func (a *app) runBot(parent context.Context) error {
	if a.cfg.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := a.openDB()
	if err != nil {
		return err
	}

	client, err := bot.NewTelegramClient(a.cfg.TelegramToken)
	if err != nil {
		return err
	}
	a.log.Info("telegram bot authorized", zap.String("username", client.Username()))

	states, closeStates, err := a.stateStore(ctx)
	if err != nil {
		return err
	}
	defer closeStates()

	svc := router.NewServices(db, nil, client, a.log)
	dispatcher := bot.NewDispatcher(svc.Bot, states, client, a.log)
	return bot.NewPoller(client, dispatcher, a.cfg.BotPollTimeout, a.log).Run(ctx)
}

func (a *app) stateStore(ctx context.Context) (bot.StateStore, func(), error) {
	if a.cfg.BotStateBackend == "memory" {
		a.log.Info("bot state kept in memory")
		return bot.NewMemoryStateStore(), func() {}, nil
	}

	client := redislib.NewClient(&redislib.Options{
		Addr:     a.cfg.RedisAddr(),
		Password: a.cfg.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return bot.NewRedisStateStore(client, a.cfg.BotStateTTL), func() { client.Close() }, nil
}
