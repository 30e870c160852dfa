package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Update is the part of a Telegram update the bot reacts to. Updates without
// a text message still carry their ID so the poll offset advances past them.
type Update struct {
	ID       int
	TgUserID int64
	ChatID   int64
	Text     string
}

// HasMessage reports whether the update came from a user message.
func (u Update) HasMessage() bool {
	return u.TgUserID != 0
}

// Client is the Telegram transport used by the poller and the dispatcher.
type Client interface {
	GetUpdates(ctx context.Context, offset int, timeout time.Duration) ([]Update, error)
	SendMessage(chatID int64, text string) error
}

// TelegramClient talks to the Bot API through telegram-bot-api.
type TelegramClient struct {
	api *tgbotapi.BotAPI
}

// NewTelegramClient authenticates token against the Bot API.
func NewTelegramClient(token string) (*TelegramClient, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return &TelegramClient{api: api}, nil
}

// Username returns the bot account's username.
func (c *TelegramClient) Username() string {
	return c.api.Self.UserName
}

type pollResult struct {
	updates []tgbotapi.Update
	err     error
}

// GetUpdates long-polls for updates starting at offset. It returns as soon
// as ctx is done; the abandoned request's updates are not confirmed, so
// Telegram delivers them again on the next poll.
func (c *TelegramClient) GetUpdates(ctx context.Context, offset int, timeout time.Duration) ([]Update, error) {
	cfg := tgbotapi.NewUpdate(offset)
	cfg.Timeout = int(timeout.Seconds())

	done := make(chan pollResult, 1)
	go func() {
		raw, err := c.api.GetUpdates(cfg)
		done <- pollResult{updates: raw, err: err}
	}()

	var res pollResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", res.err)
	}

	updates := make([]Update, 0, len(res.updates))
	for _, u := range res.updates {
		updates = append(updates, fromAPIUpdate(u))
	}
	return updates, nil
}

// SendMessage sends a plain text message to chatID.
func (c *TelegramClient) SendMessage(chatID int64, text string) error {
	if _, err := c.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func fromAPIUpdate(u tgbotapi.Update) Update {
	update := Update{ID: u.UpdateID}
	msg := u.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return update
	}
	update.TgUserID = msg.From.ID
	update.ChatID = msg.Chat.ID
	update.Text = msg.Text
	return update
}
