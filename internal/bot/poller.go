package bot

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const defaultRetryDelay = 5 * time.Second

// Poller feeds updates from a Client into a Dispatcher, one at a time.
type Poller struct {
	client     Client
	dispatcher *Dispatcher
	timeout    time.Duration
	retryDelay time.Duration
	log        *zap.Logger
	offset     int
}

func NewPoller(client Client, dispatcher *Dispatcher, timeout time.Duration, log *zap.Logger) *Poller {
	return &Poller{
		client:     client,
		dispatcher: dispatcher,
		timeout:    timeout,
		retryDelay: defaultRetryDelay,
		log:        log,
	}
}

// Offset is the ID of the next update the poller will ask for.
func (p *Poller) Offset() int {
	return p.offset
}

// Run polls until ctx is cancelled. Failed polls are retried after a pause;
// failed updates are logged and skipped.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info("bot polling started", zap.Duration("timeout", p.timeout))

	for {
		if err := ctx.Err(); err != nil {
			p.log.Info("bot polling stopped")
			return nil
		}

		if err := p.PollOnce(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.log.Error("failed to poll telegram", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(p.retryDelay):
			}
		}
	}
}

// PollOnce fetches one batch and dispatches it. The offset moves past each
// update before it is handled, so a failing update is never redelivered.
func (p *Poller) PollOnce(ctx context.Context) error {
	updates, err := p.client.GetUpdates(ctx, p.offset, p.timeout)
	if err != nil {
		return err
	}

	for _, update := range updates {
		if update.ID >= p.offset {
			p.offset = update.ID + 1
		}
		if err := p.dispatcher.Handle(ctx, update); err != nil {
			p.log.Error("failed to handle update",
				zap.Int("update_id", update.ID),
				zap.Int64("tg_user_id", update.TgUserID),
				zap.Error(err),
			)
		}
	}
	return nil
}
