package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

// StateName names a step of the /create conversation.
type StateName string

const (
	StateIdle             StateName = "idle"
	StateChoosingCategory StateName = "choosing_category"
	StateEnteringTitle    StateName = "entering_title"
)

// State is one Telegram user's conversation position. CategoryID is set only
// while entering a title.
type State struct {
	Name       StateName `json:"state"`
	CategoryID uint64    `json:"category_id,omitempty"`
}

// IdleState is the state of a user with no conversation in progress.
func IdleState() State {
	return State{Name: StateIdle}
}

// StateStore keeps conversation state per Telegram user. Load returns
// IdleState for users with nothing stored.
type StateStore interface {
	Load(ctx context.Context, tgUserID int64) (State, error)
	Save(ctx context.Context, tgUserID int64, state State) error
	Reset(ctx context.Context, tgUserID int64) error
}

// MemoryStateStore keeps state in process memory.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[int64]State
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[int64]State)}
}

func (s *MemoryStateStore) Load(_ context.Context, tgUserID int64) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[tgUserID]
	if !ok {
		return IdleState(), nil
	}
	return state, nil
}

func (s *MemoryStateStore) Save(_ context.Context, tgUserID int64, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state.Name == StateIdle {
		delete(s.states, tgUserID)
		return nil
	}
	s.states[tgUserID] = state
	return nil
}

func (s *MemoryStateStore) Reset(ctx context.Context, tgUserID int64) error {
	return s.Save(ctx, tgUserID, IdleState())
}

// RedisStateStore keeps state as JSON under bot:state:<tg user id>. Entries
// expire after ttl so abandoned conversations fall back to idle.
type RedisStateStore struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStateStore(client *redislib.Client, ttl time.Duration) *RedisStateStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStateStore{
		client: client,
		prefix: "bot:state:",
		ttl:    ttl,
	}
}

func (s *RedisStateStore) Load(ctx context.Context, tgUserID int64) (State, error) {
	raw, err := s.client.Get(ctx, s.key(tgUserID)).Result()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return IdleState(), nil
		}
		return State{}, fmt.Errorf("failed to load bot state: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return State{}, fmt.Errorf("failed to decode bot state: %w", err)
	}
	return state, nil
}

func (s *RedisStateStore) Save(ctx context.Context, tgUserID int64, state State) error {
	if state.Name == StateIdle {
		return s.Reset(ctx, tgUserID)
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(tgUserID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save bot state: %w", err)
	}
	return nil
}

func (s *RedisStateStore) Reset(ctx context.Context, tgUserID int64) error {
	if err := s.client.Del(ctx, s.key(tgUserID)).Err(); err != nil {
		return fmt.Errorf("failed to reset bot state: %w", err)
	}
	return nil
}

func (s *RedisStateStore) key(tgUserID int64) string {
	return fmt.Sprintf("%s%d", s.prefix, tgUserID)
}
