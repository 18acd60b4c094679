package adminpanel

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// KnownSwitches lists every action switch the panel exposes. A switch
// that has never been written is enabled.
var KnownSwitches = []string{
	"points.grant",
	"points.transfer",
	"market.manage",
	"market.destructive",
	"announcements.publish",
	"booth.redeem",
	"booth.manage",
	"admin.users",
}

const switchKeyPrefix = "switch:"

// SwitchStore holds the runtime on/off state of guarded actions
type SwitchStore interface {
	Enabled(ctx context.Context, name string) (bool, error)
	Set(ctx context.Context, name string, enabled bool) error
	All(ctx context.Context) (map[string]bool, error)
}

// NewSwitchStore returns a redis-backed store, or an in-memory one when
// redis is not configured.
func NewSwitchStore(client *redis.Client) SwitchStore {
	if client == nil {
		return &memorySwitchStore{states: make(map[string]bool)}
	}
	return &redisSwitchStore{client: client}
}

type redisSwitchStore struct {
	client *redis.Client
}

func (s *redisSwitchStore) Enabled(ctx context.Context, name string) (bool, error) {
	val, err := s.client.Get(ctx, switchKeyPrefix+name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return false, err
	}
	return val != "0", nil
}

func (s *redisSwitchStore) Set(ctx context.Context, name string, enabled bool) error {
	val := "1"
	if !enabled {
		val = "0"
	}
	return s.client.Set(ctx, switchKeyPrefix+name, val, 0).Err()
}

func (s *redisSwitchStore) All(ctx context.Context) (map[string]bool, error) {
	states := make(map[string]bool, len(KnownSwitches))
	for _, name := range KnownSwitches {
		enabled, err := s.Enabled(ctx, name)
		if err != nil {
			return nil, err
		}
		states[name] = enabled
	}
	return states, nil
}

type memorySwitchStore struct {
	mu     sync.RWMutex
	states map[string]bool
}

func (s *memorySwitchStore) Enabled(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enabled, ok := s.states[name]
	if !ok {
		return true, nil
	}
	return enabled, nil
}

func (s *memorySwitchStore) Set(_ context.Context, name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[name] = enabled
	return nil
}

func (s *memorySwitchStore) All(_ context.Context) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	states := make(map[string]bool, len(KnownSwitches))
	for _, name := range KnownSwitches {
		enabled, ok := s.states[name]
		if !ok {
			enabled = true
		}
		states[name] = enabled
	}
	return states, nil
}
