package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/suPer8Hu/godchat/internal/session"
)

func (s *Store) sessionKey(id string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, id)
}

// Save implements session.Store; redis expires the key after ttl.
func (s *Store) Save(ctx context.Context, id string, d session.Data, ttl time.Duration) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.sessionKey(id), b, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, id string) (session.Data, error) {
	b, err := s.client.Get(ctx, s.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Data{}, session.ErrNotFound
		}
		return session.Data{}, fmt.Errorf("load session: %w", err)
	}
	var d session.Data
	if err := json.Unmarshal(b, &d); err != nil {
		return session.Data{}, fmt.Errorf("decode session: %w", err)
	}
	return d, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

var _ session.Store = (*Store)(nil)
