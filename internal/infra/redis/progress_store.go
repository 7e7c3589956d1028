package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"promptquest/internal/domain"
	"promptquest/internal/domain/model"
	"promptquest/internal/domain/ports/repository"
	"promptquest/internal/infra/metrics"
	"promptquest/internal/infra/security"
)

const progressKeyPrefix = "progress:"

var _ repository.ProgressStore = (*ProgressStore)(nil)

// ProgressStore persists per-session game progress as JSON under
// "progress:<session-id>" with a sliding TTL. When an EncryptionService is
// supplied, payloads are sealed before they reach Redis.
type ProgressStore struct {
	client RedisClient
	ttl    time.Duration
	enc    *security.EncryptionService
}

func NewProgressStore(client RedisClient, ttl time.Duration, enc *security.EncryptionService) *ProgressStore {
	return &ProgressStore{
		client: client,
		ttl:    ttl,
		enc:    enc,
	}
}

func (s *ProgressStore) Get(ctx context.Context, sessionID string) (*model.UserProgress, error) {
	data, err := s.client.Get(ctx, progressKeyPrefix+sessionID)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			metrics.IncCacheRequest("progress", "miss")
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	metrics.IncCacheRequest("progress", "hit")

	p, err := s.decode(data)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProgressStore) Set(ctx context.Context, sessionID string, p *model.UserProgress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	payload := string(data)
	if s.enc != nil {
		payload, err = s.enc.Encrypt(payload)
		if err != nil {
			return err
		}
	}
	return s.client.Set(ctx, progressKeyPrefix+sessionID, payload, s.ttl)
}

func (s *ProgressStore) decode(data string) (*model.UserProgress, error) {
	if s.enc != nil {
		pt, err := s.enc.Decrypt(data)
		if err != nil {
			return nil, err
		}
		data = pt
	}
	var p model.UserProgress
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProgressStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, progressKeyPrefix+sessionID)
}

func (s *ProgressStore) All(ctx context.Context) (map[string]*model.UserProgress, error) {
	out := make(map[string]*model.UserProgress)
	err := s.client.Scan(ctx, progressKeyPrefix+"*", func(key string) error {
		data, err := s.client.Get(ctx, key)
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				return nil // expired between SCAN and GET
			}
			return err
		}
		p, err := s.decode(data)
		if err != nil {
			return nil // skip corrupt entries rather than failing stats
		}
		out[strings.TrimPrefix(key, progressKeyPrefix)] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProgressStore) Reset(ctx context.Context) error {
	var keys []string
	err := s.client.Scan(ctx, progressKeyPrefix+"*", func(key string) error {
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...)
}
