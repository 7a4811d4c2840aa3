package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/shop_api/internal/models"
)

// RedisSessions keeps sessions as JSON values that expire with the session.
type RedisSessions struct {
	Client *redis.Client
	Prefix string
}

func NewRedisSessions(client *redis.Client) *RedisSessions {
	return &RedisSessions{Client: client, Prefix: "session:"}
}

func (s *RedisSessions) key(id string) string {
	return s.Prefix + id
}

func (s *RedisSessions) CreateSession(ctx context.Context, sess *models.Session) error {
	ttl := time.Until(time.Unix(sess.ExpiresAt, 0))
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", sess.ID)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	ok, err := s.Client.SetNX(ctx, s.key(sess.ID), data, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return nil
}

func (s *RedisSessions) ActiveSession(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.Client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	if sess.Revoked || sess.ExpiresAt <= time.Now().Unix() {
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *RedisSessions) RevokeSession(ctx context.Context, id string) error {
	n, err := s.Client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
