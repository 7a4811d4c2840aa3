package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_api/internal/db/dbtest"
	"github.com/Skotchmaster/shop_api/internal/repo"
)

type published struct {
	Topic string
	Key   string
	Event Event
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{Topic: topic, Key: key, Event: event.(Event)})
	return nil
}

func (f *fakePublisher) last(t *testing.T) published {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

type services struct {
	repo    *repo.GormRepo
	pub     *fakePublisher
	auth    *AuthService
	catalog *CatalogService
	cart    *CartService
}

func newServices(t *testing.T) *services {
	t.Helper()
	r := repo.New(dbtest.Open(t))
	pub := &fakePublisher{}
	events := &Events{Pub: pub}

	return &services{
		repo: r,
		pub:  pub,
		auth: &AuthService{
			Users:    r,
			Sessions: r,
			Events:   events,
			Secret:   []byte("test-session-secret"),
			TTL:      time.Hour,
		},
		catalog: &CatalogService{Repo: r, Events: events},
		cart:    &CartService{Repo: r, Users: r, Products: r, Events: events},
	}
}

var errBroker = errors.New("broker down")
