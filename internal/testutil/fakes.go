package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"medimarket/internal/domain/entity"
	"medimarket/internal/domain/port"

	"github.com/google/uuid"
)

// FakeGateway hands out sequential gateway order ids.
type FakeGateway struct {
	mu       sync.Mutex
	Requests []port.GatewayOrderRequest
	Err      error
}

func (g *FakeGateway) CreateOrder(_ context.Context, req port.GatewayOrderRequest) (*port.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Err != nil {
		return nil, g.Err
	}
	g.Requests = append(g.Requests, req)
	return &port.GatewayOrder{
		ID:          fmt.Sprintf("order_test%04d", len(g.Requests)),
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		Status:      "created",
	}, nil
}

// FakePublisher records published order events.
type FakePublisher struct {
	mu     sync.Mutex
	Events []port.OrderEvent
}

func (p *FakePublisher) PublishOrderEvent(_ context.Context, event port.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
	return nil
}

// Types returns the recorded event types in publish order.
func (p *FakePublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	types := make([]string, len(p.Events))
	for i, e := range p.Events {
		types[i] = e.Type
	}
	return types
}

// FakeSearcher answers searches from a fixed hit list, or fails with Err.
type FakeSearcher struct {
	mu      sync.Mutex
	Hits    []uuid.UUID
	Err     error
	Indexed map[uuid.UUID]string
	Batches int
	Removed []uuid.UUID
}

func NewFakeSearcher() *FakeSearcher {
	return &FakeSearcher{Indexed: map[uuid.UUID]string{}}
}

func (s *FakeSearcher) Search(_ context.Context, _ string, _ int) ([]uuid.UUID, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Hits, nil
}

func (s *FakeSearcher) Index(_ context.Context, medicine *entity.Medicine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Indexed[medicine.ID] = medicine.Name
	return nil
}

func (s *FakeSearcher) IndexBatch(_ context.Context, medicines []entity.Medicine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Batches++
	for _, m := range medicines {
		s.Indexed[m.ID] = m.Name
	}
	return nil
}

func (s *FakeSearcher) Remove(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Indexed, id)
	s.Removed = append(s.Removed, id)
	return nil
}

// FakeNotifier records catalog change notifications.
type FakeNotifier struct {
	mu      sync.Mutex
	Changes []entity.MedicineChange
}

func (n *FakeNotifier) Notify(_ context.Context, change entity.MedicineChange) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Changes = append(n.Changes, change)
	return nil
}

func (n *FakeNotifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Changes)
}

// FakeIdentityCache is an in-memory identity cache.
type FakeIdentityCache struct {
	mu    sync.Mutex
	Users map[string]entity.User
	Err   error
}

func NewFakeIdentityCache() *FakeIdentityCache {
	return &FakeIdentityCache{Users: map[string]entity.User{}}
}

func (c *FakeIdentityCache) Get(_ context.Context, authID string) (*entity.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}
	user, ok := c.Users[authID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (c *FakeIdentityCache) Set(_ context.Context, authID string, user *entity.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Users[authID] = *user
	return nil
}

func (c *FakeIdentityCache) Delete(_ context.Context, authID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Users, authID)
	return nil
}

// FakeDenylist is an in-memory token denylist.
type FakeDenylist struct {
	mu      sync.Mutex
	Revoked map[string]time.Duration
}

func NewFakeDenylist() *FakeDenylist {
	return &FakeDenylist{Revoked: map[string]time.Duration{}}
}

func (d *FakeDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return errors.New("empty token id")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Revoked[tokenID] = ttl
	return nil
}

func (d *FakeDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.Revoked[tokenID]
	return ok, nil
}
