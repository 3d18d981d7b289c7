package store

import (
	"context"
	"sync"

	"github.com/Pallinder/go-randomdata"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// memSnapshots is a minimal cart.SnapshotStore for tests
type memSnapshots struct {
	mu   sync.Mutex
	data map[string][]byte
	puts int
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{data: make(map[string][]byte)}
}

func (m *memSnapshots) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return v, nil
}

func (m *memSnapshots) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	m.puts++
	return nil
}

func (m *memSnapshots) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memSnapshots) putCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func newItem(id int64, price string) cart.CartItem {
	return cart.CartItem{
		ID:       id,
		Title:    randomdata.SillyName(),
		Price:    decimal.RequireFromString(price),
		Image:    "https://cdn.dummyjson.com/products/images/" + randomdata.Noun() + ".png",
		Quantity: 1,
	}
}

func priceOf(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}
