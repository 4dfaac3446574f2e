package outbox

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memStore struct {
	mu     sync.Mutex
	rows   []OutboxEvent
	sent   map[uuid.UUID]time.Time
	txs    int
	failOn error
}

func newMemStore(rows ...OutboxEvent) *memStore {
	return &memStore{rows: rows, sent: map[uuid.UUID]time.Time{}}
}

func (m *memStore) WithTx(_ context.Context, fn func(tx Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs++

	saved := make(map[uuid.UUID]time.Time, len(m.sent))
	for k, v := range m.sent {
		saved[k] = v
	}
	if err := fn(txView{m}); err != nil {
		m.sent = saved
		return err
	}
	return nil
}

func (m *memStore) FetchUnsent(ctx context.Context, limit int) ([]OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return txView{m}.FetchUnsent(ctx, limit)
}

func (m *memStore) FetchByID(ctx context.Context, id uuid.UUID) (*OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return txView{m}.FetchByID(ctx, id)
}

func (m *memStore) MarkSent(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return txView{m}.MarkSent(ctx, ids, at)
}

func (m *memStore) CountPending(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return txView{m}.CountPending(ctx)
}

func (m *memStore) isSent(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sent[id]
	return ok
}

// txView runs against memStore with the lock already held.
type txView struct{ m *memStore }

func (v txView) FetchUnsent(_ context.Context, limit int) ([]OutboxEvent, error) {
	if v.m.failOn != nil {
		return nil, v.m.failOn
	}
	var out []OutboxEvent
	for _, r := range v.m.rows {
		if _, ok := v.m.sent[r.ID]; ok {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (v txView) FetchByID(_ context.Context, id uuid.UUID) (*OutboxEvent, error) {
	for _, r := range v.m.rows {
		if r.ID != id {
			continue
		}
		if _, ok := v.m.sent[id]; ok {
			return nil, ErrEventNotFound
		}
		ev := r
		return &ev, nil
	}
	return nil, ErrEventNotFound
}

func (v txView) MarkSent(_ context.Context, ids []uuid.UUID, at time.Time) error {
	for _, id := range ids {
		v.m.sent[id] = at
	}
	return nil
}

func (v txView) CountPending(context.Context) (int, error) {
	return len(v.m.rows) - len(v.m.sent), nil
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []OutboxEvent
	failures  map[uuid.UUID]int // remaining failures per event
	notify    chan uuid.UUID
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{failures: map[uuid.UUID]int{}, notify: make(chan uuid.UUID, 16)}
}

func (p *recordingPublisher) Publish(_ context.Context, event OutboxEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures[event.ID] != 0 {
		if p.failures[event.ID] > 0 {
			p.failures[event.ID]--
		}
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event)
	select {
	case p.notify <- event.ID:
	default:
	}
	return nil
}

func (p *recordingPublisher) ids() []uuid.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]uuid.UUID, len(p.published))
	for i, e := range p.published {
		out[i] = e.ID
	}
	return out
}

func outboxRow(eventType string, createdAt time.Time) OutboxEvent {
	return OutboxEvent{
		ID:        uuid.New(),
		DraftID:   uuid.New(),
		EventType: eventType,
		Payload:   []byte(`{"draft_id":"d"}`),
		CreatedAt: createdAt,
	}
}
