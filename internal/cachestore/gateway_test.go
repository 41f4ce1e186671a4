package cachestore

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/seonu/homefeed-go/internal/domain"
	pkgerrors "github.com/seonu/homefeed-go/pkg/errors"
	"go.uber.org/zap"
)

type memStore struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	puts   int
	getErr error
	putErr error
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return false, m.getErr
	}
	data, ok := m.blobs[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (m *memStore) Put(_ context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.blobs[key] = data
	m.puts++
	return nil
}

func (m *memStore) Ping(context.Context) error { return nil }

func (m *memStore) putCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

func seedPayload(t *testing.T, store *memStore, age time.Duration) {
	t.Helper()
	payload := &domain.FeedPayload{
		Movies:    []*domain.CardItem{{RecID: 1, Title: "Seeded"}},
		UpdatedAt: time.Now().Add(-age),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	store.mu.Lock()
	store.blobs[FeedKey] = data
	store.mu.Unlock()
}

func TestGatewayReadFresh(t *testing.T) {
	store := newMemStore()
	seedPayload(t, store, 5*time.Minute)

	g := NewGateway(store, zap.NewNop())
	payload, fresh := g.Read(context.Background())

	if !fresh {
		t.Error("a 5-minute-old payload is inside the 10-minute window")
	}
	if payload == nil || len(payload.Movies) != 1 {
		t.Fatalf("payload content lost: %+v", payload)
	}
}

func TestGatewayReadStale(t *testing.T) {
	store := newMemStore()
	seedPayload(t, store, 15*time.Minute)

	g := NewGateway(store, zap.NewNop())
	payload, fresh := g.Read(context.Background())

	if fresh {
		t.Error("a 15-minute-old payload must not be served as fresh")
	}
	if payload == nil {
		t.Error("stale payload should still be returned for inspection")
	}
}

func TestGatewayReadMissing(t *testing.T) {
	g := NewGateway(newMemStore(), zap.NewNop())
	payload, fresh := g.Read(context.Background())
	if fresh || payload != nil {
		t.Errorf("empty store must report a miss, got fresh=%v payload=%v", fresh, payload)
	}
}

func TestGatewayReadErrorForcesRebuild(t *testing.T) {
	store := newMemStore()
	store.getErr = pkgerrors.NewCacheError("boom", "get", FeedKey, nil)

	g := NewGateway(store, zap.NewNop())
	payload, fresh := g.Read(context.Background())
	if fresh || payload != nil {
		t.Error("read failures must be swallowed and report a miss")
	}
}

func TestGatewayReadZeroTimestampIsStale(t *testing.T) {
	store := newMemStore()
	data, err := json.Marshal(&domain.FeedPayload{})
	if err != nil {
		t.Fatal(err)
	}
	store.blobs[FeedKey] = data

	g := NewGateway(store, zap.NewNop())
	if _, fresh := g.Read(context.Background()); fresh {
		t.Error("a payload without a timestamp must never be fresh")
	}
}

func TestGatewayWriteAsyncReachesStore(t *testing.T) {
	store := newMemStore()
	g := NewGateway(store, zap.NewNop())

	g.WriteAsync(&domain.FeedPayload{UpdatedAt: time.Now()})

	deadline := time.Now().Add(2 * time.Second)
	for store.putCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("write-back never reached the store")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestGatewayWriteAsyncSwallowsFailure(t *testing.T) {
	store := newMemStore()
	store.putErr = pkgerrors.NewCacheError("refused", "put", FeedKey, nil)

	g := NewGateway(store, zap.NewNop())
	g.WriteAsync(&domain.FeedPayload{UpdatedAt: time.Now()})

	// Nothing to assert beyond "no panic"; give the goroutine a moment.
	time.Sleep(50 * time.Millisecond)
}
