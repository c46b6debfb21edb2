package workspace

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rwooga-storefront/internal/domain"
	"rwooga-storefront/internal/storage"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestGet_SameProfileSameWorkspace(t *testing.T) {
	r := NewRegistry(storage.NewMemory(), nil, time.Hour, nil)
	ctx := context.Background()

	a := r.Get(ctx, "p1")
	b := r.Get(ctx, "p1")
	c := r.Get(ctx, "p2")
	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, r.Len())
}

func TestProfilesAreIsolated(t *testing.T) {
	r := NewRegistry(storage.NewMemory(), nil, time.Hour, nil)
	ctx := context.Background()

	require.NoError(t, r.Get(ctx, "p1").Cart.AddItem(ctx, domain.CartItem{ID: "x", Price: 10}))
	assert.Empty(t, r.Get(ctx, "p2").Cart.State().Items)
}

func TestIdleWorkspaceReloadsFromStore(t *testing.T) {
	clk := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRegistry(storage.NewMemory(), nil, 10*time.Minute, nil)
	r.now = clk.now
	ctx := context.Background()

	first := r.Get(ctx, "p1")
	require.NoError(t, first.Cart.AddItem(ctx, domain.CartItem{ID: "x", Price: 15000}))
	require.NoError(t, first.Cart.AddItem(ctx, domain.CartItem{ID: "x", Price: 15000}))

	clk.t = clk.t.Add(11 * time.Minute)
	r.Get(ctx, "p2")
	assert.Equal(t, 1, r.Len())

	again := r.Get(ctx, "p1")
	assert.NotSame(t, first, again)
	assert.Equal(t, first.Cart.State(), again.Cart.State())
}

func TestZeroTTLNeverEvicts(t *testing.T) {
	clk := &clock{t: time.Now()}
	r := NewRegistry(storage.NewMemory(), nil, 0, nil)
	r.now = clk.now
	ctx := context.Background()

	a := r.Get(ctx, "p1")
	clk.t = clk.t.Add(1000 * time.Hour)
	assert.Same(t, a, r.Get(ctx, "p1"))
}

func TestProfileIDs(t *testing.T) {
	id := NewProfileID()
	assert.True(t, ValidProfileID(id))
	assert.NotEqual(t, id, NewProfileID())
	assert.False(t, ValidProfileID("../../etc"))
	assert.False(t, ValidProfileID(""))
}

func TestSiteScopeIsShared(t *testing.T) {
	backend := storage.NewMemory()
	r := NewRegistry(backend, nil, time.Hour, nil)
	ctx := context.Background()

	require.NoError(t, r.Site().Set(ctx, storage.KeyCustomPrinting, "true"))
	v, ok := storage.Scope(backend, storage.SiteScope, nil).Get(ctx, storage.KeyCustomPrinting)
	require.True(t, ok)
	assert.Equal(t, "true", v)
}

// gatedBackend blocks reads of one scope until release is closed.
type gatedBackend struct {
	storage.Backend
	scope   string
	release chan struct{}

	mu    sync.Mutex
	reads map[string]int
}

func (g *gatedBackend) Get(ctx context.Context, scope, key string) (string, bool, error) {
	g.mu.Lock()
	g.reads[scope]++
	g.mu.Unlock()
	if strings.HasSuffix(scope, g.scope) {
		<-g.release
	}
	return g.Backend.Get(ctx, scope, key)
}

func (g *gatedBackend) readsOf(scope string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reads[scope]
}

func TestSlowLoadDoesNotBlockOtherProfiles(t *testing.T) {
	backend := &gatedBackend{Backend: storage.NewMemory(), scope: "slow", release: make(chan struct{}), reads: map[string]int{}}
	r := NewRegistry(backend, nil, time.Hour, nil)
	ctx := context.Background()

	slow := make(chan *Workspace, 2)
	for i := 0; i < 2; i++ {
		go func() { slow <- r.Get(ctx, "slow") }()
	}

	fast := make(chan *Workspace, 1)
	go func() { fast <- r.Get(ctx, "fast") }()
	select {
	case ws := <-fast:
		assert.Equal(t, "fast", ws.ProfileID)
	case <-time.After(2 * time.Second):
		t.Fatal("loading one profile blocked another")
	}

	close(backend.release)
	a, b := <-slow, <-slow
	assert.Same(t, a, b)
	assert.Equal(t, 2, r.Len())

	// cart items, cart total, user and two tokens at most, read once.
	assert.LessOrEqual(t, backend.readsOf("profile:slow"), 5)
}

func TestCancelledFirstCallerStillLoadsState(t *testing.T) {
	backend := storage.NewMemory()
	bucket := storage.Scope(backend, "profile:p1", nil)
	require.NoError(t, bucket.SetJSON(context.Background(), storage.KeyCartItems, []domain.CartItem{{ID: "x", Price: 10}}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ws := NewRegistry(backend, nil, time.Hour, nil).Get(ctx, "p1")
	assert.Equal(t, int64(10), ws.Cart.State().Total)
	assert.Equal(t, "profile:p1", ws.Store.Name())
}
