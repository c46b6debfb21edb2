// Package workspace keeps one cart and one session per browser profile. A
// workspace is built from the profile's store the first time it is needed and
// rebuilt the same way after it has been evicted for idleness.
package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rwooga-storefront/internal/cart"
	"rwooga-storefront/internal/session"
	"rwooga-storefront/internal/storage"
)

const profileScopePrefix = "profile:"

// Workspace is the state of one profile.
type Workspace struct {
	ProfileID string
	Cart      *cart.Cart
	Session   *session.Context
	Store     *storage.Bucket
}

// entry is a registry slot. The workspace is loaded once, outside the
// registry lock, by whichever caller arrives first.
type entry struct {
	once     sync.Once
	ws       *Workspace
	lastSeen time.Time
}

// Registry hands out workspaces by profile id.
type Registry struct {
	backend storage.Backend
	api     session.API
	idleTTL time.Duration
	logger  *zap.Logger
	now     func() time.Time

	mu        sync.Mutex
	spaces    map[string]*entry
	lastSweep time.Time
}

// NewRegistry builds a Registry. An idleTTL of zero keeps workspaces forever.
func NewRegistry(backend storage.Backend, api session.API, idleTTL time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		backend: backend,
		api:     api,
		idleTTL: idleTTL,
		logger:  logger,
		now:     time.Now,
		spaces:  make(map[string]*entry),
	}
}

// NewProfileID returns a fresh random profile id.
func NewProfileID() string {
	return uuid.NewString()
}

// ValidProfileID reports whether id looks like an id issued by NewProfileID.
func ValidProfileID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns the workspace of profileID, loading it from the store if it is
// not resident. Concurrent first requests for one profile share a single
// load; loads for different profiles do not wait on each other.
func (r *Registry) Get(ctx context.Context, profileID string) *Workspace {
	r.mu.Lock()
	now := r.now()
	r.sweep(now)
	e, ok := r.spaces[profileID]
	if !ok {
		e = &entry{}
		r.spaces[profileID] = e
	}
	e.lastSeen = now
	r.mu.Unlock()

	// Others may be waiting on this load; the caller's cancellation must not
	// leave them an empty workspace.
	e.once.Do(func() { e.ws = r.load(context.WithoutCancel(ctx), profileID) })
	return e.ws
}

func (r *Registry) load(ctx context.Context, profileID string) *Workspace {
	logger := r.logger.With(zap.String("profile_id", profileID))
	bucket := storage.Scope(r.backend, profileScopePrefix+profileID, logger)
	ws := &Workspace{
		ProfileID: profileID,
		Cart:      cart.Load(ctx, bucket, logger),
		Session:   session.Restore(ctx, r.api, bucket, logger),
		Store:     bucket,
	}
	logger.Debug("workspace loaded", zap.String("scope", bucket.Name()))
	return ws
}

// Site returns the bucket shared by every profile.
func (r *Registry) Site() *storage.Bucket {
	return storage.Scope(r.backend, storage.SiteScope, r.logger)
}

// Len reports how many workspaces are resident.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spaces)
}

// sweep drops idle workspaces. Their state stays in the store. Must be called
// with mu held.
func (r *Registry) sweep(now time.Time) {
	if r.idleTTL <= 0 {
		return
	}
	interval := r.idleTTL
	if interval > time.Minute {
		interval = time.Minute
	}
	if now.Sub(r.lastSweep) < interval {
		return
	}
	r.lastSweep = now

	for id, e := range r.spaces {
		if now.Sub(e.lastSeen) >= r.idleTTL {
			delete(r.spaces, id)
		}
	}
}
