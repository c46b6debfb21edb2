package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Keys written by the cart and session modules, scoped per profile.
const (
	KeyCartItems    = "cart_items"
	KeyCartTotal    = "cart_total"
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// Keys written in the site-wide scope.
const (
	KeyCustomPrinting  = "custom_printing_enabled"
	KeyListings        = "rwooga_products"
	KeyCustomRequests  = "custom_requests"
	KeyContactMessages = "contact_messages"
)

// SiteScope is the scope shared by every profile of the storefront.
const SiteScope = "site"

// Backend is a durable key/value store partitioned by scope.
// Get reports ok=false for a missing key; err is reserved for backend failures.
type Backend interface {
	Get(ctx context.Context, scope, key string) (value string, ok bool, err error)
	Set(ctx context.Context, scope, key, value string) error
	Remove(ctx context.Context, scope string, keys ...string) error
}

// Bucket is the typed view of one scope. Reads never fail: missing, malformed
// or unreadable values are reported as absent.
type Bucket struct {
	backend Backend
	scope   string
	logger  *zap.Logger
}

// Scope returns the Bucket for scope.
func Scope(backend Backend, scope string, logger *zap.Logger) *Bucket {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bucket{backend: backend, scope: scope, logger: logger}
}

// Name returns the scope this bucket writes to.
func (b *Bucket) Name() string {
	return b.scope
}

// Get returns the raw value for key.
func (b *Bucket) Get(ctx context.Context, key string) (string, bool) {
	v, ok, err := b.backend.Get(ctx, b.scope, key)
	if err != nil {
		b.logger.Warn("store read failed, treating as absent",
			zap.String("scope", b.scope), zap.String("key", key), zap.Error(err))
		return "", false
	}
	return v, ok
}

// GetJSON decodes the value for key into dst. It reports false when the key is
// missing or the stored text is not valid JSON for dst.
func (b *Bucket) GetJSON(ctx context.Context, key string, dst any) bool {
	raw, ok := b.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		b.logger.Warn("malformed stored value, treating as absent",
			zap.String("scope", b.scope), zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores a raw string value.
func (b *Bucket) Set(ctx context.Context, key, value string) error {
	if err := b.backend.Set(ctx, b.scope, key, value); err != nil {
		return fmt.Errorf("store set %s: %w", key, err)
	}
	return nil
}

// SetJSON stores v encoded as JSON.
func (b *Bucket) SetJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return b.Set(ctx, key, string(raw))
}

// Remove deletes keys. Removing a missing key is not an error.
func (b *Bucket) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := b.backend.Remove(ctx, b.scope, keys...); err != nil {
		return fmt.Errorf("store remove: %w", err)
	}
	return nil
}
