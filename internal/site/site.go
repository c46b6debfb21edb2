// Package site holds the records shared by every profile of the storefront:
// admin listings, custom-order requests, contact messages and the
// custom-printing switch. Each collection is one JSON array in the site scope.
package site

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"rwooga-storefront/internal/domain"
	"rwooga-storefront/internal/storage"
)

type bucket interface {
	Get(ctx context.Context, key string) (string, bool)
	GetJSON(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key, value string) error
	SetJSON(ctx context.Context, key string, v any) error
}

// Store serializes read-modify-write cycles on site collections within this
// process.
type Store struct {
	bucket bucket
	mu     sync.Mutex
}

func New(b bucket) *Store {
	return &Store{bucket: b}
}

// CustomPrinting reports whether custom orders are accepted. An unset or
// unreadable flag means enabled.
func (s *Store) CustomPrinting(ctx context.Context) bool {
	raw, ok := s.bucket.Get(ctx, storage.KeyCustomPrinting)
	if !ok {
		return true
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return enabled
}

func (s *Store) SetCustomPrinting(ctx context.Context, enabled bool) error {
	return s.bucket.Set(ctx, storage.KeyCustomPrinting, strconv.FormatBool(enabled))
}

func (s *Store) Listings(ctx context.Context) []domain.Listing {
	return load[domain.Listing](ctx, s.bucket, storage.KeyListings)
}

func (s *Store) UpdateListings(ctx context.Context, fn func([]domain.Listing) ([]domain.Listing, error)) error {
	return update(ctx, s, storage.KeyListings, fn)
}

func (s *Store) Requests(ctx context.Context) []domain.CustomRequest {
	return load[domain.CustomRequest](ctx, s.bucket, storage.KeyCustomRequests)
}

func (s *Store) UpdateRequests(ctx context.Context, fn func([]domain.CustomRequest) ([]domain.CustomRequest, error)) error {
	return update(ctx, s, storage.KeyCustomRequests, fn)
}

func (s *Store) Messages(ctx context.Context) []domain.ContactMessage {
	return load[domain.ContactMessage](ctx, s.bucket, storage.KeyContactMessages)
}

func (s *Store) UpdateMessages(ctx context.Context, fn func([]domain.ContactMessage) ([]domain.ContactMessage, error)) error {
	return update(ctx, s, storage.KeyContactMessages, fn)
}

func load[T any](ctx context.Context, b bucket, key string) []T {
	var out []T
	if !b.GetJSON(ctx, key, &out) || out == nil {
		return []T{}
	}
	return out
}

func update[T any](ctx context.Context, s *Store, key string, fn func([]T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(load[T](ctx, s.bucket, key))
	if err != nil {
		return err
	}
	if next == nil {
		next = []T{}
	}
	if err := s.bucket.SetJSON(ctx, key, next); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
