package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingBackend struct{}

func (failingBackend) Get(context.Context, string, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func (failingBackend) Set(context.Context, string, string, string) error {
	return errors.New("connection refused")
}

func (failingBackend) Remove(context.Context, string, ...string) error {
	return errors.New("connection refused")
}

func TestBucket_GetMissing(t *testing.T) {
	b := Scope(NewMemory(), "p1", nil)
	_, ok := b.Get(context.Background(), KeyUser)
	assert.False(t, ok)
}

func TestBucket_JSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := Scope(NewMemory(), "p1", nil)
	require.NoError(t, b.SetJSON(ctx, "nums", []int{1, 2, 3}))

	var got []int
	require.True(t, b.GetJSON(ctx, "nums", &got))
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestBucket_MalformedJSONIsAbsent(t *testing.T) {
	ctx := context.Background()
	b := Scope(NewMemory(), "p1", nil)
	require.NoError(t, b.Set(ctx, KeyCartItems, "{not json"))

	var got []string
	assert.False(t, b.GetJSON(ctx, KeyCartItems, &got))
	assert.Nil(t, got)
}

func TestBucket_BackendReadFailureIsAbsent(t *testing.T) {
	b := Scope(failingBackend{}, "p1", nil)
	_, ok := b.Get(context.Background(), KeyUser)
	assert.False(t, ok)
	assert.Error(t, b.Set(context.Background(), KeyUser, "x"))
}

func TestBucket_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	a := Scope(mem, "a", nil)
	b := Scope(mem, "b", nil)
	require.NoError(t, a.Set(ctx, KeyAccessToken, "tok"))

	_, ok := b.Get(ctx, KeyAccessToken)
	assert.False(t, ok)
	v, ok := a.Get(ctx, KeyAccessToken)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)
}

func TestBucket_RemoveMissingKeyIsNotAnError(t *testing.T) {
	ctx := context.Background()
	b := Scope(NewMemory(), "p1", nil)
	require.NoError(t, b.Set(ctx, KeyCartTotal, "10"))
	require.NoError(t, b.Remove(ctx, KeyCartTotal, KeyCartItems))
	_, ok := b.Get(ctx, KeyCartTotal)
	assert.False(t, ok)
}
