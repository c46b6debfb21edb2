package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rwooga-storefront/internal/site"
	"rwooga-storefront/internal/storage"
)

func TestApply_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := site.New(storage.Scope(storage.NewMemory(), storage.SiteScope, nil))

	require.NoError(t, Apply(ctx, store, nil))
	first := store.Listings(ctx)
	require.Len(t, first, len(listings))

	require.NoError(t, Apply(ctx, store, nil))
	second := store.Listings(ctx)
	require.Len(t, second, len(listings))
	assert.Equal(t, first[0].CreatedAt, second[0].CreatedAt)
	assert.Equal(t, "RWF", second[0].Currency)
}
