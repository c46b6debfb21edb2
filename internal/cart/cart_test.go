package cart

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rwooga-storefront/internal/domain"
	"rwooga-storefront/internal/storage"
)

func newBucket() *storage.Bucket {
	return storage.Scope(storage.NewMemory(), "profile", nil)
}

func item(id string, price int64) domain.CartItem {
	return domain.CartItem{ID: id, Name: "Item " + id, Price: price, Currency: "RWF", Category: "prints"}
}

func TestAddDuplicateThenRemoveOne(t *testing.T) {
	ctx := context.Background()
	c := Load(ctx, newBucket(), nil)

	require.NoError(t, c.AddItem(ctx, item("p1", 15000)))
	require.NoError(t, c.AddItem(ctx, item("p1", 15000)))
	st := c.State()
	assert.Len(t, st.Items, 2)
	assert.Equal(t, int64(30000), st.Total)

	require.NoError(t, c.RemoveItem(ctx, "p1"))
	st = c.State()
	assert.Len(t, st.Items, 1)
	assert.Equal(t, int64(15000), st.Total)
}

func TestRemoveFirstMatchOnly(t *testing.T) {
	ctx := context.Background()
	c := Load(ctx, newBucket(), nil)
	first := item("p1", 100)
	first.Name = "first"
	second := item("p1", 100)
	second.Name = "second"
	require.NoError(t, c.AddItem(ctx, first))
	require.NoError(t, c.AddItem(ctx, item("p2", 50)))
	require.NoError(t, c.AddItem(ctx, second))

	require.NoError(t, c.RemoveItem(ctx, "p1"))
	st := c.State()
	require.Len(t, st.Items, 2)
	assert.Equal(t, "p2", st.Items[0].ID)
	assert.Equal(t, "second", st.Items[1].Name)
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	b := newBucket()
	c := Load(ctx, b, nil)
	require.NoError(t, c.AddItem(ctx, item("p1", 700)))
	before := c.State()

	require.NoError(t, c.RemoveItem(ctx, "missing"))
	assert.Equal(t, before, c.State())
}

func TestTotalIsAlwaysTheSum(t *testing.T) {
	ctx := context.Background()
	c := Load(ctx, newBucket(), nil)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		id := "p" + strconv.Itoa(rng.Intn(8))
		if rng.Intn(3) == 0 {
			require.NoError(t, c.RemoveItem(ctx, id))
		} else {
			require.NoError(t, c.AddItem(ctx, item(id, rng.Int63n(100000))))
		}
		st := c.State()
		var want int64
		for _, it := range st.Items {
			want += it.Price
		}
		require.Equal(t, want, st.Total, "step %d", i)
	}
}

func TestClearRemovesStoredKeys(t *testing.T) {
	ctx := context.Background()
	b := newBucket()
	c := Load(ctx, b, nil)
	require.NoError(t, c.AddItem(ctx, item("p1", 100)))

	require.NoError(t, c.Clear(ctx))
	st := c.State()
	assert.Empty(t, st.Items)
	assert.Equal(t, int64(0), st.Total)

	_, ok := b.Get(ctx, storage.KeyCartItems)
	assert.False(t, ok)
	_, ok = b.Get(ctx, storage.KeyCartTotal)
	assert.False(t, ok)
}

func TestReloadReproducesState(t *testing.T) {
	ctx := context.Background()
	b := newBucket()
	c := Load(ctx, b, nil)
	require.NoError(t, c.AddItem(ctx, item("p1", 15000)))
	require.NoError(t, c.AddItem(ctx, item("p2", 2500)))
	require.NoError(t, c.AddItem(ctx, item("p1", 15000)))
	require.NoError(t, c.RemoveItem(ctx, "p2"))

	reloaded := Load(ctx, b, nil)
	assert.Equal(t, c.State(), reloaded.State())

	raw, ok := b.Get(ctx, storage.KeyCartTotal)
	require.True(t, ok)
	assert.Equal(t, "30000", raw)
}

func TestLoadMalformedIsEmpty(t *testing.T) {
	ctx := context.Background()
	b := newBucket()
	require.NoError(t, b.Set(ctx, storage.KeyCartItems, "not-json"))
	require.NoError(t, b.Set(ctx, storage.KeyCartTotal, "999"))

	c := Load(ctx, b, nil)
	st := c.State()
	assert.Empty(t, st.Items)
	assert.Equal(t, int64(0), st.Total)
}

func TestLoadRecomputesDisagreeingTotal(t *testing.T) {
	ctx := context.Background()
	b := newBucket()
	require.NoError(t, b.SetJSON(ctx, storage.KeyCartItems, []domain.CartItem{item("p1", 40), item("p2", 60)}))
	require.NoError(t, b.Set(ctx, storage.KeyCartTotal, "5"))

	c := Load(ctx, b, nil)
	assert.Equal(t, int64(100), c.State().Total)
}

func TestStateIsACopy(t *testing.T) {
	ctx := context.Background()
	c := Load(ctx, newBucket(), nil)
	require.NoError(t, c.AddItem(ctx, item("p1", 10)))

	st := c.State()
	st.Items[0].Price = 9999
	assert.Equal(t, int64(10), c.State().Items[0].Price)
}

type brokenStore struct {
	*storage.Bucket
}

func (brokenStore) Set(context.Context, string, string) error { return errors.New("disk full") }
func (brokenStore) SetJSON(context.Context, string, any) error { return errors.New("disk full") }

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	c := Load(ctx, brokenStore{newBucket()}, nil)

	err := c.AddItem(ctx, item("p1", 100))
	require.Error(t, err)
	assert.Equal(t, int64(100), c.State().Total)
	assert.Len(t, c.State().Items, 1)
}

func TestAddItemRejectsInvalidPrice(t *testing.T) {
	ctx := context.Background()
	b := newBucket()
	c := Load(ctx, b, nil)
	require.NoError(t, c.AddItem(ctx, item("p1", 500)))

	for _, price := range []int64{-1, math.MinInt64, domain.MaxPrice + 1, math.MaxInt64} {
		err := c.AddItem(ctx, item("bad", price))
		require.ErrorIs(t, err, domain.ErrInvalidPrice, "price %d", price)
		assert.True(t, Rejected(err))
	}
	require.NoError(t, c.AddItem(ctx, item("max", domain.MaxPrice)))

	st := c.State()
	assert.Len(t, st.Items, 2)
	assert.Equal(t, 500+domain.MaxPrice, st.Total)
	raw, _ := b.Get(ctx, storage.KeyCartTotal)
	assert.Equal(t, strconv.FormatInt(500+domain.MaxPrice, 10), raw)
}

func TestAddItemRefusesTotalOverflow(t *testing.T) {
	ctx := context.Background()
	c := Load(ctx, newBucket(), nil)
	c.total = math.MaxInt64 - 5

	err := c.AddItem(ctx, item("p1", 10))
	require.ErrorIs(t, err, domain.ErrCartTotalOverflow)
	assert.True(t, Rejected(err))
	assert.Equal(t, int64(math.MaxInt64-5), c.State().Total)
	assert.Empty(t, c.State().Items)

	require.NoError(t, c.AddItem(ctx, item("p2", 5)))
	assert.Equal(t, int64(math.MaxInt64), c.State().Total)
}

func TestRejectedIgnoresWriteFailures(t *testing.T) {
	assert.False(t, Rejected(errors.New("disk full")))
	assert.False(t, Rejected(nil))
}

func TestLoadRejectsInvalidStoredPrices(t *testing.T) {
	ctx := context.Background()
	b := newBucket()
	require.NoError(t, b.SetJSON(ctx, storage.KeyCartItems, []domain.CartItem{item("p1", 40), item("p2", -500)}))

	st := Load(ctx, b, nil).State()
	assert.Empty(t, st.Items)
	assert.Zero(t, st.Total)
}

func TestDrainEmptiesInOneStep(t *testing.T) {
	ctx := context.Background()
	b := newBucket()
	c := Load(ctx, b, nil)
	require.NoError(t, c.AddItem(ctx, item("p1", 15000)))
	require.NoError(t, c.AddItem(ctx, item("p2", 8000)))

	st, err := c.Drain(ctx)
	require.NoError(t, err)
	assert.Len(t, st.Items, 2)
	assert.Equal(t, int64(23000), st.Total)

	assert.Empty(t, c.State().Items)
	_, ok := b.Get(ctx, storage.KeyCartItems)
	assert.False(t, ok)

	require.NoError(t, c.AddItem(ctx, item("p3", 100)))
	assert.Len(t, st.Items, 2, "drained state must not see later additions")
	assert.Equal(t, int64(100), c.State().Total)
}

func TestDrainEmptyCart(t *testing.T) {
	st, err := Load(context.Background(), newBucket(), nil).Drain(context.Background())
	require.NoError(t, err)
	assert.Empty(t, st.Items)
	assert.Zero(t, st.Total)
}
