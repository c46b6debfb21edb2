// Package cart holds the shopping cart of one profile: an ordered list of line
// items whose total is always the exact sum of their prices. Every mutation is
// written through to the profile's store.
package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"rwooga-storefront/internal/domain"
	"rwooga-storefront/internal/storage"
)

// Store is the slice of the profile bucket the cart writes through.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	GetJSON(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key, value string) error
	SetJSON(ctx context.Context, key string, v any) error
	Remove(ctx context.Context, keys ...string) error
}

type Cart struct {
	mu     sync.Mutex
	items  []domain.CartItem
	total  int64
	store  Store
	logger *zap.Logger
}

// Load rebuilds the cart from store. Missing or malformed data, including
// items with an invalid price, yields an empty cart. The total is recomputed
// from the items.
func Load(ctx context.Context, store Store, logger *zap.Logger) *Cart {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cart{store: store, logger: logger}

	var items []domain.CartItem
	if store.GetJSON(ctx, storage.KeyCartItems, &items) {
		if total, err := sum(items); err == nil {
			c.items = items
			c.total = total
		} else {
			logger.Warn("stored cart items rejected, starting empty", zap.Int("items", len(items)), zap.Error(err))
		}
	}

	if raw, ok := store.Get(ctx, storage.KeyCartTotal); ok {
		stored, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || stored != c.total {
			logger.Warn("stored cart total disagrees with items, using item sum",
				zap.String("stored", raw), zap.Int64("computed", c.total))
		}
	}
	return c
}

// AddItem appends item and persists the cart. An item priced outside
// [0, MaxPrice] is refused with domain.ErrInvalidPrice, one that would
// overflow the total with domain.ErrCartTotalOverflow; the cart is unchanged
// in both cases. Otherwise the in-memory cart keeps the item even when
// persisting fails and the error reports the lost write.
func (c *Cart) AddItem(ctx context.Context, item domain.CartItem) error {
	if !domain.ValidPrice(item.Price) {
		return fmt.Errorf("item %q priced %d: %w", item.ID, item.Price, domain.ErrInvalidPrice)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if item.Price > math.MaxInt64-c.total {
		return domain.ErrCartTotalOverflow
	}
	c.items = append(c.items, item)
	c.total += item.Price
	return c.persist(ctx)
}

// Rejected reports whether err is AddItem refusing the item rather than a
// failed write.
func Rejected(err error) bool {
	return errors.Is(err, domain.ErrInvalidPrice) || errors.Is(err, domain.ErrCartTotalOverflow)
}

// RemoveItem drops the first item with id. Unknown ids are a no-op.
func (c *Cart) RemoveItem(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i, it := range c.items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	c.total -= c.items[idx].Price
	c.items = append(c.items[:idx:idx], c.items[idx+1:]...)
	return c.persist(ctx)
}

// Clear empties the cart and deletes its stored keys.
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.total = 0
	return c.store.Remove(ctx, storage.KeyCartItems, storage.KeyCartTotal)
}

// Drain returns the cart's contents and empties it in one step, so nothing
// added concurrently is lost between the snapshot and the clear. The returned
// state is valid even when removing the stored keys fails.
func (c *Cart) Drain(ctx context.Context) (domain.CartState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := domain.CartState{Items: c.items, Total: c.total}
	if len(c.items) == 0 {
		return st, nil
	}
	c.items = nil
	c.total = 0
	return st, c.store.Remove(ctx, storage.KeyCartItems, storage.KeyCartTotal)
}

// State returns a copy of the current cart.
func (c *Cart) State() domain.CartState {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.CartItem, len(c.items))
	copy(items, c.items)
	return domain.CartState{Items: items, Total: c.total}
}

func (c *Cart) persist(ctx context.Context) error {
	errItems := c.store.SetJSON(ctx, storage.KeyCartItems, c.itemsForStore())
	errTotal := c.store.Set(ctx, storage.KeyCartTotal, strconv.FormatInt(c.total, 10))
	return errors.Join(errItems, errTotal)
}

// itemsForStore keeps an empty cart serialized as [] rather than null.
func (c *Cart) itemsForStore() []domain.CartItem {
	if c.items == nil {
		return []domain.CartItem{}
	}
	return c.items
}

func sum(items []domain.CartItem) (int64, error) {
	var total int64
	for _, it := range items {
		if !domain.ValidPrice(it.Price) {
			return 0, fmt.Errorf("item %q priced %d: %w", it.ID, it.Price, domain.ErrInvalidPrice)
		}
		if it.Price > math.MaxInt64-total {
			return 0, domain.ErrCartTotalOverflow
		}
		total += it.Price
	}
	return total, nil
}
