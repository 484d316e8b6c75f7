package cart

import (
	"context"
	"sync"

	"storefront/storage"

	"go.uber.org/zap"
)

// Subscriber is notified with the new cart after every mutation.
type Subscriber func(ctx context.Context, c Cart)

type subscription struct {
	id int
	fn Subscriber
}

// Container holds the current cart and fans mutations out to subscribers.
// Mutations are applied and delivered one at a time, so subscribers see
// carts in mutation order. Subscribers must not mutate the container.
type Container struct {
	serial sync.Mutex
	mu     sync.Mutex
	cart   Cart
	subs   []subscription
	nextID int
}

func NewContainer(initial Cart) *Container {
	return &Container{cart: initial.withTotals()}
}

func (c *Container) Snapshot() Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart
}

// Subscribe registers fn and returns a func that removes it.
func (c *Container) Subscribe(fn Subscriber) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscription{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

func (c *Container) apply(ctx context.Context, mutate func(Cart) Cart) Cart {
	c.serial.Lock()
	defer c.serial.Unlock()

	c.mu.Lock()
	c.cart = mutate(c.cart)
	next := c.cart
	subs := make([]subscription, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(ctx, next)
	}
	return next
}

func (c *Container) AddItem(ctx context.Context, product ProductRef, quantity int, v Variant) Cart {
	return c.apply(ctx, func(cur Cart) Cart { return cur.Add(product, quantity, v) })
}

func (c *Container) RemoveItem(ctx context.Context, productID string, v Variant) Cart {
	return c.apply(ctx, func(cur Cart) Cart { return cur.Remove(productID, v) })
}

func (c *Container) UpdateQuantity(ctx context.Context, productID string, quantity int, v Variant) Cart {
	return c.apply(ctx, func(cur Cart) Cart { return cur.UpdateQuantity(productID, quantity, v) })
}

func (c *Container) Clear(ctx context.Context) Cart {
	return c.apply(ctx, func(cur Cart) Cart { return cur.Clear() })
}

func (c *Container) GetQuantity(productID string, v Variant) int {
	return c.Snapshot().Quantity(productID, v)
}

// Load restores the cart saved in store and keeps it persisted on every
// mutation. A missing or unreadable cart starts empty.
func Load(ctx context.Context, store *storage.Store, logger *zap.Logger) *Container {
	initial := Cart{}
	if saved, ok := storage.Get(ctx, store, storage.KeyCart, Cart.Validate); ok {
		initial = saved
	}
	c := NewContainer(initial)
	c.Subscribe(Persister(store, logger))
	return c
}

// Persister writes the full cart to store.
func Persister(store *storage.Store, logger *zap.Logger) Subscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, c Cart) {
		if _, err := storage.Set(ctx, store, storage.KeyCart, c, Cart.Validate); err != nil {
			logger.Warn("Failed to persist cart", zap.Error(err), zap.Int("items", len(c.Items)))
		}
	}
}
