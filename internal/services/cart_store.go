package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang-bookstore-gateway/internal/backend"
	"golang-bookstore-gateway/internal/models"
	"golang-bookstore-gateway/pkg/cache"
)

// Session identifies the authenticated customer a cart operation runs
// for. Token is the raw bearer credential forwarded to the backend.
type Session struct {
	UserID string
	Token  string
}

var (
	ErrQuantityNotPositive = errors.New("quantity must be a positive integer")
	ErrLineNotFound        = errors.New("item is not in the cart")
	ErrLineBusy            = errors.New("another change to this item is still in progress")
	ErrEmptyCouponCode     = errors.New("please enter a coupon code")
	ErrCartEmpty           = errors.New("cart is empty")
)

const cartCacheTTL = time.Minute * 10

// CartStore holds the single authoritative cart snapshot per user and
// mediates every read and write. All mutation happens server-side: an
// operation calls the backend, and on success the fresh snapshot
// replaces the local one wholesale. Nothing is ever patched
// speculatively, so a failed operation leaves the previous snapshot
// untouched with only the error recorded.
type CartStore struct {
	api   backend.CartAPI
	cache *cache.RedisCache

	mu      sync.Mutex
	entries map[string]*cartEntry
}

type cartEntry struct {
	mu       sync.Mutex
	snapshot *models.CartSnapshot
	lastErr  error

	// seq tags each outgoing request; applied remembers the newest
	// response accepted so far. A response older than applied is
	// discarded, which closes the stale-overwrite race between two
	// quick mutations on the same cart.
	seq     uint64
	applied uint64

	// lines is the transient busy side table keyed by product id.
	// It lives outside the snapshot so snapshot replacement never
	// touches it.
	lines map[string]LineState
}

func NewCartStore(api backend.CartAPI, redisCache *cache.RedisCache) *CartStore {
	return &CartStore{
		api:     api,
		cache:   redisCache,
		entries: make(map[string]*cartEntry),
	}
}

func (s *CartStore) entry(userID string) *cartEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok {
		e = &cartEntry{lines: make(map[string]LineState)}
		s.entries[userID] = e
	}
	return e
}

func cartCacheKey(userID string) string {
	return "cart:" + userID
}

// mutate runs one backend call and applies its snapshot. Shared by
// every operation, including Fetch, so normalization and the sequence
// guard behave identically everywhere.
func (s *CartStore) mutate(ctx context.Context, sess Session, call func(ctx context.Context, token string) (*models.CartSnapshot, error)) (*models.CartSnapshot, error) {
	e := s.entry(sess.UserID)

	e.mu.Lock()
	e.seq++
	seq := e.seq
	e.mu.Unlock()

	snapshot, err := call(ctx, sess.Token)

	e.mu.Lock()
	if err != nil {
		e.lastErr = err
		e.mu.Unlock()
		return nil, err
	}

	if seq <= e.applied {
		// A newer response already landed while this one was in
		// flight; keep the newer state.
		current := e.snapshot.Clone()
		e.mu.Unlock()
		return current, nil
	}

	snapshot.Normalize(time.Now())
	e.snapshot = snapshot
	e.applied = seq
	e.lastErr = nil
	result := snapshot.Clone()
	e.mu.Unlock()

	s.cacheSnapshot(ctx, sess.UserID, result)
	return result, nil
}

func (s *CartStore) cacheSnapshot(ctx context.Context, userID string, snapshot *models.CartSnapshot) {
	if s.cache == nil {
		return
	}
	// Best effort; the in-memory entry is authoritative.
	s.cache.Set(ctx, cartCacheKey(userID), snapshot, cartCacheTTL)
}

// Snapshot returns the last confirmed snapshot and the last recorded
// operation error, without touching the backend. A cold entry falls
// back to the redis warm copy when one exists.
func (s *CartStore) Snapshot(ctx context.Context, userID string) (*models.CartSnapshot, error) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.snapshot != nil {
		return e.snapshot.Clone(), e.lastErr
	}

	if s.cache != nil {
		var snapshot models.CartSnapshot
		if err := s.cache.Get(ctx, cartCacheKey(userID), &snapshot); err == nil {
			snapshot.Normalize(time.Now())
			e.snapshot = &snapshot
			return snapshot.Clone(), e.lastErr
		}
	}
	return nil, e.lastErr
}

// Fetch requests the authoritative snapshot from the backend. On
// failure the previous snapshot is preserved so a transient network
// error never flashes an empty cart.
func (s *CartStore) Fetch(ctx context.Context, sess Session) (*models.CartSnapshot, error) {
	return s.mutate(ctx, sess, func(ctx context.Context, token string) (*models.CartSnapshot, error) {
		return s.api.GetCart(ctx, token)
	})
}

// AddItem adds quantity units of a product. The backend merges
// additively with an existing line for the same product.
func (s *CartStore) AddItem(ctx context.Context, sess Session, productID string, quantity int) (*models.CartSnapshot, error) {
	if quantity < 1 {
		return nil, ErrQuantityNotPositive
	}
	return s.mutate(ctx, sess, func(ctx context.Context, token string) (*models.CartSnapshot, error) {
		return s.api.AddItem(ctx, token, productID, quantity)
	})
}

// Clear empties the cart remotely and resets all derived fields from
// the returned empty snapshot.
func (s *CartStore) Clear(ctx context.Context, sess Session) (*models.CartSnapshot, error) {
	return s.mutate(ctx, sess, func(ctx context.Context, token string) (*models.CartSnapshot, error) {
		return s.api.ClearCart(ctx, token)
	})
}

// ApplyCoupon submits a coupon code. Codes are case-insensitive: the
// input is trimmed and upper-cased before submission. An empty trimmed
// code fails locally without a network call.
func (s *CartStore) ApplyCoupon(ctx context.Context, sess Session, code string) (*models.CartSnapshot, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrEmptyCouponCode
	}
	return s.mutate(ctx, sess, func(ctx context.Context, token string) (*models.CartSnapshot, error) {
		return s.api.ApplyCoupon(ctx, token, code)
	})
}

// RemoveCoupon clears the applied coupon remotely. The discount
// recomputes to zero from the fresh snapshot, never assumed locally.
func (s *CartStore) RemoveCoupon(ctx context.Context, sess Session) (*models.CartSnapshot, error) {
	return s.mutate(ctx, sess, func(ctx context.Context, token string) (*models.CartSnapshot, error) {
		return s.api.RemoveCoupon(ctx, token)
	})
}

// Forget drops all local cart state for a user. Used on logout; the
// backend cart is untouched.
func (s *CartStore) Forget(ctx context.Context, userID string) {
	s.mu.Lock()
	delete(s.entries, userID)
	s.mu.Unlock()

	if s.cache != nil {
		s.cache.Delete(ctx, cartCacheKey(userID))
	}
}
