package services

import (
	"context"

	"golang-bookstore-gateway/internal/models"
)

// LineState is the per-line busy indicator. It scopes to one cart line
// only: edits to other lines proceed independently.
type LineState string

const (
	LineIdle     LineState = "idle"
	LineUpdating LineState = "updating"
	LineRemoving LineState = "removing"
)

// LineStateFor reports the busy state of one line.
func (s *CartStore) LineStateFor(userID, productID string) LineState {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if state, ok := e.lines[productID]; ok {
		return state
	}
	return LineIdle
}

// lockLine marks a line busy for the duration of one request. It fails
// with ErrLineBusy while an earlier edit to the same line is in
// flight.
func (e *cartEntry) lockLine(productID string, state LineState) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if current, ok := e.lines[productID]; ok && current != LineIdle {
		return ErrLineBusy
	}
	e.lines[productID] = state
	return nil
}

// unlockLine clears the busy flag unconditionally, success or failure.
func (e *cartEntry) unlockLine(productID string) {
	e.mu.Lock()
	delete(e.lines, productID)
	e.mu.Unlock()
}

// SetItemQuantity changes one line to an absolute quantity. A target
// below one routes to removal; requesting the currently confirmed
// quantity is a no-op that issues no network call.
func (s *CartStore) SetItemQuantity(ctx context.Context, sess Session, productID string, quantity int) (*models.CartSnapshot, error) {
	if quantity < 1 {
		return s.RemoveItem(ctx, sess, productID)
	}

	e := s.entry(sess.UserID)

	e.mu.Lock()
	if e.snapshot != nil {
		line := e.snapshot.LineFor(productID)
		if line == nil {
			e.mu.Unlock()
			return nil, ErrLineNotFound
		}
		if line.Quantity == quantity {
			current := e.snapshot.Clone()
			e.mu.Unlock()
			return current, nil
		}
	}
	e.mu.Unlock()

	if err := e.lockLine(productID, LineUpdating); err != nil {
		return nil, err
	}
	defer e.unlockLine(productID)

	return s.mutate(ctx, sess, func(ctx context.Context, token string) (*models.CartSnapshot, error) {
		return s.api.UpdateItem(ctx, token, productID, quantity)
	})
}

// IncrementItem raises a line's quantity by one.
func (s *CartStore) IncrementItem(ctx context.Context, sess Session, productID string) (*models.CartSnapshot, error) {
	current, err := s.confirmedQuantity(sess.UserID, productID)
	if err != nil {
		return nil, err
	}
	return s.SetItemQuantity(ctx, sess, productID, current+1)
}

// DecrementItem lowers a line's quantity by one. Decrementing a line
// at quantity one removes it instead of updating to zero; a line is
// never valid with quantity below one.
func (s *CartStore) DecrementItem(ctx context.Context, sess Session, productID string) (*models.CartSnapshot, error) {
	current, err := s.confirmedQuantity(sess.UserID, productID)
	if err != nil {
		return nil, err
	}
	if current-1 < 1 {
		return s.RemoveItem(ctx, sess, productID)
	}
	return s.SetItemQuantity(ctx, sess, productID, current-1)
}

// RemoveItem deletes a line. The backend is the source of truth for
// the resulting snapshot; it may also re-validate coupon eligibility
// for the smaller cart.
func (s *CartStore) RemoveItem(ctx context.Context, sess Session, productID string) (*models.CartSnapshot, error) {
	e := s.entry(sess.UserID)

	if err := e.lockLine(productID, LineRemoving); err != nil {
		return nil, err
	}
	defer e.unlockLine(productID)

	return s.mutate(ctx, sess, func(ctx context.Context, token string) (*models.CartSnapshot, error) {
		return s.api.RemoveItem(ctx, token, productID)
	})
}

// confirmedQuantity reads a line's quantity from the last confirmed
// snapshot. Increment and decrement are always relative to confirmed
// state, never to an in-flight value.
func (s *CartStore) confirmedQuantity(userID, productID string) (int, error) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snapshot == nil {
		return 0, ErrLineNotFound
	}
	line := e.snapshot.LineFor(productID)
	if line == nil {
		return 0, ErrLineNotFound
	}
	return line.Quantity, nil
}
