package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"golang-bookstore-gateway/internal/backend"
	"golang-bookstore-gateway/internal/models"
	"golang-bookstore-gateway/pkg/messaging"
)

var (
	ErrShippingAddressRequired = errors.New("a shipping address is required for physical items")
	ErrPaymentMethodRequired   = errors.New("please select a payment method")
)

// CheckoutService combines the cart snapshot with the locally computed
// shipping fee and drives order submission. Shipping is never asked of
// the backend: it is a flat fee per physical-type line, recomputed
// from the current snapshot on every read.
type CheckoutService struct {
	store                *CartStore
	orders               backend.OrderAPI
	producer             *messaging.KafkaProducer
	brokers              []string
	shippingFlatFee      decimal.Decimal
	defaultPaymentMethod string
}

func NewCheckoutService(
	store *CartStore,
	orders backend.OrderAPI,
	producer *messaging.KafkaProducer,
	brokers []string,
	shippingFlatFee decimal.Decimal,
	defaultPaymentMethod string,
) *CheckoutService {
	return &CheckoutService{
		store:                store,
		orders:               orders,
		producer:             producer,
		brokers:              brokers,
		shippingFlatFee:      shippingFlatFee,
		defaultPaymentMethod: defaultPaymentMethod,
	}
}

type CheckoutRequest struct {
	PaymentMethod   string                  `json:"paymentMethod"`
	Notes           string                  `json:"notes"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress"`
}

type CheckoutSummary struct {
	Subtotal         models.Amount `json:"subtotal"`
	Discount         models.Amount `json:"discount"`
	Shipping         models.Amount `json:"shipping"`
	Total            models.Amount `json:"total"`
	ItemCount        int           `json:"itemCount"`
	RequiresShipping bool          `json:"requiresShipping"`
}

// PlaceOrderResult carries the created order and where the storefront
// should navigate next. RedirectTo falls back to the order list when
// no identifier could be extracted from the backend response.
type PlaceOrderResult struct {
	OrderID    string        `json:"orderId,omitempty"`
	Order      *models.Order `json:"order,omitempty"`
	RedirectTo string        `json:"redirectTo"`
}

// ShippingFee is the flat per-line fee times the number of physical
// lines, zero for a digital-only cart.
func (s *CheckoutService) ShippingFee(snapshot *models.CartSnapshot) decimal.Decimal {
	if snapshot == nil {
		return decimal.Zero
	}
	count := snapshot.PhysicalLineCount()
	if count == 0 {
		return decimal.Zero
	}
	return s.shippingFlatFee.Mul(decimal.NewFromInt(int64(count)))
}

// Summary prices the current cart for the checkout page.
func (s *CheckoutService) Summary(ctx context.Context, sess Session) (*CheckoutSummary, error) {
	snapshot, err := s.currentSnapshot(ctx, sess)
	if err != nil {
		return nil, err
	}

	shipping := s.ShippingFee(snapshot)
	return &CheckoutSummary{
		Subtotal:         snapshot.Subtotal,
		Discount:         snapshot.Discount,
		Shipping:         models.NewAmount(shipping),
		Total:            models.NewAmount(snapshot.Total.Add(shipping)),
		ItemCount:        snapshot.ItemCount,
		RequiresShipping: snapshot.PhysicalLineCount() > 0,
	}, nil
}

// PlaceOrder validates preconditions, submits the order, and clears
// the cart on success. The cart is left untouched when order creation
// fails.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sess Session, req *CheckoutRequest) (*PlaceOrderResult, error) {
	snapshot, err := s.currentSnapshot(ctx, sess)
	if err != nil {
		return nil, err
	}
	if len(snapshot.Items) == 0 {
		return nil, ErrCartEmpty
	}

	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = s.defaultPaymentMethod
	}
	if paymentMethod == "" {
		return nil, ErrPaymentMethodRequired
	}

	hasPhysical := snapshot.PhysicalLineCount() > 0
	if hasPhysical && req.ShippingAddress == nil {
		return nil, ErrShippingAddressRequired
	}

	payload := &backend.CreateOrderRequest{
		PaymentMethod: paymentMethod,
		Notes:         strings.TrimSpace(req.Notes),
	}
	// Digital-only orders must omit the address entirely, even when
	// the client sent one.
	if hasPhysical {
		payload.ShippingAddress = req.ShippingAddress
	}

	order, err := s.orders.CreateOrder(ctx, sess.Token, payload)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Clear(ctx, sess); err != nil {
		// The order exists; a failed clear only leaves a stale local
		// cart, which the next fetch repairs.
		log.Printf("checkout: failed to clear cart for user %s after order: %v", sess.UserID, err)
	}

	s.publishOrderEvents(sess.UserID, order, snapshot.ItemCount)

	result := &PlaceOrderResult{
		OrderID: order.ID,
		Order:   order,
	}
	if order.ID != "" {
		result.RedirectTo = "/orders/" + order.ID
	} else {
		result.RedirectTo = "/orders"
	}
	return result, nil
}

func (s *CheckoutService) currentSnapshot(ctx context.Context, sess Session) (*models.CartSnapshot, error) {
	snapshot, _ := s.store.Snapshot(ctx, sess.UserID)
	if snapshot != nil {
		return snapshot, nil
	}
	return s.store.Fetch(ctx, sess)
}

func (s *CheckoutService) publishOrderEvents(userID string, order *models.Order, itemCount int) {
	if s.producer == nil {
		return
	}

	now := time.Now()
	if err := s.producer.SendMessage(messaging.TopicOrderEvents, s.brokers, order.ID, &messaging.OrderPlacedEvent{
		Type:      "order.placed",
		OrderID:   order.ID,
		UserID:    userID,
		Total:     order.Total.String(),
		ItemCount: itemCount,
		Timestamp: now,
	}); err != nil {
		log.Printf("checkout: failed to publish order event: %v", err)
	}

	if err := s.producer.SendMessage(messaging.TopicCartEvents, s.brokers, userID, &messaging.CartEvent{
		Type:      "cart_cleared",
		UserID:    userID,
		Timestamp: now,
	}); err != nil {
		log.Printf("checkout: failed to publish cart event: %v", err)
	}
}
