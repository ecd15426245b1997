package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"medimarket/internal/domain/entity"
	"medimarket/internal/domain/port"
	"medimarket/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrCartEmpty           = errors.New("cart is empty")
	ErrInsufficientStock   = errors.New("not enough stock")
	ErrMedicineUnavailable = errors.New("medicine in cart is no longer available")
)

// orderComposer turns a cart into an order. Checkout and the payment bridge share it so both
// apply the same validation and pricing.
type orderComposer struct {
	log          *logrus.Logger
	userRepo     repository.UserRepository
	cartRepo     repository.CartRepository
	medicineRepo repository.MedicineRepository
	orderRepo    repository.OrderRepository
	publisher    port.EventPublisher
	notifier     port.MedicineChangeNotifier
	orderNumber  func(now time.Time) (string, error)
}

// orderNumberAttempts bounds retries after an order_number collision
const orderNumberAttempts = 3

// pricedCart is a validated cart snapshot
type pricedCart struct {
	cart    *entity.Cart
	summary entity.PriceSummary
}

// loadCart reads the user's cart and rejects it when it is empty, references a deleted
// medicine, or any single line exceeds current stock. There is no partial fulfilment.
func (c *orderComposer) loadCart(db *gorm.DB, userID uuid.UUID) (*pricedCart, error) {
	cart, err := c.cartRepo.FindByUserID(db, userID)
	if err != nil {
		c.log.Warnf("Failed to find cart for user %s: %+v", userID, err)
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	for i := range cart.Items {
		item := &cart.Items[i]
		if item.Medicine == nil {
			return nil, ErrMedicineUnavailable
		}
		if !item.Medicine.HasStock(item.Quantity) {
			return nil, fmt.Errorf("%w for %s", ErrInsufficientStock, item.Medicine.Name)
		}
	}

	return &pricedCart{
		cart:    cart,
		summary: entity.SummarizeCart(cart.Items),
	}, nil
}

// newOrder freezes the cart's current prices into order lines. TotalAmount is the pre-tax subtotal.
func (c *orderComposer) newOrder(db *gorm.DB, userID uuid.UUID, priced *pricedCart, status entity.OrderStatus, shippingAddress map[string]interface{}) (*entity.Order, error) {
	user, err := c.userRepo.FindByID(db, userID)
	if err != nil {
		c.log.Warnf("Failed to find user %s: %+v", userID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}

	items := make([]entity.OrderItem, len(priced.cart.Items))
	for i, line := range priced.cart.Items {
		items[i] = entity.OrderItem{
			MedicineID:      line.MedicineID,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.Medicine.Price,
		}
	}

	order := &entity.Order{
		UserID:          userID,
		Status:          status,
		TotalAmount:     priced.summary.Subtotal,
		ShippingAddress: entity.JSON(shippingAddress),
		CustomerName:    user.Name,
		CustomerPhone:   user.Phone,
		Items:           items,
	}

	if err := c.createNumbered(db, order); err != nil {
		c.log.Warnf("Failed to create order for user %s: %+v", userID, err)
		return nil, err
	}

	return order, nil
}

// createNumbered inserts the order under a fresh order number, drawing a new one when the
// number is already taken. Each attempt runs in a savepoint so a collision leaves the
// surrounding transaction usable.
func (c *orderComposer) createNumbered(db *gorm.DB, order *entity.Order) error {
	next := c.orderNumber
	if next == nil {
		next = generateOrderNumber
	}

	for attempt := 1; ; attempt++ {
		number, err := next(time.Now().UTC())
		if err != nil {
			return err
		}
		order.OrderNumber = number

		if err := db.SavePoint("order_number").Error; err != nil {
			return err
		}
		err = c.orderRepo.Create(db, order)
		if err == nil {
			return nil
		}
		if !isDuplicateKeyError(err) || attempt == orderNumberAttempts {
			return err
		}

		c.log.Warnf("Order number %s already taken, retrying", number)
		if err := db.RollbackTo("order_number").Error; err != nil {
			return err
		}
	}
}

// takeStock decrements stock for every order line, failing the whole order when a concurrent
// checkout consumed the stock after validation.
func (c *orderComposer) takeStock(db *gorm.DB, priced *pricedCart) error {
	for _, line := range priced.cart.Items {
		rows, err := c.medicineRepo.DecrementStock(db, line.MedicineID, line.Quantity)
		if err != nil {
			c.log.Warnf("Failed to decrement stock for medicine %s: %+v", line.MedicineID, err)
			return err
		}
		if rows == 0 {
			return fmt.Errorf("%w for %s", ErrInsufficientStock, line.Medicine.Name)
		}
	}
	return nil
}

// publish emits an order event after commit. Delivery is best-effort.
func (c *orderComposer) publish(ctx context.Context, eventType string, order *entity.Order) {
	event := port.OrderEvent{
		Type:            eventType,
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
		Status:          order.Status,
		TotalAmount:     order.TotalAmount,
		DeliveryAgentID: order.AssignedToDeliveryAgentID,
		OccurredAt:      time.Now().UTC(),
	}
	if err := c.publisher.PublishOrderEvent(ctx, event); err != nil {
		c.log.Warnf("Failed to publish %s for order %s (non-fatal): %+v", eventType, order.ID, err)
	}
}

// notifyStock tells realtime subscribers which medicines changed stock.
func (c *orderComposer) notifyStock(ctx context.Context, medicineIDs []uuid.UUID) {
	now := time.Now().UTC()
	for _, id := range medicineIDs {
		change := entity.MedicineChange{Type: entity.MedicineUpdated, MedicineID: id, OccurredAt: now}
		if err := c.notifier.Notify(ctx, change); err != nil {
			c.log.Warnf("Failed to notify stock change for medicine %s (non-fatal): %+v", id, err)
		}
	}
}

func orderMedicineIDs(items []entity.OrderItem) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.MedicineID
	}
	return ids
}

// generateOrderNumber generates an order number: ORD-YYYYMMDD-XXXXXX
func generateOrderNumber(now time.Time) (string, error) {
	randomBytes := make([]byte, 3)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("generate order number: %w", err)
	}
	return fmt.Sprintf("ORD-%s-%06X", now.Format("20060102"), randomBytes), nil
}
