package usecase

import (
	"context"

	"medimarket/internal/delivery/dto"
	"medimarket/internal/delivery/http/middleware"
	"medimarket/internal/domain/entity"
	"medimarket/internal/domain/port"
	"medimarket/internal/domain/repository"
	"medimarket/internal/infrastructure/metrics"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

const tracerName = "medimarket/usecase"

type CheckoutUsecase interface {
	Checkout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

type checkoutUsecase struct {
	db       *gorm.DB
	log      *logrus.Logger
	composer *orderComposer
}

func NewCheckoutUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
	medicineRepo repository.MedicineRepository,
	orderRepo repository.OrderRepository,
	publisher port.EventPublisher,
	notifier port.MedicineChangeNotifier,
) CheckoutUsecase {
	return &checkoutUsecase{
		db:  db,
		log: log,
		composer: &orderComposer{
			log:          log,
			userRepo:     userRepo,
			cartRepo:     cartRepo,
			medicineRepo: medicineRepo,
			orderRepo:    orderRepo,
			publisher:    publisher,
			notifier:     notifier,
		},
	}
}

// Checkout settles the cart directly, without a payment gateway.
//
// Flow (one transaction):
// 1. Load cart, reject empty cart or any line over stock
// 2. Create the order awaiting delivery with frozen prices
// 3. Guarded stock decrement per line
// 4. Clear the cart items
func (u *checkoutUsecase) Checkout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "checkout.Checkout")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	priced, err := u.composer.loadCart(tx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	order, err := u.composer.newOrder(tx, userID, priced, entity.OrderStatusPendingDelivery, req.ShippingAddress)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := u.composer.takeStock(tx, priced); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := u.composer.cartRepo.ClearItems(tx, priced.cart.ID); err != nil {
		u.log.Warnf("Failed to clear cart %s: %+v", priced.cart.ID, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	metrics.OrdersCreatedTotal.WithLabelValues("checkout").Inc()
	span.SetAttributes(attribute.String("order.id", order.ID.String()))
	u.log.Infof("Order created: id=%s, number=%s, user=%s, total=%s", order.ID, order.OrderNumber, userID, order.TotalAmount)

	u.composer.publish(ctx, port.OrderEventCreated, order)
	u.composer.notifyStock(ctx, orderMedicineIDs(order.Items))

	return &dto.CheckoutResponse{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      string(order.Status),
		Subtotal:    priced.summary.Subtotal,
		Tax:         priced.summary.Tax,
		Total:       priced.summary.Total,
	}, nil
}
