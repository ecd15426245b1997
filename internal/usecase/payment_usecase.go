package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"medimarket/internal/delivery/dto"
	"medimarket/internal/delivery/http/middleware"
	"medimarket/internal/domain/entity"
	"medimarket/internal/domain/port"
	"medimarket/internal/domain/repository"
	"medimarket/internal/infrastructure/metrics"
	"medimarket/pkg/signature"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

var (
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrTransactionNotFound = errors.New("payment transaction not found")
	ErrOrderMismatch       = errors.New("order does not match the payment")
	ErrPaymentGateway      = errors.New("payment gateway request failed")
)

type PaymentUsecase interface {
	CreateOrder(ctx context.Context, req *dto.CreatePaymentOrderRequest) (*dto.CreatePaymentOrderResponse, error)
	Verify(ctx context.Context, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error)
}

type paymentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	composer        *orderComposer
	transactionRepo repository.FinanceTransactionRepository
	receiptRepo     repository.ReceiptRepository
	gateway         port.PaymentGateway
	verifier        *signature.Verifier
	currency        string
}

func NewPaymentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
	medicineRepo repository.MedicineRepository,
	orderRepo repository.OrderRepository,
	transactionRepo repository.FinanceTransactionRepository,
	receiptRepo repository.ReceiptRepository,
	gateway port.PaymentGateway,
	verifier *signature.Verifier,
	publisher port.EventPublisher,
	notifier port.MedicineChangeNotifier,
	currency string,
) PaymentUsecase {
	return &paymentUsecase{
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
		transactionRepo: transactionRepo,
		receiptRepo:     receiptRepo,
		gateway:         gateway,
		verifier:        verifier,
		currency:        currency,
	}
}

// CreateOrder opens a gateway order for the server-side cart total and records a pending
// order with its ledger row. Stock and cart are left untouched until the payment is verified.
func (u *paymentUsecase) CreateOrder(ctx context.Context, req *dto.CreatePaymentOrderRequest) (*dto.CreatePaymentOrderResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "payment.CreateOrder")
	defer span.End()

	currency := u.currency
	if req.Currency != "" {
		currency = strings.ToUpper(req.Currency)
	}
	description := req.Description
	if description == "" {
		description = entity.DefaultTransactionDescription
	}

	priced, err := u.composer.loadCart(u.db.WithContext(ctx), userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	amountMinor := priced.summary.TotalMinorUnits()
	gatewayOrder, err := u.gateway.CreateOrder(ctx, port.GatewayOrderRequest{
		AmountMinor: amountMinor,
		Currency:    currency,
		Receipt:     receiptReference(time.Now()),
		Notes:       map[string]string{"user_id": userID.String()},
	})
	if err != nil {
		span.RecordError(err)
		u.log.Warnf("Failed to create gateway order for user %s: %+v", userID, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	span.SetAttributes(attribute.String("payment.gateway_order_id", gatewayOrder.ID))

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	order, err := u.composer.newOrder(tx, userID, priced, entity.OrderStatusPending, req.ShippingAddress)
	if err != nil {
		return nil, err
	}

	transaction := &entity.FinanceTransaction{
		UserID:          userID,
		OrderID:         order.ID,
		TransactionType: entity.TransactionTypeMarketplacePurchase,
		Amount:          priced.summary.Total,
		Currency:        currency,
		Status:          entity.TransactionStatusPending,
		GatewayOrderID:  gatewayOrder.ID,
		Description:     description,
	}
	created, err := u.transactionRepo.CreateIfAbsent(tx, transaction)
	if err != nil {
		u.log.Warnf("Failed to record transaction %s: %+v", gatewayOrder.ID, err)
		return nil, err
	}
	if !created {
		u.log.Warnf("Transaction for gateway order %s already recorded", gatewayOrder.ID)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	metrics.OrdersCreatedTotal.WithLabelValues("payment").Inc()
	u.log.Infof("Payment order created: order=%s, gateway_order=%s, amount=%d %s", order.ID, gatewayOrder.ID, amountMinor, currency)
	u.composer.publish(ctx, port.OrderEventCreated, order)

	return &dto.CreatePaymentOrderResponse{
		ID:        gatewayOrder.ID,
		Currency:  currency,
		Amount:    amountMinor,
		DBOrderID: order.ID,
	}, nil
}

// Verify settles a gateway payment exactly once.
//
// Flow:
// 1. Check the HMAC signature over "order_id|payment_id", no writes on mismatch
// 2. Conditional pending -> paid on the ledger row; zero rows means already settled
// 3. In the same transaction: order -> PENDING_DELIVERY, floored stock decrement, cart cleared
// 4. Best-effort receipt after commit
func (u *paymentUsecase) Verify(ctx context.Context, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "payment.Verify")
	defer span.End()
	span.SetAttributes(attribute.String("payment.gateway_order_id", req.RazorpayOrderID))

	if !u.verifier.Verify(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		metrics.PaymentVerificationsTotal.WithLabelValues(metrics.OutcomeInvalidSignature).Inc()
		span.SetStatus(codes.Error, ErrInvalidSignature.Error())
		u.log.Warnf("Rejected payment with invalid signature: gateway_order=%s", req.RazorpayOrderID)
		return nil, ErrInvalidSignature
	}

	db := u.db.WithContext(ctx)

	transaction, err := u.transactionRepo.FindByGatewayOrderID(db, req.RazorpayOrderID)
	if err != nil {
		metrics.PaymentVerificationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		u.log.Warnf("Failed to find transaction %s: %+v", req.RazorpayOrderID, err)
		return nil, err
	}
	if transaction == nil {
		metrics.PaymentVerificationsTotal.WithLabelValues(metrics.OutcomeUnknownOrder).Inc()
		return nil, ErrTransactionNotFound
	}

	if req.OrderID != "" {
		orderID, err := uuid.Parse(req.OrderID)
		if err != nil || orderID != transaction.OrderID {
			return nil, ErrOrderMismatch
		}
	}

	settled, order, err := u.settle(ctx, transaction, req)
	if err != nil {
		metrics.PaymentVerificationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		span.RecordError(err)
		return nil, err
	}

	if !settled {
		metrics.PaymentVerificationsTotal.WithLabelValues(metrics.OutcomeAlreadyProcessed).Inc()
		status := ""
		if order != nil {
			status = string(order.Status)
		}
		return &dto.VerifyPaymentResponse{
			OrderID:          transaction.OrderID,
			Status:           status,
			AlreadyProcessed: true,
		}, nil
	}

	metrics.PaymentVerificationsTotal.WithLabelValues(metrics.OutcomeVerified).Inc()
	u.log.Infof("Payment verified: order=%s, gateway_order=%s, payment=%s", order.ID, req.RazorpayOrderID, req.RazorpayPaymentID)

	u.issueReceipt(ctx, transaction, req.RazorpayPaymentID)
	u.composer.publish(ctx, port.OrderEventPaid, order)
	u.composer.notifyStock(ctx, orderMedicineIDs(order.Items))

	return &dto.VerifyPaymentResponse{
		OrderID: order.ID,
		Status:  string(order.Status),
	}, nil
}

// settle reports false when an earlier call already settled the transaction.
func (u *paymentUsecase) settle(ctx context.Context, transaction *entity.FinanceTransaction, req *dto.VerifyPaymentRequest) (bool, *entity.Order, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	now := time.Now().UTC()
	rows, err := u.transactionRepo.MarkPaid(tx, transaction.GatewayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, entity.PaymentMethodRazorpay, now)
	if err != nil {
		u.log.Warnf("Failed to mark transaction %s paid: %+v", transaction.GatewayOrderID, err)
		return false, nil, err
	}

	order, err := u.composer.orderRepo.FindByID(tx, transaction.OrderID)
	if err != nil {
		u.log.Warnf("Failed to find order %s: %+v", transaction.OrderID, err)
		return false, nil, err
	}

	if rows == 0 {
		return false, order, nil
	}
	if order == nil {
		return false, nil, ErrOrderNotFound
	}

	moved, err := u.composer.orderRepo.TransitionStatus(tx, order.ID, entity.OrderStatusPending, entity.OrderStatusPendingDelivery)
	if err != nil {
		u.log.Warnf("Failed to move order %s to delivery: %+v", order.ID, err)
		return false, nil, err
	}
	if moved == 0 {
		u.log.Warnf("Order %s was not pending at payment time (status=%s)", order.ID, order.Status)
	} else {
		order.Status = entity.OrderStatusPendingDelivery
	}

	for _, item := range order.Items {
		if err := u.composer.medicineRepo.DecrementStockFloor(tx, item.MedicineID, item.Quantity); err != nil {
			u.log.Warnf("Failed to decrement stock for medicine %s: %+v", item.MedicineID, err)
			return false, nil, err
		}
	}

	cart, err := u.composer.cartRepo.FindByUserID(tx, transaction.UserID)
	if err != nil {
		u.log.Warnf("Failed to find cart for user %s: %+v", transaction.UserID, err)
		return false, nil, err
	}
	if cart != nil {
		if err := u.composer.cartRepo.ClearItems(tx, cart.ID); err != nil {
			u.log.Warnf("Failed to clear cart %s: %+v", cart.ID, err)
			return false, nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return false, nil, err
	}

	return true, order, nil
}

func (u *paymentUsecase) issueReceipt(ctx context.Context, transaction *entity.FinanceTransaction, paymentID string) {
	receiptNumber, err := generateReceiptNumber(time.Now().UTC())
	if err != nil {
		u.log.Warnf("Failed to number receipt for transaction %s (non-fatal): %+v", transaction.ID, err)
		return
	}

	receipt := &entity.Receipt{
		ReceiptNumber:    receiptNumber,
		TransactionID:    transaction.ID,
		OrderID:          transaction.OrderID,
		UserID:           transaction.UserID,
		Amount:           transaction.Amount,
		Currency:         transaction.Currency,
		PaymentMethod:    entity.PaymentMethodRazorpay,
		GatewayPaymentID: paymentID,
	}
	if err := u.receiptRepo.CreateIfAbsent(u.db.WithContext(ctx), receipt); err != nil {
		u.log.Warnf("Failed to create receipt for transaction %s (non-fatal): %+v", transaction.ID, err)
	}
}

// receiptReference is the gateway-side receipt: rcpt_ plus the last 8 digits of unix millis
func receiptReference(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return "rcpt_" + ms
}

// generateReceiptNumber generates a unique receipt number: RCP-YYYYMMDD-XXXXXXXX
func generateReceiptNumber(now time.Time) (string, error) {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("generate receipt number: %w", err)
	}
	return fmt.Sprintf("RCP-%s-%08X", now.Format("20060102"), randomBytes), nil
}
