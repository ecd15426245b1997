package usecase

import (
	"context"
	"errors"
	"testing"

	"medimarket/internal/delivery/dto"
	"medimarket/internal/domain/entity"
	"medimarket/internal/domain/port"
	"medimarket/internal/repository"
	"medimarket/internal/testutil"
	"medimarket/pkg/signature"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPaymentSecret = "rzp_test_secret"

type paymentFixture struct {
	db        *gorm.DB
	usecase   PaymentUsecase
	gateway   *testutil.FakeGateway
	publisher *testutil.FakePublisher
	signer    *signature.Verifier
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	db := testutil.NewDB(t)
	gateway := &testutil.FakeGateway{}
	publisher := &testutil.FakePublisher{}
	signer := signature.NewVerifier(testPaymentSecret)
	uc := NewPaymentUsecase(
		db,
		testutil.NewLogger(),
		repository.NewUserRepository(),
		repository.NewCartRepository(),
		repository.NewMedicineRepository(),
		repository.NewOrderRepository(),
		repository.NewFinanceTransactionRepository(),
		repository.NewReceiptRepository(),
		gateway,
		signer,
		publisher,
		&testutil.FakeNotifier{},
		"INR",
	)
	return &paymentFixture{db: db, usecase: uc, gateway: gateway, publisher: publisher, signer: signer}
}

// pendingPayment puts A(100 x 2) and B(50 x 1) in a fresh cart and opens a payment order for it.
func (f *paymentFixture) pendingPayment(t *testing.T) (*entity.User, []*entity.Medicine, *dto.CreatePaymentOrderResponse) {
	t.Helper()

	user := testutil.CreateUser(t, f.db, "payer@example.com")
	a := testutil.CreateMedicine(t, f.db, "Product A", "100", 5)
	b := testutil.CreateMedicine(t, f.db, "Product B", "50", 5)
	putInCart(t, f.db, user, a, 2)
	putInCart(t, f.db, user, b, 1)

	resp, err := f.usecase.CreateOrder(userContext(user), &dto.CreatePaymentOrderRequest{
		ShippingAddress: map[string]interface{}{"city": "Mumbai"},
	})
	require.NoError(t, err)
	return user, []*entity.Medicine{a, b}, resp
}

func (f *paymentFixture) signedRequest(gatewayOrderID string) *dto.VerifyPaymentRequest {
	return &dto.VerifyPaymentRequest{
		RazorpayOrderID:   gatewayOrderID,
		RazorpayPaymentID: "pay_test0001",
		RazorpaySignature: f.signer.Sign(gatewayOrderID, "pay_test0001"),
	}
}

func findTransaction(t *testing.T, db *gorm.DB, gatewayOrderID string) *entity.FinanceTransaction {
	t.Helper()

	txn, err := repository.NewFinanceTransactionRepository().FindByGatewayOrderID(db, gatewayOrderID)
	require.NoError(t, err)
	require.NotNil(t, txn)
	return txn
}

func findOrder(t *testing.T, db *gorm.DB, id uuid.UUID) *entity.Order {
	t.Helper()

	order, err := repository.NewOrderRepository().FindByID(db, id)
	require.NoError(t, err)
	require.NotNil(t, order)
	return order
}

func TestPaymentUsecase_CreateOrder(t *testing.T) {
	f := newPaymentFixture(t)
	user, medicines, resp := f.pendingPayment(t)

	assert.Equal(t, int64(26250), resp.Amount)
	assert.Equal(t, "INR", resp.Currency)
	require.Len(t, f.gateway.Requests, 1)
	assert.Equal(t, int64(26250), f.gateway.Requests[0].AmountMinor)
	assert.Regexp(t, `^rcpt_\d{1,8}$`, f.gateway.Requests[0].Receipt)
	assert.Equal(t, user.ID.String(), f.gateway.Requests[0].Notes["user_id"])

	order := findOrder(t, f.db, resp.DBOrderID)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(250)))

	txn := findTransaction(t, f.db, resp.ID)
	assert.Equal(t, entity.TransactionStatusPending, txn.Status)
	assert.Equal(t, order.ID, txn.OrderID)
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("262.5")))
	assert.Equal(t, entity.DefaultTransactionDescription, txn.Description)

	// stock and cart wait for the verified payment
	assert.Equal(t, 5, testutil.Stock(t, f.db, medicines[0]))
	assert.Equal(t, 2, cartLines(t, f.db, user))
	assert.Equal(t, []string{port.OrderEventCreated}, f.publisher.Types())
}

func TestPaymentUsecase_CreateOrder_RejectsOverStock(t *testing.T) {
	f := newPaymentFixture(t)
	user := testutil.CreateUser(t, f.db, "payer@example.com")
	medicine := testutil.CreateMedicine(t, f.db, "Insulin", "500", 1)
	putInCart(t, f.db, user, medicine, 3)

	_, err := f.usecase.CreateOrder(userContext(user), &dto.CreatePaymentOrderRequest{})

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Empty(t, f.gateway.Requests)
	assert.Equal(t, int64(0), countRows(t, f.db, &entity.Order{}))
}

func TestPaymentUsecase_CreateOrder_GatewayFailure(t *testing.T) {
	f := newPaymentFixture(t)
	f.gateway.Err = errors.New("gateway timeout")
	user := testutil.CreateUser(t, f.db, "payer@example.com")
	medicine := testutil.CreateMedicine(t, f.db, "Cetirizine", "20", 10)
	putInCart(t, f.db, user, medicine, 1)

	_, err := f.usecase.CreateOrder(userContext(user), &dto.CreatePaymentOrderRequest{})

	assert.ErrorIs(t, err, ErrPaymentGateway)
	assert.Equal(t, int64(0), countRows(t, f.db, &entity.Order{}))
	assert.Equal(t, int64(0), countRows(t, f.db, &entity.FinanceTransaction{}))
}

func TestPaymentUsecase_Verify_TamperedSignatureChangesNothing(t *testing.T) {
	f := newPaymentFixture(t)
	user, medicines, resp := f.pendingPayment(t)

	req := f.signedRequest(resp.ID)
	req.RazorpayPaymentID = "pay_other"

	_, err := f.usecase.Verify(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidSignature)

	assert.Equal(t, entity.TransactionStatusPending, findTransaction(t, f.db, resp.ID).Status)
	assert.Equal(t, entity.OrderStatusPending, findOrder(t, f.db, resp.DBOrderID).Status)
	assert.Equal(t, 5, testutil.Stock(t, f.db, medicines[0]))
	assert.Equal(t, 2, cartLines(t, f.db, user))
	assert.Equal(t, int64(0), countRows(t, f.db, &entity.Receipt{}))
}

func TestPaymentUsecase_Verify_SettlesExactlyOnce(t *testing.T) {
	f := newPaymentFixture(t)
	user, medicines, resp := f.pendingPayment(t)
	req := f.signedRequest(resp.ID)
	req.OrderID = resp.DBOrderID.String()

	first, err := f.usecase.Verify(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.AlreadyProcessed)
	assert.Equal(t, string(entity.OrderStatusPendingDelivery), first.Status)

	second, err := f.usecase.Verify(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.AlreadyProcessed)
	assert.Equal(t, resp.DBOrderID, second.OrderID)
	assert.Equal(t, string(entity.OrderStatusPendingDelivery), second.Status)

	txn := findTransaction(t, f.db, resp.ID)
	assert.Equal(t, entity.TransactionStatusPaid, txn.Status)
	require.NotNil(t, txn.GatewayPaymentID)
	assert.Equal(t, "pay_test0001", *txn.GatewayPaymentID)
	require.NotNil(t, txn.PaidAt)

	assert.Equal(t, entity.OrderStatusPendingDelivery, findOrder(t, f.db, resp.DBOrderID).Status)
	assert.Equal(t, 3, testutil.Stock(t, f.db, medicines[0]), "stock is taken once")
	assert.Equal(t, 4, testutil.Stock(t, f.db, medicines[1]))
	assert.Equal(t, 0, cartLines(t, f.db, user))
	assert.Equal(t, int64(1), countRows(t, f.db, &entity.Receipt{}))
	assert.Equal(t, []string{port.OrderEventCreated, port.OrderEventPaid}, f.publisher.Types())
}

func TestPaymentUsecase_Verify_StockFlooredAtZero(t *testing.T) {
	f := newPaymentFixture(t)
	_, medicines, resp := f.pendingPayment(t)

	// stock sold elsewhere between order creation and payment
	require.NoError(t, f.db.Model(&entity.Medicine{}).Where("id = ?", medicines[0].ID).Update("stock_quantity", 1).Error)

	_, err := f.usecase.Verify(context.Background(), f.signedRequest(resp.ID))
	require.NoError(t, err)

	assert.Equal(t, 0, testutil.Stock(t, f.db, medicines[0]))
}

func TestPaymentUsecase_Verify_UnknownGatewayOrder(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.usecase.Verify(context.Background(), f.signedRequest("order_missing"))

	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestPaymentUsecase_Verify_OrderMismatch(t *testing.T) {
	f := newPaymentFixture(t)
	_, _, resp := f.pendingPayment(t)
	req := f.signedRequest(resp.ID)
	req.OrderID = uuid.NewString()

	_, err := f.usecase.Verify(context.Background(), req)

	require.ErrorIs(t, err, ErrOrderMismatch)
	assert.Equal(t, entity.TransactionStatusPending, findTransaction(t, f.db, resp.ID).Status)
}

func TestReceiptReference(t *testing.T) {
	ref := receiptReference(timeFromMillis(1712345678901))

	assert.Equal(t, "rcpt_45678901", ref)
}
