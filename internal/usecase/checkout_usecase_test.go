package usecase

import (
	"testing"
	"time"

	"medimarket/internal/delivery/dto"
	"medimarket/internal/domain/entity"
	"medimarket/internal/domain/port"
	"medimarket/internal/repository"
	"medimarket/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type checkoutFixture struct {
	db        *gorm.DB
	usecase   CheckoutUsecase
	publisher *testutil.FakePublisher
	notifier  *testutil.FakeNotifier
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	db := testutil.NewDB(t)
	publisher := &testutil.FakePublisher{}
	notifier := &testutil.FakeNotifier{}
	uc := NewCheckoutUsecase(
		db,
		testutil.NewLogger(),
		repository.NewUserRepository(),
		repository.NewCartRepository(),
		repository.NewMedicineRepository(),
		repository.NewOrderRepository(),
		publisher,
		notifier,
	)
	return &checkoutFixture{db: db, usecase: uc, publisher: publisher, notifier: notifier}
}

func TestCheckoutUsecase_Checkout(t *testing.T) {
	f := newCheckoutFixture(t)
	user := testutil.CreateUser(t, f.db, "buyer@example.com")
	a := testutil.CreateMedicine(t, f.db, "Product A", "100", 5)
	b := testutil.CreateMedicine(t, f.db, "Product B", "50", 3)
	putInCart(t, f.db, user, a, 2)
	putInCart(t, f.db, user, b, 1)

	resp, err := f.usecase.Checkout(userContext(user), &dto.CheckoutRequest{
		ShippingAddress: map[string]interface{}{"line1": "12 MG Road", "city": "Pune"},
	})
	require.NoError(t, err)

	assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{6}$`, resp.OrderNumber)
	assert.Equal(t, string(entity.OrderStatusPendingDelivery), resp.Status)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(250)))
	assert.True(t, resp.Tax.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("262.5")))

	order, err := repository.NewOrderRepository().FindByID(f.db, resp.OrderID)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(250)), "total amount is the pre-tax subtotal")
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "Pune", order.ShippingAddress["city"])
	assert.Equal(t, user.Name, order.CustomerName)

	assert.Equal(t, 3, testutil.Stock(t, f.db, a))
	assert.Equal(t, 2, testutil.Stock(t, f.db, b))
	assert.Equal(t, 0, cartLines(t, f.db, user))

	assert.Equal(t, []string{port.OrderEventCreated}, f.publisher.Types())
	assert.Equal(t, 2, f.notifier.Len())
}

func TestCheckoutUsecase_FreezesPriceAtPurchase(t *testing.T) {
	f := newCheckoutFixture(t)
	user := testutil.CreateUser(t, f.db, "buyer@example.com")
	medicine := testutil.CreateMedicine(t, f.db, "Amoxicillin", "80", 5)
	putInCart(t, f.db, user, medicine, 1)

	resp, err := f.usecase.Checkout(userContext(user), &dto.CheckoutRequest{ShippingAddress: map[string]interface{}{"city": "Delhi"}})
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&entity.Medicine{}).Where("id = ?", medicine.ID).Update("price", decimal.NewFromInt(120)).Error)

	order, err := repository.NewOrderRepository().FindByID(f.db, resp.OrderID)
	require.NoError(t, err)
	assert.True(t, order.Items[0].PriceAtPurchase.Equal(decimal.NewFromInt(80)))
}

func TestCheckoutUsecase_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)
	user := testutil.CreateUser(t, f.db, "buyer@example.com")

	_, err := f.usecase.Checkout(userContext(user), &dto.CheckoutRequest{ShippingAddress: map[string]interface{}{"city": "Delhi"}})

	assert.ErrorIs(t, err, ErrCartEmpty)
	assert.Equal(t, int64(0), countRows(t, f.db, &entity.Order{}))
}

func TestCheckoutUsecase_InsufficientStockCreatesNothing(t *testing.T) {
	f := newCheckoutFixture(t)
	user := testutil.CreateUser(t, f.db, "buyer@example.com")
	plenty := testutil.CreateMedicine(t, f.db, "Vitamin C", "10", 100)
	scarce := testutil.CreateMedicine(t, f.db, "Insulin", "500", 1)
	putInCart(t, f.db, user, plenty, 2)
	putInCart(t, f.db, user, scarce, 2)

	_, err := f.usecase.Checkout(userContext(user), &dto.CheckoutRequest{ShippingAddress: map[string]interface{}{"city": "Delhi"}})

	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Insulin")
	assert.Equal(t, int64(0), countRows(t, f.db, &entity.Order{}))
	assert.Equal(t, int64(0), countRows(t, f.db, &entity.OrderItem{}))
	assert.Equal(t, 100, testutil.Stock(t, f.db, plenty))
	assert.Equal(t, 1, testutil.Stock(t, f.db, scarce))
	assert.Equal(t, 2, cartLines(t, f.db, user))
	assert.Empty(t, f.publisher.Events)
}

func TestCheckoutUsecase_StockTakenConcurrentlyRollsBack(t *testing.T) {
	f := newCheckoutFixture(t)
	first := testutil.CreateUser(t, f.db, "first@example.com")
	second := testutil.CreateUser(t, f.db, "second@example.com")
	medicine := testutil.CreateMedicine(t, f.db, "Salbutamol", "60", 1)
	putInCart(t, f.db, first, medicine, 1)
	putInCart(t, f.db, second, medicine, 1)

	_, err := f.usecase.Checkout(userContext(first), &dto.CheckoutRequest{ShippingAddress: map[string]interface{}{"city": "Delhi"}})
	require.NoError(t, err)

	_, err = f.usecase.Checkout(userContext(second), &dto.CheckoutRequest{ShippingAddress: map[string]interface{}{"city": "Delhi"}})
	require.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 0, testutil.Stock(t, f.db, medicine))
	assert.Equal(t, int64(1), countRows(t, f.db, &entity.Order{}))
	assert.Equal(t, 1, cartLines(t, f.db, second))
}

func seedOrderNumber(t *testing.T, db *gorm.DB, number string) {
	t.Helper()

	owner := testutil.CreateUser(t, db, "owner-"+number+"@example.com")
	order := &entity.Order{
		OrderNumber: number,
		UserID:      owner.ID,
		Status:      entity.OrderStatusPendingDelivery,
		TotalAmount: decimal.NewFromInt(10),
	}
	require.NoError(t, repository.NewOrderRepository().Create(db, order))
}

func fixedOrderNumbers(numbers ...string) func(time.Time) (string, error) {
	i := 0
	return func(time.Time) (string, error) {
		number := numbers[i]
		if i < len(numbers)-1 {
			i++
		}
		return number, nil
	}
}

func TestCheckoutUsecase_RetriesTakenOrderNumber(t *testing.T) {
	f := newCheckoutFixture(t)
	seedOrderNumber(t, f.db, "ORD-20240101-AAAAAA")
	f.usecase.(*checkoutUsecase).composer.orderNumber = fixedOrderNumbers("ORD-20240101-AAAAAA", "ORD-20240101-BBBBBB")

	user := testutil.CreateUser(t, f.db, "retry@example.com")
	medicine := testutil.CreateMedicine(t, f.db, "Cetirizine", "60", 4)
	putInCart(t, f.db, user, medicine, 1)

	resp, err := f.usecase.Checkout(userContext(user), &dto.CheckoutRequest{ShippingAddress: map[string]interface{}{"city": "Pune"}})
	require.NoError(t, err)

	assert.Equal(t, "ORD-20240101-BBBBBB", resp.OrderNumber)
	assert.Equal(t, int64(2), countRows(t, f.db, &entity.Order{}))
	assert.Equal(t, int64(1), countRows(t, f.db, &entity.OrderItem{}))
	assert.Equal(t, 3, testutil.Stock(t, f.db, medicine))
}

func TestCheckoutUsecase_GivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newCheckoutFixture(t)
	seedOrderNumber(t, f.db, "ORD-20240101-AAAAAA")
	f.usecase.(*checkoutUsecase).composer.orderNumber = fixedOrderNumbers("ORD-20240101-AAAAAA")

	user := testutil.CreateUser(t, f.db, "unlucky@example.com")
	medicine := testutil.CreateMedicine(t, f.db, "Cetirizine", "60", 4)
	putInCart(t, f.db, user, medicine, 1)

	_, err := f.usecase.Checkout(userContext(user), &dto.CheckoutRequest{ShippingAddress: map[string]interface{}{"city": "Pune"}})
	require.Error(t, err)

	assert.Equal(t, int64(1), countRows(t, f.db, &entity.Order{}))
	assert.Equal(t, 4, testutil.Stock(t, f.db, medicine))
	assert.Equal(t, int64(1), countRows(t, f.db, &entity.CartItem{}))
}
