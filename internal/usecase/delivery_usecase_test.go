package usecase

import (
	"sync"
	"testing"

	"medimarket/internal/delivery/dto"
	"medimarket/internal/domain/entity"
	"medimarket/internal/domain/port"
	"medimarket/internal/repository"
	"medimarket/internal/service"
	"medimarket/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type deliveryFixture struct {
	db        *gorm.DB
	usecase   DeliveryUsecase
	publisher *testutil.FakePublisher
	admin     *entity.User
}

func newDeliveryFixture(t *testing.T) *deliveryFixture {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.NewLogger()
	publisher := &testutil.FakePublisher{}
	uc := NewDeliveryUsecase(
		db,
		log,
		repository.NewOrderRepository(),
		repository.NewDeliveryAgentRepository(),
		service.NewAuditService(log, repository.NewAuditLogRepository()),
		publisher,
	)
	return &deliveryFixture{
		db:        db,
		usecase:   uc,
		publisher: publisher,
		admin:     testutil.CreateAdmin(t, db, "admin@example.com"),
	}
}

func (f *deliveryFixture) createOrder(t *testing.T, status entity.OrderStatus) *entity.Order {
	t.Helper()

	customer := testutil.CreateUser(t, f.db, uuid.NewString()+"@example.com")
	medicine := testutil.CreateMedicine(t, f.db, "Paracetamol", "40", 10)
	number, err := generateOrderNumber(medicine.CreatedAt)
	require.NoError(t, err)
	order := &entity.Order{
		OrderNumber: number,
		UserID:      customer.ID,
		Status:      status,
		TotalAmount: decimal.NewFromInt(40),
		Items: []entity.OrderItem{
			{MedicineID: medicine.ID, Quantity: 1, PriceAtPurchase: medicine.Price},
		},
	}
	require.NoError(t, repository.NewOrderRepository().Create(f.db, order))
	return order
}

func TestDeliveryUsecase_AssignOrder(t *testing.T) {
	f := newDeliveryFixture(t)
	agent := testutil.CreateDeliveryAgent(t, f.db, "Ravi")
	order := f.createOrder(t, entity.OrderStatusPendingDelivery)

	resp, err := f.usecase.AssignOrder(userContext(f.admin), order.ID, &dto.AssignDeliveryRequest{DeliveryAgentID: agent.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, string(entity.OrderStatusAssigned), resp.Status)
	require.NotNil(t, resp.AssignedToDeliveryAgentID)
	assert.Equal(t, agent.ID, *resp.AssignedToDeliveryAgentID)
	assert.NotNil(t, resp.AssignedAt)

	logs, total, err := repository.NewAuditLogRepository().FindAll(f.db, &entity.AuditLogFilter{Action: entity.AuditActionOrderAssign})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, order.ID.String(), logs[0].EntityID)
	require.NotNil(t, logs[0].UserID)
	assert.Equal(t, f.admin.ID, *logs[0].UserID)

	require.Len(t, f.publisher.Events, 1)
	assert.Equal(t, port.OrderEventAssigned, f.publisher.Events[0].Type)
	assert.Equal(t, &agent.ID, f.publisher.Events[0].DeliveryAgentID)
}

func TestDeliveryUsecase_AssignOrder_ExactlyOnceUnderConcurrency(t *testing.T) {
	f := newDeliveryFixture(t)
	first := testutil.CreateDeliveryAgent(t, f.db, "Ravi")
	second := testutil.CreateDeliveryAgent(t, f.db, "Meena")
	order := f.createOrder(t, entity.OrderStatusPendingDelivery)

	agents := []*entity.DeliveryAgent{first, second}
	errs := make([]error, len(agents))
	var wg sync.WaitGroup
	for i, agent := range agents {
		wg.Add(1)
		go func(i int, agentID uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.usecase.AssignOrder(userContext(f.admin), order.ID, &dto.AssignDeliveryRequest{DeliveryAgentID: agentID.String()})
		}(i, agent.ID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrOrderNotAssignable)
	}
	assert.Equal(t, 1, succeeded)

	_, total, err := repository.NewAuditLogRepository().FindAll(f.db, &entity.AuditLogFilter{Action: entity.AuditActionOrderAssign})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, f.publisher.Events, 1)
}

func TestDeliveryUsecase_AssignOrder_NotAwaitingDelivery(t *testing.T) {
	f := newDeliveryFixture(t)
	agent := testutil.CreateDeliveryAgent(t, f.db, "Ravi")
	order := f.createOrder(t, entity.OrderStatusPending)

	_, err := f.usecase.AssignOrder(userContext(f.admin), order.ID, &dto.AssignDeliveryRequest{DeliveryAgentID: agent.ID.String()})
	assert.ErrorIs(t, err, ErrOrderNotAssignable)

	_, err = f.usecase.AssignOrder(userContext(f.admin), uuid.New(), &dto.AssignDeliveryRequest{DeliveryAgentID: agent.ID.String()})
	assert.ErrorIs(t, err, ErrOrderNotAssignable)
}

func TestDeliveryUsecase_AssignOrder_UnknownOrInactiveAgent(t *testing.T) {
	f := newDeliveryFixture(t)
	order := f.createOrder(t, entity.OrderStatusPendingDelivery)
	inactive := testutil.CreateDeliveryAgent(t, f.db, "Retired")
	require.NoError(t, f.db.Model(inactive).Update("is_active", false).Error)

	_, err := f.usecase.AssignOrder(userContext(f.admin), order.ID, &dto.AssignDeliveryRequest{DeliveryAgentID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrDeliveryAgentNotFound)

	_, err = f.usecase.AssignOrder(userContext(f.admin), order.ID, &dto.AssignDeliveryRequest{DeliveryAgentID: inactive.ID.String()})
	assert.ErrorIs(t, err, ErrDeliveryAgentNotFound)

	assert.Equal(t, entity.OrderStatusPendingDelivery, findOrder(t, f.db, order.ID).Status)
}

func TestDeliveryUsecase_GetAvailableAgents(t *testing.T) {
	f := newDeliveryFixture(t)
	busy := testutil.CreateDeliveryAgent(t, f.db, "Busy")
	idle := testutil.CreateDeliveryAgent(t, f.db, "Idle")
	offDuty := testutil.CreateDeliveryAgent(t, f.db, "Off Duty")
	require.NoError(t, f.db.Model(offDuty).Update("is_available", false).Error)
	require.NoError(t, f.db.Model(busy).Update("total_deliveries_completed", 12).Error)

	order := f.createOrder(t, entity.OrderStatusPendingDelivery)
	_, err := f.usecase.AssignOrder(userContext(f.admin), order.ID, &dto.AssignDeliveryRequest{DeliveryAgentID: busy.ID.String()})
	require.NoError(t, err)

	resp, err := f.usecase.GetAvailableAgents(userContext(f.admin))
	require.NoError(t, err)

	require.Equal(t, 3, resp.Total)
	assert.Equal(t, idle.ID, resp.Agents[0].ID)
	assert.Equal(t, busy.ID, resp.Agents[1].ID)
	assert.Equal(t, int64(1), resp.Agents[1].ActiveDeliveries)
	assert.Equal(t, offDuty.ID, resp.Agents[2].ID)
}

func TestDeliveryUsecase_CreateAgent(t *testing.T) {
	f := newDeliveryFixture(t)

	resp, err := f.usecase.CreateAgent(userContext(f.admin), &dto.CreateDeliveryAgentRequest{Name: "Asha", Phone: "9811111111", VehicleNumber: "MH12AB1234"})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.True(t, resp.IsActive)
	assert.True(t, resp.IsAvailable)
}
