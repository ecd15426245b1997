package usecase

import (
	"context"
	"errors"
	"time"

	"medimarket/internal/converter"
	"medimarket/internal/delivery/dto"
	"medimarket/internal/delivery/http/middleware"
	"medimarket/internal/domain/entity"
	"medimarket/internal/domain/port"
	"medimarket/internal/domain/repository"
	"medimarket/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDeliveryAgentNotFound = errors.New("delivery agent not found")
	ErrOrderNotAssignable    = errors.New("order not found or already assigned")
)

type DeliveryUsecase interface {
	GetAvailableAgents(ctx context.Context) (*dto.DeliveryAgentListResponse, error)
	CreateAgent(ctx context.Context, req *dto.CreateDeliveryAgentRequest) (*dto.DeliveryAgentResponse, error)
	AssignOrder(ctx context.Context, orderID uuid.UUID, req *dto.AssignDeliveryRequest) (*dto.OrderResponse, error)
}

type deliveryUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	orderRepo    repository.OrderRepository
	agentRepo    repository.DeliveryAgentRepository
	auditService service.AuditService
	publisher    port.EventPublisher
}

func NewDeliveryUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	orderRepo repository.OrderRepository,
	agentRepo repository.DeliveryAgentRepository,
	auditService service.AuditService,
	publisher port.EventPublisher,
) DeliveryUsecase {
	return &deliveryUsecase{
		db:           db,
		log:          log,
		orderRepo:    orderRepo,
		agentRepo:    agentRepo,
		auditService: auditService,
		publisher:    publisher,
	}
}

// GetAvailableAgents lists active agents, available first, with their in-flight delivery count.
func (u *deliveryUsecase) GetAvailableAgents(ctx context.Context) (*dto.DeliveryAgentListResponse, error) {
	db := u.db.WithContext(ctx)

	agents, err := u.agentRepo.FindActive(db)
	if err != nil {
		u.log.Warnf("Failed to find delivery agents: %+v", err)
		return nil, err
	}

	ids := make([]uuid.UUID, len(agents))
	for i, agent := range agents {
		ids[i] = agent.ID
	}

	counts, err := u.orderRepo.CountByAgentAndStatus(db, ids, entity.ActiveDeliveryStatuses)
	if err != nil {
		u.log.Warnf("Failed to count active deliveries: %+v", err)
		return nil, err
	}

	responses := make([]dto.DeliveryAgentResponse, len(agents))
	for i, agent := range agents {
		responses[i] = converter.DeliveryAgentLoadToResponse(entity.DeliveryAgentLoad{
			Agent:            agent,
			ActiveDeliveries: counts[agent.ID],
		})
	}

	return &dto.DeliveryAgentListResponse{
		Agents: responses,
		Total:  len(responses),
	}, nil
}

func (u *deliveryUsecase) CreateAgent(ctx context.Context, req *dto.CreateDeliveryAgentRequest) (*dto.DeliveryAgentResponse, error) {
	agent := &entity.DeliveryAgent{
		Name:          req.Name,
		Phone:         req.Phone,
		VehicleNumber: req.VehicleNumber,
		IsActive:      true,
		IsAvailable:   true,
		Rating:        decimal.Zero,
	}

	if err := u.agentRepo.Create(u.db.WithContext(ctx), agent); err != nil {
		u.log.Warnf("Failed to create delivery agent: %+v", err)
		return nil, err
	}

	response := converter.DeliveryAgentLoadToResponse(entity.DeliveryAgentLoad{Agent: *agent})
	return &response, nil
}

// AssignOrder hands an order awaiting delivery to an agent.
// The update is guarded by status = PENDING_DELIVERY, so of two concurrent assignments
// exactly one affects a row; the other gets ErrOrderNotAssignable.
func (u *deliveryUsecase) AssignOrder(ctx context.Context, orderID uuid.UUID, req *dto.AssignDeliveryRequest) (*dto.OrderResponse, error) {
	adminID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	agentID, err := uuid.Parse(req.DeliveryAgentID)
	if err != nil {
		return nil, ErrInvalidID
	}

	db := u.db.WithContext(ctx)

	agent, err := u.agentRepo.FindByID(db, agentID)
	if err != nil {
		u.log.Warnf("Failed to find delivery agent %s: %+v", agentID, err)
		return nil, err
	}
	if agent == nil || !agent.IsActive {
		return nil, ErrDeliveryAgentNotFound
	}

	tx := db.Begin()
	defer tx.Rollback()

	now := time.Now().UTC()
	rows, err := u.orderRepo.AssignDeliveryAgent(tx, orderID, agentID, now)
	if err != nil {
		u.log.Warnf("Failed to assign order %s: %+v", orderID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrOrderNotAssignable
	}

	oldValue := map[string]interface{}{"status": entity.OrderStatusPendingDelivery}
	newValue := map[string]interface{}{
		"status":            entity.OrderStatusAssigned,
		"delivery_agent_id": agentID.String(),
		"assigned_at":       now,
	}
	if err := u.auditService.LogUpdate(ctx, tx, &adminID, entity.AuditActionOrderAssign, entity.AuditEntityOrder, orderID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	order, err := u.orderRepo.FindByID(tx, orderID)
	if err != nil {
		u.log.Warnf("Failed to reload order %s: %+v", orderID, err)
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Order %s assigned to delivery agent %s by %s", orderID, agentID, adminID)

	event := port.OrderEvent{
		Type:            port.OrderEventAssigned,
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
		Status:          order.Status,
		TotalAmount:     order.TotalAmount,
		DeliveryAgentID: order.AssignedToDeliveryAgentID,
		OccurredAt:      now,
	}
	if err := u.publisher.PublishOrderEvent(ctx, event); err != nil {
		u.log.Warnf("Failed to publish %s for order %s (non-fatal): %+v", event.Type, order.ID, err)
	}

	return converter.OrderToResponse(order), nil
}
