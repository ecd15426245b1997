package usecase

import (
	"context"
	"errors"

	"medimarket/internal/converter"
	"medimarket/internal/delivery/dto"
	"medimarket/internal/delivery/http/middleware"
	"medimarket/internal/domain/entity"
	"medimarket/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

type OrderUsecase interface {
	GetMyOrders(ctx context.Context) (*dto.OrderListResponse, error)
	GetPendingDelivery(ctx context.Context) (*dto.OrderListResponse, error)
}

type orderUsecase struct {
	db        *gorm.DB
	log       *logrus.Logger
	orderRepo repository.OrderRepository
}

func NewOrderUsecase(db *gorm.DB, log *logrus.Logger, orderRepo repository.OrderRepository) OrderUsecase {
	return &orderUsecase{
		db:        db,
		log:       log,
		orderRepo: orderRepo,
	}
}

// GetMyOrders returns the caller's orders, newest first
func (u *orderUsecase) GetMyOrders(ctx context.Context) (*dto.OrderListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	orders, err := u.orderRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find orders for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.OrderListResponse{
		Orders: converter.OrdersToResponses(orders),
		Total:  len(orders),
	}, nil
}

// GetPendingDelivery returns paid orders waiting for a delivery agent, oldest first
func (u *orderUsecase) GetPendingDelivery(ctx context.Context) (*dto.OrderListResponse, error) {
	orders, err := u.orderRepo.FindByStatus(u.db.WithContext(ctx), entity.OrderStatusPendingDelivery)
	if err != nil {
		u.log.Warnf("Failed to find orders pending delivery: %+v", err)
		return nil, err
	}

	return &dto.OrderListResponse{
		Orders: converter.OrdersToResponses(orders),
		Total:  len(orders),
	}, nil
}
