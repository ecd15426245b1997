package usecase

import (
	"context"
	"errors"

	"medimarket/internal/converter"
	"medimarket/internal/delivery/dto"
	"medimarket/internal/delivery/http/middleware"
	"medimarket/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
)

type CartUsecase interface {
	GetCart(ctx context.Context) (*dto.CartResponse, error)
	AddItem(ctx context.Context, req *dto.AddToCartRequest) (*dto.CartResponse, error)
	UpdateItem(ctx context.Context, req *dto.UpdateCartItemRequest) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
}

type cartUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	cartRepo     repository.CartRepository
	medicineRepo repository.MedicineRepository
}

func NewCartUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cartRepo repository.CartRepository,
	medicineRepo repository.MedicineRepository,
) CartUsecase {
	return &cartUsecase{
		db:           db,
		log:          log,
		cartRepo:     cartRepo,
		medicineRepo: medicineRepo,
	}
}

// GetCart returns the caller's cart priced at current catalog prices. No cart is an empty cart.
func (u *cartUsecase) GetCart(ctx context.Context) (*dto.CartResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	cart, err := u.cartRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find cart for user %s: %+v", userID, err)
		return nil, err
	}

	return converter.CartToResponse(cart), nil
}

// AddItem merges the quantity into the existing line for the medicine, creating the cart
// and the line when absent. Stock is not checked here; checkout does that.
func (u *cartUsecase) AddItem(ctx context.Context, req *dto.AddToCartRequest) (*dto.CartResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	medicineID, err := uuid.Parse(req.MedicineID)
	if err != nil {
		return nil, ErrInvalidID
	}

	db := u.db.WithContext(ctx)

	medicine, err := u.medicineRepo.FindByID(db, medicineID)
	if err != nil {
		u.log.Warnf("Failed to find medicine %s: %+v", medicineID, err)
		return nil, err
	}
	if medicine == nil {
		return nil, ErrMedicineNotFound
	}

	cart, err := u.cartRepo.EnsureCart(db, userID)
	if err != nil {
		u.log.Warnf("Failed to ensure cart for user %s: %+v", userID, err)
		return nil, err
	}

	if err := u.cartRepo.AddItem(db, cart.ID, medicineID, req.Quantity); err != nil {
		u.log.Warnf("Failed to add medicine %s to cart %s: %+v", medicineID, cart.ID, err)
		return nil, err
	}

	cart.Items, err = u.cartRepo.FindItems(db, cart.ID)
	if err != nil {
		u.log.Warnf("Failed to reload items of cart %s: %+v", cart.ID, err)
		return nil, err
	}

	return converter.CartToResponse(cart), nil
}

// UpdateItem overwrites a line's quantity; zero or below removes the line.
func (u *cartUsecase) UpdateItem(ctx context.Context, req *dto.UpdateCartItemRequest) (*dto.CartResponse, error) {
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, ErrInvalidID
	}

	if req.Quantity <= 0 {
		if err := u.RemoveItem(ctx, itemID); err != nil {
			return nil, err
		}
		return u.GetCart(ctx)
	}

	cartID, err := u.ownCartID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := u.cartRepo.UpdateItemQuantity(u.db.WithContext(ctx), cartID, itemID, req.Quantity)
	if err != nil {
		u.log.Warnf("Failed to update cart item %s: %+v", itemID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrCartItemNotFound
	}

	return u.GetCart(ctx)
}

// RemoveItem deletes a line of the caller's own cart.
func (u *cartUsecase) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	cartID, err := u.ownCartID(ctx)
	if err != nil {
		return err
	}

	rows, err := u.cartRepo.DeleteItem(u.db.WithContext(ctx), cartID, itemID)
	if err != nil {
		u.log.Warnf("Failed to delete cart item %s: %+v", itemID, err)
		return err
	}
	if rows == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// ownCartID scopes item mutations to the caller's cart; no cart means no items to touch.
func (u *cartUsecase) ownCartID(ctx context.Context) (uuid.UUID, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, ErrUnauthenticated
	}

	cart, err := u.cartRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find cart for user %s: %+v", userID, err)
		return uuid.Nil, err
	}
	if cart == nil {
		return uuid.Nil, ErrCartItemNotFound
	}

	return cart.ID, nil
}
