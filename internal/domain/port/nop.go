package port

import (
	"context"
	"time"

	"medimarket/internal/domain/entity"

	"github.com/google/uuid"
)

// NopEventPublisher drops events. Used when no broker is configured.
type NopEventPublisher struct{}

func (NopEventPublisher) PublishOrderEvent(context.Context, OrderEvent) error { return nil }

// NopMedicineSearcher makes every search fall back to the database.
type NopMedicineSearcher struct{}

func (NopMedicineSearcher) Search(context.Context, string, int) ([]uuid.UUID, error) {
	return nil, ErrSearchUnavailable
}

func (NopMedicineSearcher) Index(context.Context, *entity.Medicine) error { return nil }

func (NopMedicineSearcher) IndexBatch(context.Context, []entity.Medicine) error { return nil }

func (NopMedicineSearcher) Remove(context.Context, uuid.UUID) error { return nil }

type NopMedicineChangeNotifier struct{}

func (NopMedicineChangeNotifier) Notify(context.Context, entity.MedicineChange) error { return nil }

type NopIdentityCache struct{}

func (NopIdentityCache) Get(context.Context, string) (*entity.User, error) { return nil, nil }

func (NopIdentityCache) Set(context.Context, string, *entity.User) error { return nil }

func (NopIdentityCache) Delete(context.Context, string) error { return nil }

type NopTokenDenylist struct{}

func (NopTokenDenylist) Revoke(context.Context, string, time.Duration) error { return nil }

func (NopTokenDenylist) IsRevoked(context.Context, string) (bool, error) { return false, nil }
