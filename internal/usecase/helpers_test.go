package usecase

import (
	"context"
	"testing"
	"time"

	"medimarket/internal/delivery/http/middleware"
	"medimarket/internal/domain/entity"
	"medimarket/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func userContext(user *entity.User) context.Context {
	return middleware.ContextWithUser(context.Background(), user)
}

// putInCart adds a line straight through the repository.
func putInCart(t *testing.T, db *gorm.DB, user *entity.User, medicine *entity.Medicine, quantity int) {
	t.Helper()

	repo := repository.NewCartRepository()
	cart, err := repo.EnsureCart(db, user.ID)
	require.NoError(t, err)
	require.NoError(t, repo.AddItem(db, cart.ID, medicine.ID, quantity))
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

func cartLines(t *testing.T, db *gorm.DB, user *entity.User) int {
	t.Helper()

	cart, err := repository.NewCartRepository().FindByUserID(db, user.ID)
	require.NoError(t, err)
	if cart == nil {
		return 0
	}
	return len(cart.Items)
}


func timeFromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
