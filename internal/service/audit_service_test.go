package service

import (
	"context"
	"testing"

	"medimarket/internal/domain/entity"
	"medimarket/internal/repository"
	"medimarket/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_LogUpdate(t *testing.T) {
	db := testutil.NewDB(t)
	admin := testutil.CreateAdmin(t, db, "admin@example.com")
	repo := repository.NewAuditLogRepository()
	svc := NewAuditService(testutil.NewLogger(), repo)

	err := svc.LogUpdate(context.Background(), db, &admin.ID, entity.AuditActionOrderAssign, entity.AuditEntityOrder, "order-1",
		map[string]interface{}{"status": "PENDING_DELIVERY"},
		map[string]interface{}{"status": "ASSIGNED"},
	)
	require.NoError(t, err)

	logs, total, err := repo.FindAll(db, &entity.AuditLogFilter{EntityType: entity.AuditEntityOrder, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, entity.AuditActionOrderAssign, logs[0].Action)
	assert.Equal(t, "order-1", logs[0].EntityID)
	assert.Equal(t, map[string]interface{}{"status": "ASSIGNED"}, logs[0].Metadata["new_value"])
}

func TestAuditService_RollsBackWithTransaction(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewAuditLogRepository()
	svc := NewAuditService(testutil.NewLogger(), repo)

	tx := db.Begin()
	require.NoError(t, svc.LogDelete(context.Background(), tx, nil, entity.AuditActionMedicineDelete, entity.AuditEntityMedicine, "m-1", nil))
	tx.Rollback()

	_, total, err := repo.FindAll(db, &entity.AuditLogFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
