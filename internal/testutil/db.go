// Package testutil provides an in-memory database for package tests.
package testutil

import (
	"io"
	"testing"

	"medimarket/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every persisted entity in dependency order.
func Models() []interface{} {
	return []interface{}{
		&entity.Role{},
		&entity.User{},
		&entity.PatientProfile{},
		&entity.Medicine{},
		&entity.Cart{},
		&entity.CartItem{},
		&entity.DeliveryAgent{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.FinanceTransaction{},
		&entity.Receipt{},
		&entity.AuditLog{},
	}
}

// NewDB opens a fresh in-memory SQLite database with the schema migrated and roles seeded.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection would otherwise get its own empty in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models()...))
	require.NoError(t, db.Create(entity.DefaultRoles()).Error)

	return db
}

// CreateUser inserts a patient.
func CreateUser(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()

	authID := "kp_" + email
	user := &entity.User{
		AuthID:     &authID,
		RoleID:     entity.RoleIDPatient,
		Email:      email,
		Name:       email,
		IsActive:   true,
		IsVerified: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateMedicine inserts a catalog row.
func CreateMedicine(t *testing.T, db *gorm.DB, name string, price string, stock int) *entity.Medicine {
	t.Helper()

	medicine := &entity.Medicine{
		Name:          name,
		Category:      "Pain Relief",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Manufacturer:  "Acme Pharma",
		Dosage:        "500mg",
	}
	require.NoError(t, db.Create(medicine).Error)
	return medicine
}

// Stock re-reads a medicine's current stock.
func Stock(t *testing.T, db *gorm.DB, medicine *entity.Medicine) int {
	t.Helper()

	var current entity.Medicine
	require.NoError(t, db.First(&current, "id = ?", medicine.ID).Error)
	return current.StockQuantity
}

// NewLogger returns a logger that discards output.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// CreateAdmin inserts an administrator.
func CreateAdmin(t *testing.T, db *gorm.DB, email string) *entity.User {
	t.Helper()

	authID := "kp_" + email
	user := &entity.User{
		AuthID:     &authID,
		RoleID:     entity.RoleIDAdmin,
		Email:      email,
		Name:       "Admin",
		IsActive:   true,
		IsVerified: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateDeliveryAgent inserts an active, available agent.
func CreateDeliveryAgent(t *testing.T, db *gorm.DB, name string) *entity.DeliveryAgent {
	t.Helper()

	agent := &entity.DeliveryAgent{
		Name:        name,
		Phone:       "9800000000",
		IsActive:    true,
		IsAvailable: true,
		Rating:      decimal.Zero,
	}
	require.NoError(t, db.Create(agent).Error)
	return agent
}
