package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyError(t *testing.T) {
	assert.True(t, isDuplicateKeyError(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKeyError(fmt.Errorf("create user: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, isDuplicateKeyError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}))

	assert.False(t, isDuplicateKeyError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isDuplicateKeyError(errors.New("connection refused")))
	assert.False(t, isDuplicateKeyError(nil))
}

func TestIsForeignKeyError(t *testing.T) {
	assert.True(t, isForeignKeyError(gorm.ErrForeignKeyViolated))
	assert.True(t, isForeignKeyError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isForeignKeyError(gorm.ErrDuplicatedKey))
}
