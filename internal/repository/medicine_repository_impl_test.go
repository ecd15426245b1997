package repository

import (
	"testing"

	"medimarket/internal/domain/entity"
	"medimarket/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(medicines []entity.Medicine) []string {
	out := make([]string, len(medicines))
	for i, m := range medicines {
		out[i] = m.Name
	}
	return out
}

func TestMedicineRepository_FindAllFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewMedicineRepository()

	testutil.CreateMedicine(t, db, "Paracetamol", "20", 5)
	testutil.CreateMedicine(t, db, "Ibuprofen", "35", 0)
	vitamin := &entity.Medicine{Name: "Vitamin C", Category: "Vitamins", Price: decimal.RequireFromString("120"), StockQuantity: 8}
	require.NoError(t, repo.Create(db, vitamin))

	all, err := repo.FindAll(db, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ibuprofen", "Paracetamol", "Vitamin C"}, names(all))

	byName, err := repo.FindAll(db, &entity.MedicineFilter{Query: "PARA"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Paracetamol"}, names(byName))

	allCategory, err := repo.FindAll(db, &entity.MedicineFilter{Category: entity.CategoryAll})
	require.NoError(t, err)
	assert.Len(t, allCategory, 3)

	vitamins, err := repo.FindAll(db, &entity.MedicineFilter{Category: "Vitamins"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Vitamin C"}, names(vitamins))

	inStock, err := repo.FindAll(db, &entity.MedicineFilter{InStockOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Paracetamol", "Vitamin C"}, names(inStock))

	minPrice := decimal.RequireFromString("30")
	maxPrice := decimal.RequireFromString("100")
	priced, err := repo.FindAll(db, &entity.MedicineFilter{MinPrice: &minPrice, MaxPrice: &maxPrice})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ibuprofen"}, names(priced))

	none, err := repo.FindAll(db, &entity.MedicineFilter{IDs: []uuid.UUID{}})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMedicineRepository_DecrementStockGuard(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewMedicineRepository()
	medicine := testutil.CreateMedicine(t, db, "Amoxicillin", "80", 3)

	affected, err := repo.DecrementStock(db, medicine.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.Equal(t, 1, testutil.Stock(t, db, medicine))

	affected, err = repo.DecrementStock(db, medicine.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	assert.Equal(t, 1, testutil.Stock(t, db, medicine))
}

func TestMedicineRepository_DecrementStockFloorNeverNegative(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewMedicineRepository()
	medicine := testutil.CreateMedicine(t, db, "Bandage", "15", 2)

	require.NoError(t, repo.DecrementStockFloor(db, medicine.ID, 5))
	assert.Equal(t, 0, testutil.Stock(t, db, medicine))
}
