package usecase

import (
	"context"
	"errors"
	"testing"

	"medimarket/internal/delivery/dto"
	"medimarket/internal/domain/entity"
	"medimarket/internal/repository"
	"medimarket/internal/service"
	"medimarket/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type medicineFixture struct {
	db       *gorm.DB
	usecase  MedicineUsecase
	searcher *testutil.FakeSearcher
	notifier *testutil.FakeNotifier
}

func newMedicineFixture(t *testing.T) *medicineFixture {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.NewLogger()
	searcher := testutil.NewFakeSearcher()
	notifier := &testutil.FakeNotifier{}
	uc := NewMedicineUsecase(
		db,
		log,
		repository.NewMedicineRepository(),
		service.NewAuditService(log, repository.NewAuditLogRepository()),
		searcher,
		notifier,
	)
	return &medicineFixture{db: db, usecase: uc, searcher: searcher, notifier: notifier}
}

func medicineNames(resp *dto.MedicineListResponse) []string {
	names := make([]string, len(resp.Medicines))
	for i, m := range resp.Medicines {
		names[i] = m.Name
	}
	return names
}

func TestMedicineUsecase_List_SubstringFallback(t *testing.T) {
	f := newMedicineFixture(t)
	f.searcher.Err = errors.New("connection refused")
	testutil.CreateMedicine(t, f.db, "Paracetamol 500", "10", 5)
	testutil.CreateMedicine(t, f.db, "Ibuprofen", "20", 5)

	resp, err := f.usecase.List(context.Background(), &dto.MedicineQuery{Q: "PARA"})
	require.NoError(t, err)

	assert.False(t, resp.Fuzzy)
	assert.Equal(t, []string{"Paracetamol 500"}, medicineNames(resp))
}

func TestMedicineUsecase_List_FuzzyHits(t *testing.T) {
	f := newMedicineFixture(t)
	para := testutil.CreateMedicine(t, f.db, "Paracetamol", "10", 5)
	testutil.CreateMedicine(t, f.db, "Ibuprofen", "20", 5)
	f.searcher.Hits = []uuid.UUID{para.ID}

	resp, err := f.usecase.List(context.Background(), &dto.MedicineQuery{Q: "paracetmol"})
	require.NoError(t, err)

	assert.True(t, resp.Fuzzy)
	assert.Equal(t, []string{"Paracetamol"}, medicineNames(resp))
}

func TestMedicineUsecase_List_Filters(t *testing.T) {
	f := newMedicineFixture(t)
	testutil.CreateMedicine(t, f.db, "Aspirin", "5", 0)
	testutil.CreateMedicine(t, f.db, "Diclofenac", "45", 3)
	testutil.CreateMedicine(t, f.db, "Naproxen", "90", 7)
	vitamin := &entity.Medicine{Name: "Vitamin D3", Category: "Vitamins", Price: decimal.NewFromInt(30), StockQuantity: 4}
	require.NoError(t, f.db.Create(vitamin).Error)

	min := decimal.NewFromInt(10)
	max := decimal.NewFromInt(60)

	resp, err := f.usecase.List(context.Background(), &dto.MedicineQuery{Category: "Pain Relief", InStockOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Diclofenac", "Naproxen"}, medicineNames(resp))

	resp, err = f.usecase.List(context.Background(), &dto.MedicineQuery{Category: entity.CategoryAll, MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	assert.Equal(t, []string{"Diclofenac", "Vitamin D3"}, medicineNames(resp))
}

func TestMedicineUsecase_GetByID(t *testing.T) {
	f := newMedicineFixture(t)
	medicine := testutil.CreateMedicine(t, f.db, "Loratadine", "15", 5)

	resp, err := f.usecase.GetByID(context.Background(), medicine.ID)
	require.NoError(t, err)
	assert.Equal(t, "Loratadine", resp.Name)

	_, err = f.usecase.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrMedicineNotFound)
}

func TestMedicineUsecase_CreateUpdateDelete(t *testing.T) {
	f := newMedicineFixture(t)
	admin := testutil.CreateAdmin(t, f.db, "admin@example.com")
	ctx := userContext(admin)

	req := &dto.CreateMedicineRequest{
		Name:          "Azithromycin",
		Category:      "Antibiotics",
		Price:         decimal.RequireFromString("120.50"),
		StockQuantity: 20,
		Dosage:        "250mg",
	}
	created, err := f.usecase.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Azithromycin", f.searcher.Indexed[created.ID])

	req.StockQuantity = 15
	updated, err := f.usecase.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 15, updated.StockQuantity)

	require.NoError(t, f.usecase.Delete(ctx, created.ID))
	assert.NotContains(t, f.searcher.Indexed, created.ID)

	_, err = f.usecase.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrMedicineNotFound)

	require.Len(t, f.notifier.Changes, 3)
	assert.Equal(t, entity.MedicineInserted, f.notifier.Changes[0].Type)
	assert.Equal(t, entity.MedicineUpdated, f.notifier.Changes[1].Type)
	assert.Equal(t, entity.MedicineDeleted, f.notifier.Changes[2].Type)

	_, total, err := repository.NewAuditLogRepository().FindAll(f.db, &entity.AuditLogFilter{EntityType: entity.AuditEntityMedicine})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestMedicineUsecase_RejectsNonPositivePrice(t *testing.T) {
	f := newMedicineFixture(t)

	_, err := f.usecase.Create(context.Background(), &dto.CreateMedicineRequest{Name: "Free", Category: "First Aid", Price: decimal.Zero})

	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestMedicineUsecase_Update_NotFound(t *testing.T) {
	f := newMedicineFixture(t)

	_, err := f.usecase.Update(context.Background(), uuid.New(), &dto.UpdateMedicineRequest{Name: "Ghost", Category: "Allergy", Price: decimal.NewFromInt(1)})

	assert.ErrorIs(t, err, ErrMedicineNotFound)
}

func TestMedicineUsecase_Export(t *testing.T) {
	f := newMedicineFixture(t)
	testutil.CreateMedicine(t, f.db, "Paracetamol", "10", 5)
	testutil.CreateMedicine(t, f.db, "Ibuprofen", "20", 5)

	file, err := f.usecase.Export(context.Background())
	require.NoError(t, err)

	sheet := file.Sheet["Medicines"]
	require.NotNil(t, sheet)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "Name", sheet.Rows[0].Cells[1].String())
}

func TestMedicineUsecase_Categories(t *testing.T) {
	f := newMedicineFixture(t)

	categories := f.usecase.Categories()

	assert.Equal(t, entity.CategoryAll, categories[0])
	assert.Contains(t, categories, "Antibiotics")
}
