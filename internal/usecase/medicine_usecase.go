package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"medimarket/internal/converter"
	"medimarket/internal/delivery/dto"
	"medimarket/internal/delivery/http/middleware"
	"medimarket/internal/domain/entity"
	"medimarket/internal/domain/port"
	"medimarket/internal/domain/repository"
	"medimarket/internal/infrastructure/metrics"
	"medimarket/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

var (
	ErrMedicineNotFound = errors.New("medicine not found")
	ErrMedicineInUse    = errors.New("medicine is referenced by existing orders")
	ErrInvalidPrice     = errors.New("price must be greater than zero")
)

const (
	searchHitLimit  = 100
	exportBatchSize = 500
)

type MedicineUsecase interface {
	List(ctx context.Context, query *dto.MedicineQuery) (*dto.MedicineListResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.MedicineResponse, error)
	Categories() []string
	Create(ctx context.Context, req *dto.CreateMedicineRequest) (*dto.MedicineResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateMedicineRequest) (*dto.MedicineResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Export(ctx context.Context) (*xlsx.File, error)
}

type medicineUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	medicineRepo repository.MedicineRepository
	auditService service.AuditService
	searcher     port.MedicineSearcher
	notifier     port.MedicineChangeNotifier
}

func NewMedicineUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	medicineRepo repository.MedicineRepository,
	auditService service.AuditService,
	searcher port.MedicineSearcher,
	notifier port.MedicineChangeNotifier,
) MedicineUsecase {
	return &medicineUsecase{
		db:           db,
		log:          log,
		medicineRepo: medicineRepo,
		auditService: auditService,
		searcher:     searcher,
		notifier:     notifier,
	}
}

// List applies the storefront filters. A text query goes to the fuzzy index first; any
// index failure, or no hits, falls back to a case-insensitive substring match on name.
func (u *medicineUsecase) List(ctx context.Context, query *dto.MedicineQuery) (*dto.MedicineListResponse, error) {
	filter := &entity.MedicineFilter{
		Category:    query.Category,
		InStockOnly: query.InStockOnly,
		MinPrice:    query.MinPrice,
		MaxPrice:    query.MaxPrice,
	}

	fuzzy := false
	if q := strings.TrimSpace(query.Q); q != "" {
		ids, err := u.searcher.Search(ctx, q, searchHitLimit)
		switch {
		case err == nil && len(ids) > 0:
			filter.IDs = ids
			fuzzy = true
		case err != nil && !errors.Is(err, port.ErrSearchUnavailable):
			metrics.SearchFallbacksTotal.Inc()
			u.log.Warnf("Failed to search medicines, falling back to database: %+v", err)
			filter.Query = q
		default:
			filter.Query = q
		}
	}

	medicines, err := u.medicineRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find medicines: %+v", err)
		return nil, err
	}

	return &dto.MedicineListResponse{
		Medicines: converter.MedicinesToResponses(medicines),
		Total:     len(medicines),
		Fuzzy:     fuzzy,
	}, nil
}

func (u *medicineUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.MedicineResponse, error) {
	medicine, err := u.medicineRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find medicine %s: %+v", id, err)
		return nil, err
	}
	if medicine == nil {
		return nil, ErrMedicineNotFound
	}

	return converter.MedicineToResponse(medicine), nil
}

func (u *medicineUsecase) Categories() []string {
	categories := make([]string, len(entity.Categories))
	copy(categories, entity.Categories)
	return categories
}

func (u *medicineUsecase) Create(ctx context.Context, req *dto.CreateMedicineRequest) (*dto.MedicineResponse, error) {
	if !req.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	adminID := adminFromContext(ctx)

	medicine := &entity.Medicine{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Category:      req.Category,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Manufacturer:  req.Manufacturer,
		Dosage:        req.Dosage,
		ImageURL:      req.ImageURL,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.medicineRepo.Create(tx, medicine); err != nil {
		u.log.Warnf("Failed to create medicine: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, adminID, entity.AuditActionMedicineCreate, entity.AuditEntityMedicine, medicine.ID.String(), medicine); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.afterChange(ctx, entity.MedicineInserted, medicine)
	return converter.MedicineToResponse(medicine), nil
}

func (u *medicineUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateMedicineRequest) (*dto.MedicineResponse, error) {
	if !req.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	adminID := adminFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	medicine, err := u.medicineRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find medicine %s: %+v", id, err)
		return nil, err
	}
	if medicine == nil {
		return nil, ErrMedicineNotFound
	}
	oldValue := *medicine

	medicine.Name = strings.TrimSpace(req.Name)
	medicine.Description = req.Description
	medicine.Category = req.Category
	medicine.Price = req.Price
	medicine.StockQuantity = req.StockQuantity
	medicine.Manufacturer = req.Manufacturer
	medicine.Dosage = req.Dosage
	medicine.ImageURL = req.ImageURL

	if err := u.medicineRepo.Update(tx, medicine); err != nil {
		u.log.Warnf("Failed to update medicine %s: %+v", id, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, adminID, entity.AuditActionMedicineUpdate, entity.AuditEntityMedicine, id.String(), oldValue, medicine); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.afterChange(ctx, entity.MedicineUpdated, medicine)
	return converter.MedicineToResponse(medicine), nil
}

func (u *medicineUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	adminID := adminFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	medicine, err := u.medicineRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find medicine %s: %+v", id, err)
		return err
	}
	if medicine == nil {
		return ErrMedicineNotFound
	}

	if _, err := u.medicineRepo.Delete(tx, id); err != nil {
		if isForeignKeyError(err) {
			return ErrMedicineInUse
		}
		u.log.Warnf("Failed to delete medicine %s: %+v", id, err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, adminID, entity.AuditActionMedicineDelete, entity.AuditEntityMedicine, id.String(), medicine); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.afterChange(ctx, entity.MedicineDeleted, medicine)
	return nil
}

// Export writes the whole catalog to a single-sheet workbook, reading it in batches.
func (u *medicineUsecase) Export(ctx context.Context) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Medicines")
	if err != nil {
		u.log.Warnf("Failed to create export sheet: %+v", err)
		return nil, err
	}

	headers := []string{
		"ID", "Name", "Category", "Price", "Stock",
		"Manufacturer", "Dosage", "Description", "CreatedAt", "UpdatedAt",
	}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for offset := 0; ; offset += exportBatchSize {
		medicines, err := u.medicineRepo.FindPage(u.db.WithContext(ctx), exportBatchSize, offset)
		if err != nil {
			u.log.Warnf("Failed to read medicines at offset %d: %+v", offset, err)
			return nil, err
		}

		for _, m := range medicines {
			row := sheet.AddRow()
			row.AddCell().SetValue(m.ID.String())
			row.AddCell().SetValue(m.Name)
			row.AddCell().SetValue(m.Category)
			row.AddCell().SetValue(m.Price.StringFixed(2))
			row.AddCell().SetValue(m.StockQuantity)
			row.AddCell().SetValue(m.Manufacturer)
			row.AddCell().SetValue(m.Dosage)
			row.AddCell().SetValue(m.Description)
			row.AddCell().SetValue(m.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(m.UpdatedAt.Format("2006-01-02 15:04:05"))
		}

		if len(medicines) < exportBatchSize {
			break
		}
	}

	return file, nil
}

// afterChange keeps the search index and realtime subscribers in step. Both are best-effort.
func (u *medicineUsecase) afterChange(ctx context.Context, changeType entity.MedicineChangeType, medicine *entity.Medicine) {
	var err error
	if changeType == entity.MedicineDeleted {
		err = u.searcher.Remove(ctx, medicine.ID)
	} else {
		err = u.searcher.Index(ctx, medicine)
	}
	if err != nil {
		u.log.Warnf("Failed to sync search index for medicine %s (non-fatal): %+v", medicine.ID, err)
	}

	change := entity.MedicineChange{
		Type:       changeType,
		MedicineID: medicine.ID,
		OccurredAt: time.Now().UTC(),
	}
	if changeType != entity.MedicineDeleted {
		stock := medicine.StockQuantity
		change.StockQuantity = &stock
	}
	if err := u.notifier.Notify(ctx, change); err != nil {
		u.log.Warnf("Failed to notify change for medicine %s (non-fatal): %+v", medicine.ID, err)
	}
}

func adminFromContext(ctx context.Context) *uuid.UUID {
	if id, ok := middleware.GetUserIDFromContext(ctx); ok {
		return &id
	}
	return nil
}
