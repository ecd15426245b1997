package service

import (
	"context"
	"fmt"
	"time"

	"medimarket/internal/domain/port"
	"medimarket/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Batch size for startup reindex - 500 medicines per bulk request
const reindexBatchSize = 500

// SearchSyncService rebuilds the medicine search index from the database.
// The database stays the source of truth; the index only ever lags it.
type SearchSyncService struct {
	db           *gorm.DB
	log          *logrus.Logger
	medicineRepo repository.MedicineRepository
	searcher     port.MedicineSearcher
}

func NewSearchSyncService(db *gorm.DB, log *logrus.Logger, medicineRepo repository.MedicineRepository, searcher port.MedicineSearcher) *SearchSyncService {
	return &SearchSyncService{
		db:           db,
		log:          log,
		medicineRepo: medicineRepo,
		searcher:     searcher,
	}
}

// SyncOnStartup pushes every catalog row to the index, one bulk request per batch.
func (s *SearchSyncService) SyncOnStartup(ctx context.Context) error {
	s.log.Info("Starting search reindex from database...")
	startTime := time.Now()

	offset := 0
	total := 0

	for {
		medicines, err := s.medicineRepo.FindPage(s.db.WithContext(ctx), reindexBatchSize, offset)
		if err != nil {
			s.log.Errorf("Failed to query medicines at offset %d: %+v", offset, err)
			return fmt.Errorf("query medicines at offset %d: %w", offset, err)
		}

		if len(medicines) == 0 {
			if offset == 0 {
				s.log.Info("No medicines found for reindex")
			}
			break
		}

		if err := s.searcher.IndexBatch(ctx, medicines); err != nil {
			s.log.Errorf("Failed to index batch at offset %d: %+v", offset, err)
			return fmt.Errorf("index batch at offset %d: %w", offset, err)
		}

		total += len(medicines)
		s.log.Debugf("Indexed batch: %d medicines", len(medicines))

		if len(medicines) < reindexBatchSize {
			break
		}

		offset += reindexBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Search reindex completed: %d medicines indexed in %v", total, time.Since(startTime))
	return nil
}
