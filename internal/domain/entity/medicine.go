package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Medicine is a catalog row. StockQuantity never goes below zero.
type Medicine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Description   string          `gorm:"type:text" json:"description,omitempty"`
	Category      string          `gorm:"type:varchar(100);not null;index" json:"category"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	Manufacturer  string          `gorm:"type:varchar(255)" json:"manufacturer,omitempty"`
	Dosage        string          `gorm:"type:varchar(100)" json:"dosage,omitempty"`
	ImageURL      string          `gorm:"type:text" json:"image_url,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Medicine) TableName() string {
	return "medicines"
}

func (m *Medicine) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// HasStock reports whether quantity units can be taken from the current stock
func (m *Medicine) HasStock(quantity int) bool {
	return quantity <= m.StockQuantity
}

// CategoryAll disables category filtering
const CategoryAll = "All"

// Categories offered by the storefront filter
var Categories = []string{
	CategoryAll,
	"Pain Relief",
	"Antibiotics",
	"Allergy",
	"Vitamins",
	"First Aid",
}

// MedicineChangeType mirrors the row-level change kinds pushed to realtime subscribers
type MedicineChangeType string

const (
	MedicineInserted MedicineChangeType = "INSERT"
	MedicineUpdated  MedicineChangeType = "UPDATE"
	MedicineDeleted  MedicineChangeType = "DELETE"
)

// MedicineChange is a notification that a catalog row changed
type MedicineChange struct {
	Type          MedicineChangeType `json:"type"`
	MedicineID    uuid.UUID          `json:"medicine_id"`
	StockQuantity *int               `json:"stock_quantity,omitempty"`
	OccurredAt    time.Time          `json:"occurred_at"`
}
