package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"analytics_backend/internal/feature/buys/domain/entity"
	"analytics_backend/internal/feature/buys/usecase"
)

type pricePostgres struct {
	db *gorm.DB
}

var _ usecase.PriceRepository = (*pricePostgres)(nil)

// NewPriceRepository creates the reference-price series accessor.
func NewPriceRepository(db *gorm.DB) *pricePostgres {
	return &pricePostgres{db: db}
}

// PriceModel maps the externally owned prices table.
type PriceModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:16;index"`
	Price     float64   `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"index"`
}

func (PriceModel) TableName() string {
	return "prices"
}

// Samples returns the named series ordered ascending by time. The series is
// sparse and irregularly sampled; the caller joins against it per request.
func (r *pricePostgres) Samples(ctx context.Context, series string) ([]entity.PriceSample, error) {
	var rows []PriceModel
	err := r.db.WithContext(ctx).
		Model(&PriceModel{}).
		Where("name = ?", series).
		Order("created_at ASC").
		Select("created_at", "price").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.PriceSample, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.PriceSample{Time: m.CreatedAt, Price: m.Price})
	}
	return out, nil
}
