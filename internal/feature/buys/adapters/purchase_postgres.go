// Package adapters implements the read-only gorm repositories for the buys
// feature. All filters are bound parameters; only the presence of date
// bounds changes the query shape.
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"analytics_backend/internal/feature/buys/domain/entity"
	"analytics_backend/internal/feature/buys/usecase"
	"analytics_backend/internal/shared/daterange"
)

// TokenCode is the ledger code of the token this service reports on.
const TokenCode = "PMN"

type purchasePostgres struct {
	db *gorm.DB
}

var _ usecase.PurchaseRepository = (*purchasePostgres)(nil)

// NewPurchaseRepository creates the purchase ledger accessor.
func NewPurchaseRepository(db *gorm.DB) *purchasePostgres {
	return &purchasePostgres{db: db}
}

// PurchaseModel maps the externally owned pending_txes ledger table. The
// service never writes to it; the schema tags exist for test migrations.
type PurchaseModel struct {
	ID           uint      `gorm:"primaryKey"`
	PublicKey    string    `gorm:"size:64;index"`
	Status       string    `gorm:"size:8;index"`
	Code         string    `gorm:"size:16;index"`
	Amount       float64   `gorm:"not null;default:0"`
	Price        float64   `gorm:"not null;default:0"`
	ExchangeRate float64   `gorm:"not null;default:0"`
	Gateway      string    `gorm:"size:64"`
	Application  string    `gorm:"size:64"`
	CreatedAt    time.Time `gorm:"index"`
}

func (PurchaseModel) TableName() string {
	return "pending_txes"
}

// completed scopes a query to finalized PMN purchases within the range.
func (r *purchasePostgres) completed(ctx context.Context, rng daterange.Range) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&PurchaseModel{}).
		Where("status = ? AND code = ?", entity.StatusCompleted, TokenCode).
		Scopes(rng.Scope("created_at"))
}

// all scopes a query to PMN purchases of any status within the range.
func (r *purchasePostgres) all(ctx context.Context, rng daterange.Range) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&PurchaseModel{}).
		Where("code = ?", TokenCode).
		Scopes(rng.Scope("created_at"))
}

func (r *purchasePostgres) CountCompleted(ctx context.Context, rng daterange.Range) (int64, error) {
	var n int64
	err := r.completed(ctx, rng).Count(&n).Error
	return n, err
}

func (r *purchasePostgres) CountAll(ctx context.Context, rng daterange.Range) (int64, error) {
	var n int64
	err := r.all(ctx, rng).Count(&n).Error
	return n, err
}

func (r *purchasePostgres) SumAmount(ctx context.Context, rng daterange.Range) (float64, error) {
	var v float64
	err := r.completed(ctx, rng).Select("COALESCE(SUM(amount), 0)").Scan(&v).Error
	return v, err
}

func (r *purchasePostgres) SumRials(ctx context.Context, rng daterange.Range) (float64, error) {
	var v float64
	err := r.completed(ctx, rng).Select("COALESCE(SUM(price), 0)").Scan(&v).Error
	return v, err
}

func (r *purchasePostgres) AvgAmount(ctx context.Context, rng daterange.Range) (float64, error) {
	var v float64
	err := r.completed(ctx, rng).Select("COALESCE(AVG(amount), 0)").Scan(&v).Error
	return v, err
}

func (r *purchasePostgres) CountDistinctBuyers(ctx context.Context, rng daterange.Range) (int64, error) {
	var n int64
	err := r.completed(ctx, rng).Distinct("public_key").Count(&n).Error
	return n, err
}

func (r *purchasePostgres) CompletedTxPoints(ctx context.Context, rng daterange.Range) ([]entity.TxPoint, error) {
	var rows []PurchaseModel
	err := r.completed(ctx, rng).
		Select("created_at", "amount", "price").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.TxPoint, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.TxPoint{Time: m.CreatedAt, Amount: m.Amount, Rials: m.Price})
	}
	return out, nil
}

func (r *purchasePostgres) RatePoints(ctx context.Context, rng daterange.Range) ([]entity.RatePoint, error) {
	var rows []PurchaseModel
	err := r.completed(ctx, rng).
		Where("exchange_rate > 0").
		Select("created_at", "exchange_rate").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.RatePoint, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.RatePoint{Time: m.CreatedAt, Rate: m.ExchangeRate})
	}
	return out, nil
}

// categoryRow scans categorical group-by results.
type categoryRow struct {
	Name       string
	Count      int64
	TotalRials float64
}

func (r *purchasePostgres) ByGateway(ctx context.Context, rng daterange.Range) ([]entity.CategoryCount, error) {
	var rows []categoryRow
	err := r.completed(ctx, rng).
		Where("gateway IS NOT NULL AND gateway <> ''").
		Select("gateway AS name, COUNT(*) AS count, COALESCE(SUM(price), 0) AS total_rials").
		Group("gateway").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCategories(rows), nil
}

func (r *purchasePostgres) ByApplication(ctx context.Context, rng daterange.Range) ([]entity.CategoryCount, error) {
	var rows []categoryRow
	err := r.completed(ctx, rng).
		Where("application IS NOT NULL AND application <> ''").
		Select("application AS name, COUNT(*) AS count").
		Group("application").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCategories(rows), nil
}

func (r *purchasePostgres) StatusCounts(ctx context.Context, rng daterange.Range) ([]entity.CategoryCount, error) {
	var rows []categoryRow
	err := r.all(ctx, rng).
		Select("status AS name, COUNT(*) AS count").
		Group("status").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCategories(rows), nil
}

func toCategories(rows []categoryRow) []entity.CategoryCount {
	out := make([]entity.CategoryCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.CategoryCount{Name: row.Name, Count: row.Count, TotalRials: row.TotalRials})
	}
	return out
}
