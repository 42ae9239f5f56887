// Package adapters implements the read-only gorm repository for the
// refunds feature. All filters are bound parameters.
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"analytics_backend/internal/feature/refunds/domain/entity"
	"analytics_backend/internal/feature/refunds/usecase"
	"analytics_backend/internal/shared/daterange"
)

// TokenCode is the ledger code of the token this service reports on.
const TokenCode = "PMN"

type refundPostgres struct {
	db *gorm.DB
}

var _ usecase.RefundRepository = (*refundPostgres)(nil)

// NewRefundRepository creates the refund ledger accessor.
func NewRefundRepository(db *gorm.DB) *refundPostgres {
	return &refundPostgres{db: db}
}

// RefundModel maps the externally owned pending_refunds ledger table. The
// service never writes to it; the schema tags exist for test migrations.
type RefundModel struct {
	ID                  uint      `gorm:"primaryKey"`
	Public              string    `gorm:"size:64;index"`
	Status              string    `gorm:"size:8;index"`
	Code                string    `gorm:"size:16;index"`
	Amount              float64   `gorm:"not null;default:0"`
	RefundPrice         float64   `gorm:"not null;default:0"`
	FeePrice            float64   `gorm:"not null;default:0"`
	RefundRate          float64   `gorm:"not null;default:0"`
	DestinationBankName string    `gorm:"size:64"`
	CreatedAt           time.Time `gorm:"index"`
}

func (RefundModel) TableName() string {
	return "pending_refunds"
}

// completed scopes a query to paid-out PMN refunds within the range.
func (r *refundPostgres) completed(ctx context.Context, rng daterange.Range) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&RefundModel{}).
		Where("status = ? AND code = ?", entity.StatusCompleted, TokenCode).
		Scopes(rng.Scope("created_at"))
}

func (r *refundPostgres) CountCompleted(ctx context.Context, rng daterange.Range) (int64, error) {
	var n int64
	err := r.completed(ctx, rng).Count(&n).Error
	return n, err
}

func (r *refundPostgres) CountPending(ctx context.Context, rng daterange.Range) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&RefundModel{}).
		Where("status = ? AND code = ?", entity.StatusPending, TokenCode).
		Scopes(rng.Scope("created_at")).
		Count(&n).Error
	return n, err
}

func (r *refundPostgres) SumAmount(ctx context.Context, rng daterange.Range) (float64, error) {
	var v float64
	err := r.completed(ctx, rng).Select("COALESCE(SUM(amount), 0)").Scan(&v).Error
	return v, err
}

func (r *refundPostgres) SumPayout(ctx context.Context, rng daterange.Range) (float64, error) {
	var v float64
	err := r.completed(ctx, rng).Select("COALESCE(SUM(refund_price), 0)").Scan(&v).Error
	return v, err
}

func (r *refundPostgres) SumFees(ctx context.Context, rng daterange.Range) (float64, error) {
	var v float64
	err := r.completed(ctx, rng).Select("COALESCE(SUM(fee_price), 0)").Scan(&v).Error
	return v, err
}

func (r *refundPostgres) AvgAmount(ctx context.Context, rng daterange.Range) (float64, error) {
	var v float64
	err := r.completed(ctx, rng).Select("COALESCE(AVG(amount), 0)").Scan(&v).Error
	return v, err
}

func (r *refundPostgres) CountDistinctSellers(ctx context.Context, rng daterange.Range) (int64, error) {
	var n int64
	err := r.completed(ctx, rng).Distinct("public").Count(&n).Error
	return n, err
}

func (r *refundPostgres) CompletedTxPoints(ctx context.Context, rng daterange.Range) ([]entity.TxPoint, error) {
	var rows []RefundModel
	err := r.completed(ctx, rng).
		Select("created_at", "amount", "refund_price").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.TxPoint, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.TxPoint{Time: m.CreatedAt, Amount: m.Amount, Payout: m.RefundPrice})
	}
	return out, nil
}

func (r *refundPostgres) RatePoints(ctx context.Context, rng daterange.Range) ([]entity.RatePoint, error) {
	var rows []RefundModel
	err := r.completed(ctx, rng).
		Where("refund_rate > 0").
		Select("created_at", "refund_rate").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.RatePoint, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.RatePoint{Time: m.CreatedAt, Rate: m.RefundRate})
	}
	return out, nil
}

// categoryRow scans categorical group-by results.
type categoryRow struct {
	Name       string
	Count      int64
	TotalRials float64
}

// StatusCounts reports only the paid-out and pending states, ordered by
// status code so the completed slice always comes first.
func (r *refundPostgres) StatusCounts(ctx context.Context, rng daterange.Range) ([]entity.CategoryCount, error) {
	var rows []categoryRow
	err := r.db.WithContext(ctx).
		Model(&RefundModel{}).
		Where("code = ? AND status IN ?", TokenCode, []string{entity.StatusCompleted, entity.StatusPending}).
		Scopes(rng.Scope("created_at")).
		Select("status AS name, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCategories(rows), nil
}

func (r *refundPostgres) ByBank(ctx context.Context, rng daterange.Range) ([]entity.CategoryCount, error) {
	var rows []categoryRow
	err := r.completed(ctx, rng).
		Where("destination_bank_name IS NOT NULL AND destination_bank_name <> ''").
		Select("destination_bank_name AS name, COUNT(*) AS count, COALESCE(SUM(refund_price), 0) AS total_rials").
		Group("destination_bank_name").
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
