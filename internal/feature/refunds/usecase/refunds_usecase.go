// Package usecase implements the refund-ledger aggregations: KPI cards,
// daily/monthly series, rate trend and distributions.
package usecase

import (
	"context"
	"time"

	"analytics_backend/internal/api"
	"analytics_backend/internal/feature/refunds/domain/entity"
	"analytics_backend/internal/shared/daterange"
	"analytics_backend/internal/shared/histogram"
	"analytics_backend/internal/shared/timeseries"
)

// TrailingMonths is the default window for trend series when the caller
// supplies no explicit date range.
const TrailingMonths = 12

// amountSpec buckets refund amounts for the histogram endpoint.
var amountSpec = histogram.Spec{
	Thresholds: []float64{10, 100, 1000, 10000},
	Labels:     []string{"۰-۱۰", "۱۰-۱۰۰", "۱۰۰-۱٬۰۰۰", "۱٬۰۰۰-۱۰٬۰۰۰", "۱۰٬۰۰۰+"},
}

// RefundRepository abstracts the read-only refund ledger.
type RefundRepository interface {
	CountCompleted(ctx context.Context, r daterange.Range) (int64, error)
	CountPending(ctx context.Context, r daterange.Range) (int64, error)
	SumAmount(ctx context.Context, r daterange.Range) (float64, error)
	SumPayout(ctx context.Context, r daterange.Range) (float64, error)
	SumFees(ctx context.Context, r daterange.Range) (float64, error)
	AvgAmount(ctx context.Context, r daterange.Range) (float64, error)
	CountDistinctSellers(ctx context.Context, r daterange.Range) (int64, error)
	CompletedTxPoints(ctx context.Context, r daterange.Range) ([]entity.TxPoint, error)
	RatePoints(ctx context.Context, r daterange.Range) ([]entity.RatePoint, error)
	StatusCounts(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error)
	ByBank(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error)
}

type refundsUsecase struct {
	refunds RefundRepository
	now     func() time.Time
}

// NewRefundsUsecase creates the refund analytics usecase.
func NewRefundsUsecase(refunds RefundRepository) *refundsUsecase {
	return &refundsUsecase{refunds: refunds, now: time.Now}
}

// GetKPIs computes the refund KPI card set. The first failure aborts the
// whole card (no partial cards).
func (u *refundsUsecase) GetKPIs(ctx context.Context, r daterange.Range) ([]entity.KPI, error) {
	totalCompleted, err := u.refunds.CountCompleted(ctx, r)
	if err != nil {
		return nil, err
	}
	totalPending, err := u.refunds.CountPending(ctx, r)
	if err != nil {
		return nil, err
	}
	totalSold, err := u.refunds.SumAmount(ctx, r)
	if err != nil {
		return nil, err
	}
	totalPayout, err := u.refunds.SumPayout(ctx, r)
	if err != nil {
		return nil, err
	}
	totalFees, err := u.refunds.SumFees(ctx, r)
	if err != nil {
		return nil, err
	}
	avgAmount, err := u.refunds.AvgAmount(ctx, r)
	if err != nil {
		return nil, err
	}
	uniqueSellers, err := u.refunds.CountDistinctSellers(ctx, r)
	if err != nil {
		return nil, err
	}

	return []entity.KPI{
		{Key: "total_completed", Label: "تعداد بازپرداخت‌های تکمیل شده", Value: float64(totalCompleted), Format: api.FormatNumber},
		{Key: "total_pending", Label: "تعداد بازپرداخت‌های در انتظار", Value: float64(totalPending), Format: api.FormatNumber},
		{Key: "total_sold", Label: "حجم کل PMN فروخته شده", Value: totalSold, Format: api.FormatNumber},
		{Key: "total_payout", Label: "مجموع پرداختی (ریال)", Value: totalPayout, Format: api.FormatRial},
		{Key: "total_fees", Label: "مجموع کارمزد", Value: totalFees, Format: api.FormatRial},
		{Key: "avg_amount", Label: "میانگین مقدار بازپرداخت", Value: avgAmount, Format: api.FormatDecimal},
		{Key: "unique_sellers", Label: "تعداد فروشندگان منحصر به فرد", Value: float64(uniqueSellers), Format: api.FormatNumber},
	}, nil
}

// GetDailyCount returns completed refunds per day. Without an explicit
// range it covers the trailing 12 months.
func (u *refundsUsecase) GetDailyCount(ctx context.Context, r daterange.Range) ([]timeseries.Point, error) {
	rows, err := u.refunds.CompletedTxPoints(ctx, r.OrTrailing(u.now(), TrailingMonths))
	if err != nil {
		return nil, err
	}
	return timeseries.Bucket(toRows(rows), timeseries.PeriodDay), nil
}

// GetMonthlyTrend returns count, token amount and rial payout per month
// over the full filtered history.
func (u *refundsUsecase) GetMonthlyTrend(ctx context.Context, r daterange.Range) ([]timeseries.Point, error) {
	rows, err := u.refunds.CompletedTxPoints(ctx, r)
	if err != nil {
		return nil, err
	}
	return timeseries.Bucket(toRows(rows), timeseries.PeriodMonth), nil
}

// GetRateTrend returns the daily average refund rate, trailing 12 months
// by default.
func (u *refundsUsecase) GetRateTrend(ctx context.Context, r daterange.Range) ([]timeseries.AvgPoint, error) {
	rows, err := u.refunds.RatePoints(ctx, r.OrTrailing(u.now(), TrailingMonths))
	if err != nil {
		return nil, err
	}
	return timeseries.Average(toValueRows(rows), timeseries.PeriodDay), nil
}

// GetStatusDistribution counts refunds per reported status, with the raw
// codes mapped to their Persian display labels.
func (u *refundsUsecase) GetStatusDistribution(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error) {
	groups, err := u.refunds.StatusCounts(ctx, r)
	if err != nil {
		return nil, err
	}
	for i, g := range groups {
		groups[i].Name = statusLabel(g.Name)
	}
	return groups, nil
}

// GetByBank breaks completed refunds down by destination bank, descending
// by count.
func (u *refundsUsecase) GetByBank(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error) {
	return u.refunds.ByBank(ctx, r)
}

// GetAmountDistribution partitions completed refund amounts into the fixed
// histogram buckets.
func (u *refundsUsecase) GetAmountDistribution(ctx context.Context, r daterange.Range) ([]histogram.Bucket, error) {
	rows, err := u.refunds.CompletedTxPoints(ctx, r)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.Amount)
	}
	return histogram.Partition(values, amountSpec), nil
}

func statusLabel(code string) string {
	switch code {
	case entity.StatusCompleted:
		return entity.StatusCompletedLabel
	case entity.StatusPending:
		return entity.StatusPendingLabel
	default:
		return code
	}
}

func toRows(txs []entity.TxPoint) []timeseries.Row {
	rows := make([]timeseries.Row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, timeseries.Row{Time: tx.Time, Amount: tx.Amount, Rials: tx.Payout})
	}
	return rows
}

func toValueRows(rates []entity.RatePoint) []timeseries.ValueRow {
	rows := make([]timeseries.ValueRow, 0, len(rates))
	for _, r := range rates {
		rows = append(rows, timeseries.ValueRow{Time: r.Time, Value: r.Rate})
	}
	return rows
}
