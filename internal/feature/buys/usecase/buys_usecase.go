// Package usecase implements the purchase-ledger aggregations: KPI cards,
// daily/monthly series, rate trends and distributions.
package usecase

import (
	"context"
	"math"
	"time"

	"analytics_backend/internal/api"
	"analytics_backend/internal/feature/buys/domain/entity"
	"analytics_backend/internal/shared/daterange"
	"analytics_backend/internal/shared/histogram"
	"analytics_backend/internal/shared/timeseries"
)

// TrailingMonths is the default window for trend series when the caller
// supplies no explicit date range.
const TrailingMonths = 12

// PriceSeriesND is the reference-price series consulted for fee
// calculation.
const PriceSeriesND = "ND"

// amountSpec buckets purchase amounts for the histogram endpoint.
var amountSpec = histogram.Spec{
	Thresholds: []float64{10, 100, 1000, 10000},
	Labels:     []string{"۰-۱۰", "۱۰-۱۰۰", "۱۰۰-۱٬۰۰۰", "۱٬۰۰۰-۱۰٬۰۰۰", "۱۰٬۰۰۰+"},
}

// PurchaseRepository abstracts the read-only purchase ledger. Following Go
// convention the interface is defined on the consumer (usecase) side.
type PurchaseRepository interface {
	CountCompleted(ctx context.Context, r daterange.Range) (int64, error)
	CountAll(ctx context.Context, r daterange.Range) (int64, error)
	SumAmount(ctx context.Context, r daterange.Range) (float64, error)
	SumRials(ctx context.Context, r daterange.Range) (float64, error)
	AvgAmount(ctx context.Context, r daterange.Range) (float64, error)
	CountDistinctBuyers(ctx context.Context, r daterange.Range) (int64, error)
	CompletedTxPoints(ctx context.Context, r daterange.Range) ([]entity.TxPoint, error)
	RatePoints(ctx context.Context, r daterange.Range) ([]entity.RatePoint, error)
	ByGateway(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error)
	ByApplication(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error)
	StatusCounts(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error)
}

// PriceRepository abstracts the reference-price series store.
type PriceRepository interface {
	// Samples returns the named series ordered ascending by time.
	Samples(ctx context.Context, series string) ([]entity.PriceSample, error)
}

type buysUsecase struct {
	purchases PurchaseRepository
	prices    PriceRepository
	now       func() time.Time
}

// NewBuysUsecase creates the purchase analytics usecase.
func NewBuysUsecase(purchases PurchaseRepository, prices PriceRepository) *buysUsecase {
	return &buysUsecase{purchases: purchases, prices: prices, now: time.Now}
}

// GetKPIs computes the purchase KPI card set. Sub-aggregates are
// independent; the first failure aborts the whole card (no partial cards).
func (u *buysUsecase) GetKPIs(ctx context.Context, r daterange.Range) ([]entity.KPI, error) {
	totalBuys, err := u.purchases.CountCompleted(ctx, r)
	if err != nil {
		return nil, err
	}
	totalVolume, err := u.purchases.SumAmount(ctx, r)
	if err != nil {
		return nil, err
	}
	totalRevenue, err := u.purchases.SumRials(ctx, r)
	if err != nil {
		return nil, err
	}
	avgAmount, err := u.purchases.AvgAmount(ctx, r)
	if err != nil {
		return nil, err
	}
	allCount, err := u.purchases.CountAll(ctx, r)
	if err != nil {
		return nil, err
	}
	uniqueBuyers, err := u.purchases.CountDistinctBuyers(ctx, r)
	if err != nil {
		return nil, err
	}
	totalFee, err := u.totalFee(ctx, r)
	if err != nil {
		return nil, err
	}

	return []entity.KPI{
		{Key: "total_buys", Label: "تعداد کل خریدها", Value: float64(totalBuys), Format: api.FormatNumber},
		{Key: "total_volume", Label: "حجم کل PMN", Value: totalVolume, Format: api.FormatNumber},
		{Key: "total_revenue", Label: "مجموع ریالی", Value: totalRevenue, Format: api.FormatRial},
		{Key: "avg_amount", Label: "میانگین مقدار خرید", Value: avgAmount, Format: api.FormatDecimal},
		{Key: "success_rate", Label: "نرخ موفقیت", Value: SuccessRate(totalBuys, allCount), Format: api.FormatPercent},
		{Key: "unique_buyers", Label: "تعداد خریداران منحصر به فرد", Value: float64(uniqueBuyers), Format: api.FormatNumber},
		{Key: "total_fee", Label: "مجموع کارمزد خرید", Value: totalFee, Format: api.FormatRial},
	}, nil
}

// SuccessRate is the completed share of all rows as a percentage, rounded
// to two decimals. A zero denominator yields 0, never NaN.
func SuccessRate(completed, all int64) float64 {
	if all == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(all)*100*100) / 100
}

// totalFee joins completed purchases against the ND reference-price series.
func (u *buysUsecase) totalFee(ctx context.Context, r daterange.Range) (float64, error) {
	txs, err := u.purchases.CompletedTxPoints(ctx, r)
	if err != nil {
		return 0, err
	}
	samples, err := u.prices.Samples(ctx, PriceSeriesND)
	if err != nil {
		return 0, err
	}
	return TotalFee(txs, samples), nil
}

// GetDailyCount returns completed purchases per day. Without an explicit
// range it covers the trailing 12 months.
func (u *buysUsecase) GetDailyCount(ctx context.Context, r daterange.Range) ([]timeseries.Point, error) {
	rows, err := u.purchases.CompletedTxPoints(ctx, r.OrTrailing(u.now(), TrailingMonths))
	if err != nil {
		return nil, err
	}
	return timeseries.Bucket(toRows(rows), timeseries.PeriodDay), nil
}

// GetDailyVolume returns the rial volume per day, trailing 12 months by
// default.
func (u *buysUsecase) GetDailyVolume(ctx context.Context, r daterange.Range) ([]timeseries.Point, error) {
	return u.GetDailyCount(ctx, r)
}

// GetMonthlyTrend returns count, token amount and rial volume per month
// over the full filtered history.
func (u *buysUsecase) GetMonthlyTrend(ctx context.Context, r daterange.Range) ([]timeseries.Point, error) {
	rows, err := u.purchases.CompletedTxPoints(ctx, r)
	if err != nil {
		return nil, err
	}
	return timeseries.Bucket(toRows(rows), timeseries.PeriodMonth), nil
}

// GetExchangeRateTrend returns the daily average exchange rate, trailing
// 12 months by default.
func (u *buysUsecase) GetExchangeRateTrend(ctx context.Context, r daterange.Range) ([]timeseries.AvgPoint, error) {
	rows, err := u.purchases.RatePoints(ctx, r.OrTrailing(u.now(), TrailingMonths))
	if err != nil {
		return nil, err
	}
	return timeseries.Average(toValueRows(rows), timeseries.PeriodDay), nil
}

// GetRateCandlestick returns OHLC bars of the exchange rate per day or
// month.
func (u *buysUsecase) GetRateCandlestick(ctx context.Context, period timeseries.Period, r daterange.Range) ([]timeseries.OHLC, error) {
	rows, err := u.purchases.RatePoints(ctx, r)
	if err != nil {
		return nil, err
	}
	return timeseries.Candlesticks(toValueRows(rows), period), nil
}

// GetByGateway breaks completed purchases down by payment gateway,
// descending by count.
func (u *buysUsecase) GetByGateway(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error) {
	return u.purchases.ByGateway(ctx, r)
}

// GetByApplication breaks completed purchases down by application source.
func (u *buysUsecase) GetByApplication(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error) {
	return u.purchases.ByApplication(ctx, r)
}

// GetStatusDistribution counts transactions per raw status code.
func (u *buysUsecase) GetStatusDistribution(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error) {
	return u.purchases.StatusCounts(ctx, r)
}

// GetAmountDistribution partitions completed purchase amounts into the
// fixed histogram buckets.
func (u *buysUsecase) GetAmountDistribution(ctx context.Context, r daterange.Range) ([]histogram.Bucket, error) {
	rows, err := u.purchases.CompletedTxPoints(ctx, r)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.Amount)
	}
	return histogram.Partition(values, amountSpec), nil
}

func toRows(txs []entity.TxPoint) []timeseries.Row {
	rows := make([]timeseries.Row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, timeseries.Row{Time: tx.Time, Amount: tx.Amount, Rials: tx.Rials})
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
