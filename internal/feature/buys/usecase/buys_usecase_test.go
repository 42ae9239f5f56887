package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"analytics_backend/internal/feature/buys/domain/entity"
	"analytics_backend/internal/feature/buys/usecase"
	"analytics_backend/internal/shared/daterange"
	"analytics_backend/internal/shared/timeseries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ErrDB is the sentinel error shared between mocks and expectations.
var ErrDB = errors.New("database error")

// mockPurchaseRepository is a func-field mock of PurchaseRepository.
// Unset funcs return zero values so each test only wires what it needs.
type mockPurchaseRepository struct {
	CountCompletedFunc      func(ctx context.Context, r daterange.Range) (int64, error)
	CountAllFunc            func(ctx context.Context, r daterange.Range) (int64, error)
	SumAmountFunc           func(ctx context.Context, r daterange.Range) (float64, error)
	SumRialsFunc            func(ctx context.Context, r daterange.Range) (float64, error)
	AvgAmountFunc           func(ctx context.Context, r daterange.Range) (float64, error)
	CountDistinctBuyersFunc func(ctx context.Context, r daterange.Range) (int64, error)
	CompletedTxPointsFunc   func(ctx context.Context, r daterange.Range) ([]entity.TxPoint, error)
	RatePointsFunc          func(ctx context.Context, r daterange.Range) ([]entity.RatePoint, error)
	ByGatewayFunc           func(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error)
	ByApplicationFunc       func(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error)
	StatusCountsFunc        func(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error)
}

func (m *mockPurchaseRepository) CountCompleted(ctx context.Context, r daterange.Range) (int64, error) {
	if m.CountCompletedFunc != nil {
		return m.CountCompletedFunc(ctx, r)
	}
	return 0, nil
}

func (m *mockPurchaseRepository) CountAll(ctx context.Context, r daterange.Range) (int64, error) {
	if m.CountAllFunc != nil {
		return m.CountAllFunc(ctx, r)
	}
	return 0, nil
}

func (m *mockPurchaseRepository) SumAmount(ctx context.Context, r daterange.Range) (float64, error) {
	if m.SumAmountFunc != nil {
		return m.SumAmountFunc(ctx, r)
	}
	return 0, nil
}

func (m *mockPurchaseRepository) SumRials(ctx context.Context, r daterange.Range) (float64, error) {
	if m.SumRialsFunc != nil {
		return m.SumRialsFunc(ctx, r)
	}
	return 0, nil
}

func (m *mockPurchaseRepository) AvgAmount(ctx context.Context, r daterange.Range) (float64, error) {
	if m.AvgAmountFunc != nil {
		return m.AvgAmountFunc(ctx, r)
	}
	return 0, nil
}

func (m *mockPurchaseRepository) CountDistinctBuyers(ctx context.Context, r daterange.Range) (int64, error) {
	if m.CountDistinctBuyersFunc != nil {
		return m.CountDistinctBuyersFunc(ctx, r)
	}
	return 0, nil
}

func (m *mockPurchaseRepository) CompletedTxPoints(ctx context.Context, r daterange.Range) ([]entity.TxPoint, error) {
	if m.CompletedTxPointsFunc != nil {
		return m.CompletedTxPointsFunc(ctx, r)
	}
	return nil, nil
}

func (m *mockPurchaseRepository) RatePoints(ctx context.Context, r daterange.Range) ([]entity.RatePoint, error) {
	if m.RatePointsFunc != nil {
		return m.RatePointsFunc(ctx, r)
	}
	return nil, nil
}

func (m *mockPurchaseRepository) ByGateway(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error) {
	if m.ByGatewayFunc != nil {
		return m.ByGatewayFunc(ctx, r)
	}
	return nil, nil
}

func (m *mockPurchaseRepository) ByApplication(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error) {
	if m.ByApplicationFunc != nil {
		return m.ByApplicationFunc(ctx, r)
	}
	return nil, nil
}

func (m *mockPurchaseRepository) StatusCounts(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error) {
	if m.StatusCountsFunc != nil {
		return m.StatusCountsFunc(ctx, r)
	}
	return nil, nil
}

// mockPriceRepository is a func-field mock of PriceRepository.
type mockPriceRepository struct {
	SamplesFunc func(ctx context.Context, series string) ([]entity.PriceSample, error)
}

func (m *mockPriceRepository) Samples(ctx context.Context, series string) ([]entity.PriceSample, error) {
	if m.SamplesFunc != nil {
		return m.SamplesFunc(ctx, series)
	}
	return nil, nil
}

func TestBuysUsecase_GetKPIs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	purchases := &mockPurchaseRepository{
		CountCompletedFunc: func(ctx context.Context, r daterange.Range) (int64, error) { return 80, nil },
		CountAllFunc:       func(ctx context.Context, r daterange.Range) (int64, error) { return 100, nil },
		SumAmountFunc:      func(ctx context.Context, r daterange.Range) (float64, error) { return 5000, nil },
		SumRialsFunc:       func(ctx context.Context, r daterange.Range) (float64, error) { return 900000, nil },
		AvgAmountFunc:      func(ctx context.Context, r daterange.Range) (float64, error) { return 62.5, nil },
		CountDistinctBuyersFunc: func(ctx context.Context, r daterange.Range) (int64, error) {
			return 42, nil
		},
		CompletedTxPointsFunc: func(ctx context.Context, r daterange.Range) ([]entity.TxPoint, error) {
			return []entity.TxPoint{{Time: base, Amount: 10}}, nil
		},
	}
	prices := &mockPriceRepository{
		SamplesFunc: func(ctx context.Context, series string) ([]entity.PriceSample, error) {
			assert.Equal(t, usecase.PriceSeriesND, series)
			return []entity.PriceSample{{Time: base, Price: 100}}, nil
		},
	}

	uc := usecase.NewBuysUsecase(purchases, prices)
	kpis, err := uc.GetKPIs(ctx, daterange.Range{})
	require.NoError(t, err)
	require.Len(t, kpis, 7)

	byKey := map[string]entity.KPI{}
	for _, k := range kpis {
		byKey[k.Key] = k
	}

	assert.Equal(t, 80.0, byKey["total_buys"].Value)
	assert.Equal(t, 5000.0, byKey["total_volume"].Value)
	assert.Equal(t, 900000.0, byKey["total_revenue"].Value)
	assert.Equal(t, "rial", byKey["total_revenue"].Format)
	assert.Equal(t, 62.5, byKey["avg_amount"].Value)
	assert.Equal(t, 80.0, byKey["success_rate"].Value)
	assert.Equal(t, "percent", byKey["success_rate"].Format)
	assert.Equal(t, 42.0, byKey["unique_buyers"].Value)
	// amount 10 at price 100 -> rate 2 -> fee 20
	assert.Equal(t, 20.0, byKey["total_fee"].Value)
}

func TestBuysUsecase_GetKPIs_FailFast(t *testing.T) {
	t.Parallel()

	calls := 0
	purchases := &mockPurchaseRepository{
		CountCompletedFunc: func(ctx context.Context, r daterange.Range) (int64, error) {
			return 0, ErrDB
		},
		SumAmountFunc: func(ctx context.Context, r daterange.Range) (float64, error) {
			calls++
			return 0, nil
		},
	}

	uc := usecase.NewBuysUsecase(purchases, &mockPriceRepository{})
	kpis, err := uc.GetKPIs(context.Background(), daterange.Range{})

	assert.ErrorIs(t, err, ErrDB)
	assert.Nil(t, kpis, "no partial KPI card on failure")
	assert.Equal(t, 0, calls, "later sub-queries must not run after a failure")
}

func TestSuccessRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		completed int64
		all       int64
		want      float64
	}{
		{"zero denominator yields zero", 0, 0, 0},
		{"all completed", 10, 10, 100},
		{"rounded to two decimals", 1, 3, 33.33},
		{"two thirds", 2, 3, 66.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usecase.SuccessRate(tt.completed, tt.all))
		})
	}
}

func TestBuysUsecase_GetDailyCount_TrailingWindow(t *testing.T) {
	t.Parallel()

	var gotRange daterange.Range
	purchases := &mockPurchaseRepository{
		CompletedTxPointsFunc: func(ctx context.Context, r daterange.Range) ([]entity.TxPoint, error) {
			gotRange = r
			return nil, nil
		},
	}
	uc := usecase.NewBuysUsecase(purchases, &mockPriceRepository{})

	// No explicit bounds: repository must see a trailing window.
	_, err := uc.GetDailyCount(context.Background(), daterange.Range{})
	require.NoError(t, err)
	_, hasStart := gotRange.Start()
	assert.True(t, hasStart, "default trailing window expected")

	// Explicit bounds pass through untouched.
	explicit, err := daterange.Parse("2023-01-01", "2023-06-30")
	require.NoError(t, err)
	_, err = uc.GetDailyCount(context.Background(), explicit)
	require.NoError(t, err)
	start, _ := gotRange.Start()
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), start)
}

func TestBuysUsecase_GetMonthlyTrend(t *testing.T) {
	t.Parallel()

	purchases := &mockPurchaseRepository{
		CompletedTxPointsFunc: func(ctx context.Context, r daterange.Range) ([]entity.TxPoint, error) {
			assert.True(t, r.IsZero(), "monthly trend must not apply a trailing window")
			return []entity.TxPoint{
				{Time: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), Amount: 5, Rials: 500},
				{Time: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), Amount: 3, Rials: 300},
				{Time: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Amount: 2, Rials: 200},
			}, nil
		},
	}
	uc := usecase.NewBuysUsecase(purchases, &mockPriceRepository{})

	points, err := uc.GetMonthlyTrend(context.Background(), daterange.Range{})
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), points[0].Date)
	assert.Equal(t, int64(2), points[0].Count)
	assert.Equal(t, 5.0, points[0].TotalAmount)
	assert.Equal(t, 500.0, points[0].TotalRials)
	assert.Equal(t, int64(1), points[1].Count)
}

func TestBuysUsecase_GetRateCandlestick(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	purchases := &mockPurchaseRepository{
		RatePointsFunc: func(ctx context.Context, r daterange.Range) ([]entity.RatePoint, error) {
			return []entity.RatePoint{
				{Time: day.Add(9 * time.Hour), Rate: 100},
				{Time: day.Add(12 * time.Hour), Rate: 140},
				{Time: day.Add(17 * time.Hour), Rate: 120},
			}, nil
		},
	}
	uc := usecase.NewBuysUsecase(purchases, &mockPriceRepository{})

	bars, err := uc.GetRateCandlestick(context.Background(), timeseries.PeriodDay, daterange.Range{})
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 100.0, bars[0].Open)
	assert.Equal(t, 120.0, bars[0].Close)
	assert.Equal(t, 100.0, bars[0].Low)
	assert.Equal(t, 140.0, bars[0].High)
}

func TestBuysUsecase_GetAmountDistribution(t *testing.T) {
	t.Parallel()

	purchases := &mockPurchaseRepository{
		CompletedTxPointsFunc: func(ctx context.Context, r daterange.Range) ([]entity.TxPoint, error) {
			return []entity.TxPoint{
				{Amount: 5}, {Amount: 10}, {Amount: 50}, {Amount: 20000},
			}, nil
		},
	}
	uc := usecase.NewBuysUsecase(purchases, &mockPriceRepository{})

	buckets, err := uc.GetAmountDistribution(context.Background(), daterange.Range{})
	require.NoError(t, err)
	require.Len(t, buckets, 3)

	var total int64
	for _, b := range buckets {
		total += b.Count
	}
	assert.Equal(t, int64(4), total, "every row in exactly one bucket")
	assert.Equal(t, "۰-۱۰", buckets[0].Name)
	assert.Equal(t, int64(2), buckets[0].Count)
	assert.Equal(t, "۱۰٬۰۰۰+", buckets[2].Name)
}

func TestBuysUsecase_SeriesError(t *testing.T) {
	t.Parallel()

	purchases := &mockPurchaseRepository{
		CompletedTxPointsFunc: func(ctx context.Context, r daterange.Range) ([]entity.TxPoint, error) {
			return nil, ErrDB
		},
	}
	uc := usecase.NewBuysUsecase(purchases, &mockPriceRepository{})

	_, err := uc.GetMonthlyTrend(context.Background(), daterange.Range{})
	assert.ErrorIs(t, err, ErrDB)
}
