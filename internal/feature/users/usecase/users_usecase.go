// Package usecase implements the cross-ledger user analytics: distinct
// user counts, cohort series, top-N rankings and the buy/sell comparison.
package usecase

import (
	"context"
	"sort"
	"time"

	"analytics_backend/internal/api"
	"analytics_backend/internal/feature/users/domain/entity"
	"analytics_backend/internal/shared/daterange"
	"analytics_backend/internal/shared/histogram"
	"analytics_backend/internal/shared/timeseries"
)

// TopN is the ranking size of the top buyers and sellers endpoints.
const TopN = 10

// activitySpec buckets per-wallet transaction counts. Counts are positive
// integers, so the threshold at 1 isolates single-purchase wallets.
var activitySpec = histogram.Spec{
	Thresholds: []float64{1, 5, 20, 100},
	Labels:     []string{"۱", "۲-۵", "۶-۲۰", "۲۱-۱۰۰", "۱۰۰+"},
}

// LedgerRepository abstracts the wallet-level reads over both ledgers.
type LedgerRepository interface {
	Buyers(ctx context.Context, r daterange.Range) ([]string, error)
	Sellers(ctx context.Context, r daterange.Range) ([]string, error)
	BuyerEvents(ctx context.Context, r daterange.Range) ([]entity.WalletEvent, error)
	TopBuyers(ctx context.Context, r daterange.Range, limit int) ([]entity.TopUser, error)
	TopSellers(ctx context.Context, r daterange.Range, limit int) ([]entity.TopUser, error)
	BuyerTxCounts(ctx context.Context, r daterange.Range) ([]int64, error)
	BuyVolume(ctx context.Context, r daterange.Range) ([]entity.VolumeRow, error)
	SellVolume(ctx context.Context, r daterange.Range) ([]entity.VolumeRow, error)
}

type usersUsecase struct {
	ledgers LedgerRepository
}

// NewUsersUsecase creates the user analytics usecase.
func NewUsersUsecase(ledgers LedgerRepository) *usersUsecase {
	return &usersUsecase{ledgers: ledgers}
}

// GetKPIs computes the user KPI card set. The first failure aborts the
// whole card (no partial cards).
func (u *usersUsecase) GetKPIs(ctx context.Context, r daterange.Range) ([]entity.KPI, error) {
	buyers, err := u.ledgers.Buyers(ctx, r)
	if err != nil {
		return nil, err
	}
	sellers, err := u.ledgers.Sellers(ctx, r)
	if err != nil {
		return nil, err
	}

	return []entity.KPI{
		{Key: "total_users", Label: "تعداد کل کاربران منحصر به فرد", Value: float64(UnionCount(buyers, sellers)), Format: api.FormatNumber},
		{Key: "both_side_users", Label: "کاربران خریدار و فروشنده", Value: float64(IntersectCount(buyers, sellers)), Format: api.FormatNumber},
	}, nil
}

// GetNewPerMonth counts wallets by the month of their first completed
// purchase.
func (u *usersUsecase) GetNewPerMonth(ctx context.Context, r daterange.Range) ([]timeseries.Point, error) {
	events, err := u.ledgers.BuyerEvents(ctx, r)
	if err != nil {
		return nil, err
	}
	return timeseries.FirstSeen(toKeyedRows(events), timeseries.PeriodMonth), nil
}

// GetTopBuyers ranks the heaviest buyers by token volume.
func (u *usersUsecase) GetTopBuyers(ctx context.Context, r daterange.Range) ([]entity.TopUser, error) {
	return u.ledgers.TopBuyers(ctx, r, TopN)
}

// GetTopSellers ranks the heaviest sellers by token volume.
func (u *usersUsecase) GetTopSellers(ctx context.Context, r daterange.Range) ([]entity.TopUser, error) {
	return u.ledgers.TopSellers(ctx, r, TopN)
}

// GetActivityDistribution partitions wallets by how many completed
// purchases they made.
func (u *usersUsecase) GetActivityDistribution(ctx context.Context, r daterange.Range) ([]histogram.Bucket, error) {
	counts, err := u.ledgers.BuyerTxCounts(ctx, r)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(counts))
	for _, n := range counts {
		values = append(values, float64(n))
	}
	return histogram.Partition(values, activitySpec), nil
}

// GetMonthlyActive counts distinct buying wallets per month.
func (u *usersUsecase) GetMonthlyActive(ctx context.Context, r daterange.Range) ([]timeseries.Point, error) {
	events, err := u.ledgers.BuyerEvents(ctx, r)
	if err != nil {
		return nil, err
	}
	return timeseries.DistinctCount(toKeyedRows(events), timeseries.PeriodMonth), nil
}

// GetBuySellComparison pairs monthly buy and sell volume. Months present
// on only one side carry a zero for the other.
func (u *usersUsecase) GetBuySellComparison(ctx context.Context, r daterange.Range) ([]entity.ComparisonPoint, error) {
	buys, err := u.ledgers.BuyVolume(ctx, r)
	if err != nil {
		return nil, err
	}
	sells, err := u.ledgers.SellVolume(ctx, r)
	if err != nil {
		return nil, err
	}

	acc := make(map[time.Time]*entity.ComparisonPoint)
	monthOf := func(t time.Time) *entity.ComparisonPoint {
		m := timeseries.Truncate(t, timeseries.PeriodMonth)
		pt, ok := acc[m]
		if !ok {
			pt = &entity.ComparisonPoint{Month: m}
			acc[m] = pt
		}
		return pt
	}
	for _, row := range buys {
		monthOf(row.Time).BuyAmount += row.Amount
	}
	for _, row := range sells {
		monthOf(row.Time).SellAmount += row.Amount
	}

	out := make([]entity.ComparisonPoint, 0, len(acc))
	for _, pt := range acc {
		out = append(out, *pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out, nil
}

func toKeyedRows(events []entity.WalletEvent) []timeseries.KeyedRow {
	rows := make([]timeseries.KeyedRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, timeseries.KeyedRow{Time: e.Time, Key: e.Wallet})
	}
	return rows
}
