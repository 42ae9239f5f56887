package usecase

import (
	"math"
	"sort"
	"time"

	"analytics_backend/internal/feature/buys/domain/entity"
)

// feeRatio is the nominal per-unit fee fraction applied to the reference
// price.
const feeRatio = 0.02

// FeeRate is the discretized per-unit fee at a given reference price:
// floor(0.02 * price). The floor is applied to the rate, not to the final
// fee product.
func FeeRate(price float64) float64 {
	return math.Floor(feeRatio * price)
}

// NearestPrice returns the price of the sample temporally closest to t.
// Samples must be sorted ascending by time. On an exact tie the earlier
// sample wins. Returns 0 when there are no samples.
func NearestPrice(sorted []entity.PriceSample, t time.Time) float64 {
	if len(sorted) == 0 {
		return 0
	}
	// Insertion position: first sample strictly after t.
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i].Time.After(t) })
	if i == 0 {
		// t precedes every sample.
		return sorted[0].Price
	}
	if i == len(sorted) {
		// t follows every sample.
		return sorted[len(sorted)-1].Price
	}
	left, right := sorted[i-1], sorted[i]
	if t.Sub(left.Time) <= right.Time.Sub(t) {
		return left.Price
	}
	return right.Price
}

// TotalFee sums amount * FeeRate(nearest price) over all transactions.
// With no samples or no transactions the total is 0.
func TotalFee(txs []entity.TxPoint, samples []entity.PriceSample) float64 {
	if len(txs) == 0 || len(samples) == 0 {
		return 0
	}

	// The series is expected near-sorted but arbitrary order must still work.
	sorted := make([]entity.PriceSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	var total float64
	for _, tx := range txs {
		total += tx.Amount * FeeRate(NearestPrice(sorted, tx.Time))
	}
	return total
}
