// Package entity defines the domain models for the buys feature.
package entity

import "time"

// Purchase status codes as stored in the ledger. Other codes exist but are
// ignored by most metrics.
const (
	StatusCompleted = "0"
	StatusPending   = "1"
)

// TxPoint is a purchase projected to the columns the aggregation engine
// needs: when it happened, how many tokens and for how many rials.
type TxPoint struct {
	Time   time.Time
	Amount float64
	Rials  float64
}

// RatePoint is a timestamped exchange-rate observation.
type RatePoint struct {
	Time time.Time
	Rate float64
}

// PriceSample is one entry of the sparse reference-price series used for
// fee calculation.
type PriceSample struct {
	Time  time.Time
	Price float64
}

// CategoryCount is one group of a categorical breakdown (gateway,
// application, status).
type CategoryCount struct {
	Name       string
	Count      int64
	TotalRials float64
}

// KPI is a computed scalar metric with its display hints.
type KPI struct {
	Key    string
	Label  string
	Value  float64
	Format string
}
