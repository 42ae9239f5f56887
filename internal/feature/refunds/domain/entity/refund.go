// Package entity holds the domain types of the refund ledger.
package entity

import "time"

// Ledger status codes. The table carries further states but the dashboard
// only reports on these two.
const (
	StatusCompleted = "0"
	StatusPending   = "1"
)

// Persian display labels for the reported statuses.
const (
	StatusCompletedLabel = "تکمیل شده (پرداخت شده)"
	StatusPendingLabel   = "در انتظار"
)

// TxPoint is one completed refund projected for in-process aggregation.
type TxPoint struct {
	Time   time.Time
	Amount float64
	Payout float64
}

// RatePoint is one refund rate observation.
type RatePoint struct {
	Time time.Time
	Rate float64
}

// KPI is a single headline card value.
type KPI struct {
	Key    string
	Label  string
	Value  float64
	Format string
}

// CategoryCount is one row of a categorical breakdown.
type CategoryCount struct {
	Name       string
	Count      int64
	TotalRials float64
}
