// Package entity holds the domain types of cross-ledger user analytics.
package entity

import "time"

// Ledger status codes shared by both ledgers.
const (
	StatusCompleted = "0"
	StatusPending   = "1"
)

// KPI is a single headline card value.
type KPI struct {
	Key    string
	Label  string
	Value  float64
	Format string
}

// TopUser ranks one wallet by traded volume.
type TopUser struct {
	Wallet      string
	TotalAmount float64
	TxCount     int64
}

// WalletEvent is one completed transaction attributed to a wallet.
type WalletEvent struct {
	Wallet string
	Time   time.Time
}

// VolumeRow is one completed transaction projected to its token amount.
type VolumeRow struct {
	Time   time.Time
	Amount float64
}

// ComparisonPoint pairs buy and sell volume for one month.
type ComparisonPoint struct {
	Month      time.Time
	BuyAmount  float64
	SellAmount float64
}
