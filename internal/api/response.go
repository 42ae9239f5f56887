// Package api defines the JSON response shapes shared by all analytics
// endpoints: KPI lists, time series, distributions, top-N rankings and
// candlestick series.
package api

// KPI value format hints. Presentation only, never a computation input.
const (
	FormatNumber  = "number"
	FormatRial    = "rial"
	FormatPercent = "percent"
	FormatDecimal = "decimal"
)

// MsgDataStoreUnavailable is the only error detail a client sees when the
// data store fails. Internal detail goes to the server log.
const MsgDataStoreUnavailable = "خطا در اتصال به پایگاه داده"

// KPIItem is a single scalar metric card.
type KPIItem struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Format string  `json:"format"`
}

// KPIResponse wraps a KPI card set.
type KPIResponse struct {
	KPIs []KPIItem `json:"kpis"`
}

// SeriesPoint is one point of a time series. The optional fields are only
// populated by trend endpoints that report several aggregates per bucket.
type SeriesPoint struct {
	Date        string   `json:"date"`
	Value       float64  `json:"value"`
	Count       *int64   `json:"count,omitempty"`
	TotalAmount *float64 `json:"total_amount,omitempty"`
	TotalRials  *float64 `json:"total_rials,omitempty"`
}

// SeriesResponse wraps an ordered time series.
type SeriesResponse struct {
	Series []SeriesPoint `json:"series"`
}

// DistributionItem is one slice of a categorical or numeric-range breakdown.
type DistributionItem struct {
	Name       string   `json:"name"`
	Value      float64  `json:"value"`
	Count      *int64   `json:"count,omitempty"`
	TotalRials *float64 `json:"total_rials,omitempty"`
}

// DistributionResponse wraps a distribution breakdown.
type DistributionResponse struct {
	Data []DistributionItem `json:"data"`
}

// TopUserItem ranks one wallet by traded volume.
type TopUserItem struct {
	Wallet      string  `json:"wallet"`
	TotalAmount float64 `json:"total_amount"`
	TxCount     int64   `json:"tx_count"`
}

// TopUsersResponse wraps a top-N wallet ranking.
type TopUsersResponse struct {
	Data []TopUserItem `json:"data"`
}

// CandlePoint is one OHLC bar of a rate series.
type CandlePoint struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	Close float64 `json:"close"`
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
}

// CandlestickResponse wraps an OHLC series.
type CandlestickResponse struct {
	Series []CandlePoint `json:"series"`
}

// ComparisonPoint pairs monthly buy and sell volume.
type ComparisonPoint struct {
	Month      string  `json:"month"`
	BuyAmount  float64 `json:"buy_amount"`
	SellAmount float64 `json:"sell_amount"`
}

// ComparisonResponse wraps a buy/sell volume comparison series.
type ComparisonResponse struct {
	Series []ComparisonPoint `json:"series"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
