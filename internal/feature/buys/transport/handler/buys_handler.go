// Package handler exposes the purchase analytics endpoints over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"analytics_backend/internal/api"
	"analytics_backend/internal/feature/buys/domain/entity"
	"analytics_backend/internal/shared/daterange"
	"analytics_backend/internal/shared/histogram"
	"analytics_backend/internal/shared/timeseries"
)

// BuysUsecase is the purchase analytics interface consumed by this handler.
type BuysUsecase interface {
	GetKPIs(ctx context.Context, r daterange.Range) ([]entity.KPI, error)
	GetDailyCount(ctx context.Context, r daterange.Range) ([]timeseries.Point, error)
	GetDailyVolume(ctx context.Context, r daterange.Range) ([]timeseries.Point, error)
	GetMonthlyTrend(ctx context.Context, r daterange.Range) ([]timeseries.Point, error)
	GetExchangeRateTrend(ctx context.Context, r daterange.Range) ([]timeseries.AvgPoint, error)
	GetRateCandlestick(ctx context.Context, period timeseries.Period, r daterange.Range) ([]timeseries.OHLC, error)
	GetByGateway(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error)
	GetByApplication(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error)
	GetStatusDistribution(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error)
	GetAmountDistribution(ctx context.Context, r daterange.Range) ([]histogram.Bucket, error)
}

// BuysHandler handles HTTP requests for purchase analytics.
type BuysHandler struct {
	uc BuysUsecase
}

// NewBuysHandler creates a BuysHandler with the given usecase.
func NewBuysHandler(uc BuysUsecase) *BuysHandler {
	return &BuysHandler{uc: uc}
}

// parseRange reads the optional start_date/end_date query parameters. On an
// invalid date it writes a 400 response identifying the bad value and
// reports false.
func parseRange(c *gin.Context) (daterange.Range, bool) {
	r, err := daterange.Parse(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return daterange.Range{}, false
	}
	return r, true
}

// failDataStore logs the internal error and answers with the generic
// service-unavailable message. Query detail never reaches the client.
func failDataStore(c *gin.Context, op string, err error) {
	slog.Error("data store query failed", "op", op, "error", err)
	c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: api.MsgDataStoreUnavailable})
}

// GetKPIs handles GET /api/buys/kpis.
func (h *BuysHandler) GetKPIs(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	kpis, err := h.uc.GetKPIs(c.Request.Context(), r)
	if err != nil {
		failDataStore(c, "buys.kpis", err)
		return
	}
	c.JSON(http.StatusOK, kpiResponse(kpis))
}

// GetDailyCount handles GET /api/buys/daily-count.
func (h *BuysHandler) GetDailyCount(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	points, err := h.uc.GetDailyCount(c.Request.Context(), r)
	if err != nil {
		failDataStore(c, "buys.daily-count", err)
		return
	}
	c.JSON(http.StatusOK, countSeries(points))
}

// GetDailyVolume handles GET /api/buys/daily-volume.
func (h *BuysHandler) GetDailyVolume(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	points, err := h.uc.GetDailyVolume(c.Request.Context(), r)
	if err != nil {
		failDataStore(c, "buys.daily-volume", err)
		return
	}
	c.JSON(http.StatusOK, rialsSeries(points))
}

// GetMonthlyTrend handles GET /api/buys/monthly-trend.
func (h *BuysHandler) GetMonthlyTrend(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	points, err := h.uc.GetMonthlyTrend(c.Request.Context(), r)
	if err != nil {
		failDataStore(c, "buys.monthly-trend", err)
		return
	}
	c.JSON(http.StatusOK, trendSeries(points))
}

// GetExchangeRateTrend handles GET /api/buys/exchange-rate-trend.
func (h *BuysHandler) GetExchangeRateTrend(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	points, err := h.uc.GetExchangeRateTrend(c.Request.Context(), r)
	if err != nil {
		failDataStore(c, "buys.exchange-rate-trend", err)
		return
	}
	c.JSON(http.StatusOK, avgSeries(points))
}

// GetRateCandlestick handles GET /api/buys/rate-candlestick.
func (h *BuysHandler) GetRateCandlestick(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	period, err := timeseries.ParsePeriod(c.DefaultQuery("period", "day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	bars, err := h.uc.GetRateCandlestick(c.Request.Context(), period, r)
	if err != nil {
		failDataStore(c, "buys.rate-candlestick", err)
		return
	}
	out := make([]api.CandlePoint, 0, len(bars))
	for _, b := range bars {
		out = append(out, api.CandlePoint{
			Date:  b.Date.Format(daterange.Layout),
			Open:  b.Open,
			Close: b.Close,
			Low:   b.Low,
			High:  b.High,
		})
	}
	c.JSON(http.StatusOK, api.CandlestickResponse{Series: out})
}

// GetByGateway handles GET /api/buys/by-gateway.
func (h *BuysHandler) GetByGateway(c *gin.Context) {
	h.distribution(c, "buys.by-gateway", h.uc.GetByGateway, true)
}

// GetByApplication handles GET /api/buys/by-application.
func (h *BuysHandler) GetByApplication(c *gin.Context) {
	h.distribution(c, "buys.by-application", h.uc.GetByApplication, false)
}

// GetStatusDistribution handles GET /api/buys/status-distribution.
func (h *BuysHandler) GetStatusDistribution(c *gin.Context) {
	h.distribution(c, "buys.status-distribution", h.uc.GetStatusDistribution, false)
}

// GetAmountDistribution handles GET /api/buys/amount-distribution.
func (h *BuysHandler) GetAmountDistribution(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	buckets, err := h.uc.GetAmountDistribution(c.Request.Context(), r)
	if err != nil {
		failDataStore(c, "buys.amount-distribution", err)
		return
	}
	c.JSON(http.StatusOK, histogramResponse(buckets))
}

func (h *BuysHandler) distribution(
	c *gin.Context,
	op string,
	fetch func(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error),
	withRials bool,
) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	groups, err := fetch(c.Request.Context(), r)
	if err != nil {
		failDataStore(c, op, err)
		return
	}
	c.JSON(http.StatusOK, categoryResponse(groups, withRials))
}

// kpiResponse shapes domain KPIs into the KPI list response.
func kpiResponse(kpis []entity.KPI) api.KPIResponse {
	out := make([]api.KPIItem, 0, len(kpis))
	for _, k := range kpis {
		out = append(out, api.KPIItem{Key: k.Key, Label: k.Label, Value: k.Value, Format: k.Format})
	}
	return api.KPIResponse{KPIs: out}
}

// countSeries shapes bucket points into a series of counts.
func countSeries(points []timeseries.Point) api.SeriesResponse {
	out := make([]api.SeriesPoint, 0, len(points))
	for _, p := range points {
		out = append(out, api.SeriesPoint{Date: p.Date.Format(daterange.Layout), Value: float64(p.Count)})
	}
	return api.SeriesResponse{Series: out}
}

// rialsSeries shapes bucket points into a series of rial sums.
func rialsSeries(points []timeseries.Point) api.SeriesResponse {
	out := make([]api.SeriesPoint, 0, len(points))
	for _, p := range points {
		out = append(out, api.SeriesPoint{Date: p.Date.Format(daterange.Layout), Value: p.TotalRials})
	}
	return api.SeriesResponse{Series: out}
}

// trendSeries shapes bucket points into the multi-aggregate trend series.
func trendSeries(points []timeseries.Point) api.SeriesResponse {
	out := make([]api.SeriesPoint, 0, len(points))
	for _, p := range points {
		count := p.Count
		amount := p.TotalAmount
		rials := p.TotalRials
		out = append(out, api.SeriesPoint{
			Date:        p.Date.Format(daterange.Layout),
			Value:       float64(count),
			Count:       &count,
			TotalAmount: &amount,
			TotalRials:  &rials,
		})
	}
	return api.SeriesResponse{Series: out}
}

// avgSeries shapes average points into a value series.
func avgSeries(points []timeseries.AvgPoint) api.SeriesResponse {
	out := make([]api.SeriesPoint, 0, len(points))
	for _, p := range points {
		out = append(out, api.SeriesPoint{Date: p.Date.Format(daterange.Layout), Value: p.Avg})
	}
	return api.SeriesResponse{Series: out}
}

// categoryResponse shapes categorical groups into a distribution response.
func categoryResponse(groups []entity.CategoryCount, withRials bool) api.DistributionResponse {
	out := make([]api.DistributionItem, 0, len(groups))
	for _, g := range groups {
		item := api.DistributionItem{Name: g.Name, Value: float64(g.Count)}
		if withRials {
			count := g.Count
			rials := g.TotalRials
			item.Count = &count
			item.TotalRials = &rials
		}
		out = append(out, item)
	}
	return api.DistributionResponse{Data: out}
}

// histogramResponse shapes histogram buckets into a distribution response.
func histogramResponse(buckets []histogram.Bucket) api.DistributionResponse {
	out := make([]api.DistributionItem, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, api.DistributionItem{Name: b.Name, Value: float64(b.Count)})
	}
	return api.DistributionResponse{Data: out}
}
