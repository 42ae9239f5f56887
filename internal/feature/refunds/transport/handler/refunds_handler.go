// Package handler exposes the refund analytics endpoints over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"analytics_backend/internal/api"
	"analytics_backend/internal/feature/refunds/domain/entity"
	"analytics_backend/internal/shared/daterange"
	"analytics_backend/internal/shared/histogram"
	"analytics_backend/internal/shared/timeseries"
)

// RefundsUsecase is the refund analytics interface consumed by this
// handler.
type RefundsUsecase interface {
	GetKPIs(ctx context.Context, r daterange.Range) ([]entity.KPI, error)
	GetDailyCount(ctx context.Context, r daterange.Range) ([]timeseries.Point, error)
	GetMonthlyTrend(ctx context.Context, r daterange.Range) ([]timeseries.Point, error)
	GetRateTrend(ctx context.Context, r daterange.Range) ([]timeseries.AvgPoint, error)
	GetStatusDistribution(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error)
	GetByBank(ctx context.Context, r daterange.Range) ([]entity.CategoryCount, error)
	GetAmountDistribution(ctx context.Context, r daterange.Range) ([]histogram.Bucket, error)
}

// RefundsHandler handles HTTP requests for refund analytics.
type RefundsHandler struct {
	uc RefundsUsecase
}

// NewRefundsHandler creates a RefundsHandler with the given usecase.
func NewRefundsHandler(uc RefundsUsecase) *RefundsHandler {
	return &RefundsHandler{uc: uc}
}

func parseRange(c *gin.Context) (daterange.Range, bool) {
	r, err := daterange.Parse(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return daterange.Range{}, false
	}
	return r, true
}

func failDataStore(c *gin.Context, op string, err error) {
	slog.Error("data store query failed", "op", op, "error", err)
	c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: api.MsgDataStoreUnavailable})
}

// GetKPIs handles GET /api/refunds/kpis.
func (h *RefundsHandler) GetKPIs(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	kpis, err := h.uc.GetKPIs(c.Request.Context(), r)
	if err != nil {
		failDataStore(c, "refunds.kpis", err)
		return
	}
	out := make([]api.KPIItem, 0, len(kpis))
	for _, k := range kpis {
		out = append(out, api.KPIItem{Key: k.Key, Label: k.Label, Value: k.Value, Format: k.Format})
	}
	c.JSON(http.StatusOK, api.KPIResponse{KPIs: out})
}

// GetDailyCount handles GET /api/refunds/daily-count.
func (h *RefundsHandler) GetDailyCount(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	points, err := h.uc.GetDailyCount(c.Request.Context(), r)
	if err != nil {
		failDataStore(c, "refunds.daily-count", err)
		return
	}
	out := make([]api.SeriesPoint, 0, len(points))
	for _, p := range points {
		out = append(out, api.SeriesPoint{Date: p.Date.Format(daterange.Layout), Value: float64(p.Count)})
	}
	c.JSON(http.StatusOK, api.SeriesResponse{Series: out})
}

// GetMonthlyTrend handles GET /api/refunds/monthly-trend.
func (h *RefundsHandler) GetMonthlyTrend(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	points, err := h.uc.GetMonthlyTrend(c.Request.Context(), r)
	if err != nil {
		failDataStore(c, "refunds.monthly-trend", err)
		return
	}
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
	c.JSON(http.StatusOK, api.SeriesResponse{Series: out})
}

// GetRateTrend handles GET /api/refunds/rate-trend.
func (h *RefundsHandler) GetRateTrend(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	points, err := h.uc.GetRateTrend(c.Request.Context(), r)
	if err != nil {
		failDataStore(c, "refunds.rate-trend", err)
		return
	}
	out := make([]api.SeriesPoint, 0, len(points))
	for _, p := range points {
		out = append(out, api.SeriesPoint{Date: p.Date.Format(daterange.Layout), Value: p.Avg})
	}
	c.JSON(http.StatusOK, api.SeriesResponse{Series: out})
}

// GetStatusDistribution handles GET /api/refunds/status-distribution.
func (h *RefundsHandler) GetStatusDistribution(c *gin.Context) {
	h.distribution(c, "refunds.status-distribution", h.uc.GetStatusDistribution, false)
}

// GetByBank handles GET /api/refunds/by-bank.
func (h *RefundsHandler) GetByBank(c *gin.Context) {
	h.distribution(c, "refunds.by-bank", h.uc.GetByBank, true)
}

// GetAmountDistribution handles GET /api/refunds/amount-distribution.
func (h *RefundsHandler) GetAmountDistribution(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	buckets, err := h.uc.GetAmountDistribution(c.Request.Context(), r)
	if err != nil {
		failDataStore(c, "refunds.amount-distribution", err)
		return
	}
	out := make([]api.DistributionItem, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, api.DistributionItem{Name: b.Name, Value: float64(b.Count)})
	}
	c.JSON(http.StatusOK, api.DistributionResponse{Data: out})
}

func (h *RefundsHandler) distribution(
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
	c.JSON(http.StatusOK, api.DistributionResponse{Data: out})
}
