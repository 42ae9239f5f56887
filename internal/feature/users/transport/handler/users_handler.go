// Package handler exposes the user analytics endpoints over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"analytics_backend/internal/api"
	"analytics_backend/internal/feature/users/domain/entity"
	"analytics_backend/internal/shared/daterange"
	"analytics_backend/internal/shared/histogram"
	"analytics_backend/internal/shared/timeseries"
)

// UsersUsecase is the user analytics interface consumed by this handler.
type UsersUsecase interface {
	GetKPIs(ctx context.Context, r daterange.Range) ([]entity.KPI, error)
	GetNewPerMonth(ctx context.Context, r daterange.Range) ([]timeseries.Point, error)
	GetTopBuyers(ctx context.Context, r daterange.Range) ([]entity.TopUser, error)
	GetTopSellers(ctx context.Context, r daterange.Range) ([]entity.TopUser, error)
	GetActivityDistribution(ctx context.Context, r daterange.Range) ([]histogram.Bucket, error)
	GetMonthlyActive(ctx context.Context, r daterange.Range) ([]timeseries.Point, error)
	GetBuySellComparison(ctx context.Context, r daterange.Range) ([]entity.ComparisonPoint, error)
}

// UsersHandler handles HTTP requests for user analytics.
type UsersHandler struct {
	uc UsersUsecase
}

// NewUsersHandler creates a UsersHandler with the given usecase.
func NewUsersHandler(uc UsersUsecase) *UsersHandler {
	return &UsersHandler{uc: uc}
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

// GetKPIs handles GET /api/users/kpis.
func (h *UsersHandler) GetKPIs(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	kpis, err := h.uc.GetKPIs(c.Request.Context(), r)
	if err != nil {
		failDataStore(c, "users.kpis", err)
		return
	}
	out := make([]api.KPIItem, 0, len(kpis))
	for _, k := range kpis {
		out = append(out, api.KPIItem{Key: k.Key, Label: k.Label, Value: k.Value, Format: k.Format})
	}
	c.JSON(http.StatusOK, api.KPIResponse{KPIs: out})
}

// GetNewPerMonth handles GET /api/users/new-per-month.
func (h *UsersHandler) GetNewPerMonth(c *gin.Context) {
	h.countSeries(c, "users.new-per-month", h.uc.GetNewPerMonth)
}

// GetMonthlyActive handles GET /api/users/monthly-active.
func (h *UsersHandler) GetMonthlyActive(c *gin.Context) {
	h.countSeries(c, "users.monthly-active", h.uc.GetMonthlyActive)
}

// GetTopBuyers handles GET /api/users/top-buyers.
func (h *UsersHandler) GetTopBuyers(c *gin.Context) {
	h.topUsers(c, "users.top-buyers", h.uc.GetTopBuyers)
}

// GetTopSellers handles GET /api/users/top-sellers.
func (h *UsersHandler) GetTopSellers(c *gin.Context) {
	h.topUsers(c, "users.top-sellers", h.uc.GetTopSellers)
}

// GetActivityDistribution handles GET /api/users/activity-distribution.
func (h *UsersHandler) GetActivityDistribution(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	buckets, err := h.uc.GetActivityDistribution(c.Request.Context(), r)
	if err != nil {
		failDataStore(c, "users.activity-distribution", err)
		return
	}
	out := make([]api.DistributionItem, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, api.DistributionItem{Name: b.Name, Value: float64(b.Count)})
	}
	c.JSON(http.StatusOK, api.DistributionResponse{Data: out})
}

// GetBuySellComparison handles GET /api/users/buy-sell-comparison.
func (h *UsersHandler) GetBuySellComparison(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	points, err := h.uc.GetBuySellComparison(c.Request.Context(), r)
	if err != nil {
		failDataStore(c, "users.buy-sell-comparison", err)
		return
	}
	out := make([]api.ComparisonPoint, 0, len(points))
	for _, p := range points {
		out = append(out, api.ComparisonPoint{
			Month:      p.Month.Format(daterange.Layout),
			BuyAmount:  p.BuyAmount,
			SellAmount: p.SellAmount,
		})
	}
	c.JSON(http.StatusOK, api.ComparisonResponse{Series: out})
}

func (h *UsersHandler) countSeries(
	c *gin.Context,
	op string,
	fetch func(ctx context.Context, r daterange.Range) ([]timeseries.Point, error),
) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	points, err := fetch(c.Request.Context(), r)
	if err != nil {
		failDataStore(c, op, err)
		return
	}
	out := make([]api.SeriesPoint, 0, len(points))
	for _, p := range points {
		out = append(out, api.SeriesPoint{Date: p.Date.Format(daterange.Layout), Value: float64(p.Count)})
	}
	c.JSON(http.StatusOK, api.SeriesResponse{Series: out})
}

func (h *UsersHandler) topUsers(
	c *gin.Context,
	op string,
	fetch func(ctx context.Context, r daterange.Range) ([]entity.TopUser, error),
) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	users, err := fetch(c.Request.Context(), r)
	if err != nil {
		failDataStore(c, op, err)
		return
	}
	out := make([]api.TopUserItem, 0, len(users))
	for _, u := range users {
		out = append(out, api.TopUserItem{Wallet: u.Wallet, TotalAmount: u.TotalAmount, TxCount: u.TxCount})
	}
	c.JSON(http.StatusOK, api.TopUsersResponse{Data: out})
}
