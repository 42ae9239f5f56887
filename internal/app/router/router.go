// Package router wires the HTTP surface: middleware, platform endpoints
// and the analytics route groups.
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	buyshandler "analytics_backend/internal/feature/buys/transport/handler"
	refundshandler "analytics_backend/internal/feature/refunds/transport/handler"
	usershandler "analytics_backend/internal/feature/users/transport/handler"
	"analytics_backend/internal/observability/metrics"
	"analytics_backend/internal/platform/http/handler"
)

// NewRouter assembles the gin engine with all analytics endpoints.
func NewRouter(buys *buyshandler.BuysHandler, refunds *refundshandler.RefundsHandler,
	users *usershandler.UsersHandler) *gin.Engine {
	r := gin.Default()

	// The dashboard frontend is served from another origin.
	r.Use(cors.Default())
	r.Use(metrics.Middleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Kuknos Analytics API",
			"version": "0.1.0",
		})
	})
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	b := r.Group("/api/buys")
	{
		b.GET("/kpis", buys.GetKPIs)
		b.GET("/daily-count", buys.GetDailyCount)
		b.GET("/daily-volume", buys.GetDailyVolume)
		b.GET("/monthly-trend", buys.GetMonthlyTrend)
		b.GET("/exchange-rate-trend", buys.GetExchangeRateTrend)
		b.GET("/rate-candlestick", buys.GetRateCandlestick)
		b.GET("/by-gateway", buys.GetByGateway)
		b.GET("/by-application", buys.GetByApplication)
		b.GET("/status-distribution", buys.GetStatusDistribution)
		b.GET("/amount-distribution", buys.GetAmountDistribution)
	}

	f := r.Group("/api/refunds")
	{
		f.GET("/kpis", refunds.GetKPIs)
		f.GET("/daily-count", refunds.GetDailyCount)
		f.GET("/monthly-trend", refunds.GetMonthlyTrend)
		f.GET("/rate-trend", refunds.GetRateTrend)
		f.GET("/status-distribution", refunds.GetStatusDistribution)
		f.GET("/by-bank", refunds.GetByBank)
		f.GET("/amount-distribution", refunds.GetAmountDistribution)
	}

	u := r.Group("/api/users")
	{
		u.GET("/kpis", users.GetKPIs)
		u.GET("/new-per-month", users.GetNewPerMonth)
		u.GET("/top-buyers", users.GetTopBuyers)
		u.GET("/top-sellers", users.GetTopSellers)
		u.GET("/activity-distribution", users.GetActivityDistribution)
		u.GET("/monthly-active", users.GetMonthlyActive)
		u.GET("/buy-sell-comparison", users.GetBuySellComparison)
	}

	return r
}
