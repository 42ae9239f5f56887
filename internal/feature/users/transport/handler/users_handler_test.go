package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"analytics_backend/internal/feature/users/domain/entity"
	"analytics_backend/internal/feature/users/transport/handler"
	"analytics_backend/internal/shared/daterange"
	"analytics_backend/internal/shared/histogram"
	"analytics_backend/internal/shared/timeseries"
)

// mockUsersUsecase is a func-field mock of the UsersUsecase interface.
type mockUsersUsecase struct {
	GetKPIsFunc                 func(ctx context.Context, r daterange.Range) ([]entity.KPI, error)
	GetNewPerMonthFunc          func(ctx context.Context, r daterange.Range) ([]timeseries.Point, error)
	GetTopBuyersFunc            func(ctx context.Context, r daterange.Range) ([]entity.TopUser, error)
	GetTopSellersFunc           func(ctx context.Context, r daterange.Range) ([]entity.TopUser, error)
	GetActivityDistributionFunc func(ctx context.Context, r daterange.Range) ([]histogram.Bucket, error)
	GetMonthlyActiveFunc        func(ctx context.Context, r daterange.Range) ([]timeseries.Point, error)
	GetBuySellComparisonFunc    func(ctx context.Context, r daterange.Range) ([]entity.ComparisonPoint, error)
}

func (m *mockUsersUsecase) GetKPIs(ctx context.Context, r daterange.Range) ([]entity.KPI, error) {
	return m.GetKPIsFunc(ctx, r)
}

func (m *mockUsersUsecase) GetNewPerMonth(ctx context.Context, r daterange.Range) ([]timeseries.Point, error) {
	return m.GetNewPerMonthFunc(ctx, r)
}

func (m *mockUsersUsecase) GetTopBuyers(ctx context.Context, r daterange.Range) ([]entity.TopUser, error) {
	return m.GetTopBuyersFunc(ctx, r)
}

func (m *mockUsersUsecase) GetTopSellers(ctx context.Context, r daterange.Range) ([]entity.TopUser, error) {
	return m.GetTopSellersFunc(ctx, r)
}

func (m *mockUsersUsecase) GetActivityDistribution(ctx context.Context, r daterange.Range) ([]histogram.Bucket, error) {
	return m.GetActivityDistributionFunc(ctx, r)
}

func (m *mockUsersUsecase) GetMonthlyActive(ctx context.Context, r daterange.Range) ([]timeseries.Point, error) {
	return m.GetMonthlyActiveFunc(ctx, r)
}

func (m *mockUsersUsecase) GetBuySellComparison(ctx context.Context, r daterange.Range) ([]entity.ComparisonPoint, error) {
	return m.GetBuySellComparisonFunc(ctx, r)
}

func newUsersRouter(mock *mockUsersUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewUsersHandler(mock)

	r := gin.New()
	g := r.Group("/api/users")
	g.GET("/kpis", h.GetKPIs)
	g.GET("/new-per-month", h.GetNewPerMonth)
	g.GET("/top-buyers", h.GetTopBuyers)
	g.GET("/top-sellers", h.GetTopSellers)
	g.GET("/activity-distribution", h.GetActivityDistribution)
	g.GET("/monthly-active", h.GetMonthlyActive)
	g.GET("/buy-sell-comparison", h.GetBuySellComparison)
	return r
}

func doGet(r *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestUsersHandler_GetKPIs(t *testing.T) {
	mock := &mockUsersUsecase{
		GetKPIsFunc: func(ctx context.Context, r daterange.Range) ([]entity.KPI, error) {
			return []entity.KPI{
				{Key: "total_users", Label: "تعداد کل کاربران منحصر به فرد", Value: 120, Format: "number"},
				{Key: "both_side_users", Label: "کاربران خریدار و فروشنده", Value: 15, Format: "number"},
			}, nil
		},
	}

	w := doGet(newUsersRouter(mock), "/api/users/kpis")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"kpis":[
		{"key":"total_users","label":"تعداد کل کاربران منحصر به فرد","value":120,"format":"number"},
		{"key":"both_side_users","label":"کاربران خریدار و فروشنده","value":15,"format":"number"}
	]}`, w.Body.String())
}

func TestUsersHandler_InvalidDateIdentifiesValue(t *testing.T) {
	mock := &mockUsersUsecase{
		GetKPIsFunc: func(ctx context.Context, r daterange.Range) ([]entity.KPI, error) {
			t.Fatal("usecase must not be called on invalid input")
			return nil, nil
		},
	}

	w := doGet(newUsersRouter(mock), "/api/users/kpis?start_date=2024/01/01")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "2024/01/01")
}

func TestUsersHandler_DataStoreErrorIsGeneric(t *testing.T) {
	mock := &mockUsersUsecase{
		GetTopBuyersFunc: func(ctx context.Context, r daterange.Range) ([]entity.TopUser, error) {
			return nil, errors.New("pq: relation pending_txes does not exist")
		},
	}

	w := doGet(newUsersRouter(mock), "/api/users/top-buyers")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "pending_txes")
	assert.Contains(t, w.Body.String(), "خطا در اتصال به پایگاه داده")
}

func TestUsersHandler_NewPerMonth(t *testing.T) {
	mock := &mockUsersUsecase{
		GetNewPerMonthFunc: func(ctx context.Context, r daterange.Range) ([]timeseries.Point, error) {
			return []timeseries.Point{
				{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Count: 8},
			}, nil
		},
	}

	w := doGet(newUsersRouter(mock), "/api/users/new-per-month")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"series":[{"date":"2024-01-01","value":8}]}`, w.Body.String())
}

func TestUsersHandler_TopBuyers(t *testing.T) {
	mock := &mockUsersUsecase{
		GetTopBuyersFunc: func(ctx context.Context, r daterange.Range) ([]entity.TopUser, error) {
			return []entity.TopUser{{Wallet: "GABCD", TotalAmount: 900.5, TxCount: 12}}, nil
		},
	}

	w := doGet(newUsersRouter(mock), "/api/users/top-buyers")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"data":[{"wallet":"GABCD","total_amount":900.5,"tx_count":12}]}`,
		w.Body.String())
}

func TestUsersHandler_ActivityDistribution(t *testing.T) {
	mock := &mockUsersUsecase{
		GetActivityDistributionFunc: func(ctx context.Context, r daterange.Range) ([]histogram.Bucket, error) {
			return []histogram.Bucket{
				{Name: "۱", Count: 40},
				{Name: "۲-۵", Count: 12},
			}, nil
		},
	}

	w := doGet(newUsersRouter(mock), "/api/users/activity-distribution")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"data":[{"name":"۱","value":40},{"name":"۲-۵","value":12}]}`,
		w.Body.String())
}

func TestUsersHandler_BuySellComparison(t *testing.T) {
	mock := &mockUsersUsecase{
		GetBuySellComparisonFunc: func(ctx context.Context, r daterange.Range) ([]entity.ComparisonPoint, error) {
			return []entity.ComparisonPoint{
				{Month: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), BuyAmount: 40, SellAmount: 0},
				{Month: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), BuyAmount: 10, SellAmount: 7},
			}, nil
		},
	}

	w := doGet(newUsersRouter(mock), "/api/users/buy-sell-comparison")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"series":[
		{"month":"2024-01-01","buy_amount":40,"sell_amount":0},
		{"month":"2024-02-01","buy_amount":10,"sell_amount":7}
	]}`, w.Body.String())
}
