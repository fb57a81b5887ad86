package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	dashboardsvc "github.com/ardidrizi/inventory-saas/internal/dashboard"
	pkgerrors "github.com/ardidrizi/inventory-saas/pkg/errors"
)

type stubDashboardService struct {
	statsFn func(ctx context.Context) (*dashboardsvc.StatsDTO, error)
}

func (s stubDashboardService) Stats(ctx context.Context) (*dashboardsvc.StatsDTO, error) {
	return s.statsFn(ctx)
}

func TestDashboardStats(t *testing.T) {
	svc := stubDashboardService{
		statsFn: func(ctx context.Context) (*dashboardsvc.StatsDTO, error) {
			return &dashboardsvc.StatsDTO{
				TotalProducts: 4,
				TotalRevenue:  decimal.RequireFromString("140.50"),
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	DashboardStats(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var stats dashboardsvc.StatsDTO
	decodeEnvelope(t, resp, &stats)
	if stats.TotalProducts != 4 {
		t.Fatalf("unexpected totals %+v", stats)
	}
}

func TestDashboardStatsMapsFailure(t *testing.T) {
	svc := stubDashboardService{
		statsFn: func(ctx context.Context) (*dashboardsvc.StatsDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "aggregation failed")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	DashboardStats(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
