package controllers

import (
	"net/http"

	"github.com/ardidrizi/inventory-saas/api/responses"
	dashboardsvc "github.com/ardidrizi/inventory-saas/internal/dashboard"
	pkgerrors "github.com/ardidrizi/inventory-saas/pkg/errors"
	"github.com/ardidrizi/inventory-saas/pkg/logger"
)

// DashboardStats returns the aggregated back office dashboard.
func DashboardStats(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
