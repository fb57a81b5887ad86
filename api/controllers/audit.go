package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ardidrizi/inventory-saas/api/responses"
	"github.com/ardidrizi/inventory-saas/api/validators"
	auditsvc "github.com/ardidrizi/inventory-saas/internal/audit"
	"github.com/ardidrizi/inventory-saas/pkg/enums"
	pkgerrors "github.com/ardidrizi/inventory-saas/pkg/errors"
	"github.com/ardidrizi/inventory-saas/pkg/logger"
)

// AuditLogList returns a filtered page of audit log entries.
func AuditLogList(svc auditsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "audit service unavailable"))
			return
		}

		var filter auditsvc.ListFilter
		query := r.URL.Query()

		if raw := strings.TrimSpace(query.Get("userId")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid userId filter"))
				return
			}
			filter.UserID = &id
		}
		if raw := strings.TrimSpace(query.Get("action")); raw != "" {
			action := enums.AuditAction(raw)
			filter.Action = &action
		}
		if raw := strings.TrimSpace(query.Get("entityType")); raw != "" {
			entityType := enums.EntityType(raw)
			filter.EntityType = &entityType
		}
		if raw := strings.TrimSpace(query.Get("entityId")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entityId filter"))
				return
			}
			filter.EntityID = &id
		}

		result, err := svc.List(r.Context(), filter, validators.ParsePagination(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
