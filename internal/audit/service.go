package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ardidrizi/inventory-saas/pkg/db/models"
	"github.com/ardidrizi/inventory-saas/pkg/enums"
	pkgerrors "github.com/ardidrizi/inventory-saas/pkg/errors"
	"github.com/ardidrizi/inventory-saas/pkg/pagination"
)

// ActorDTO identifies who performed an audited action.
type ActorDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LogDTO is the transport shape of one audit row.
type LogDTO struct {
	ID         uuid.UUID         `json:"id"`
	UserID     uuid.UUID         `json:"userId"`
	Actor      *ActorDTO         `json:"actor,omitempty"`
	Action     enums.AuditAction `json:"action"`
	EntityType enums.EntityType  `json:"entityType"`
	EntityID   uuid.UUID         `json:"entityId"`
	Metadata   map[string]any    `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// ListResult pairs a page of audit rows with its pagination metadata.
type ListResult struct {
	Logs []LogDTO        `json:"logs"`
	Meta pagination.Meta `json:"meta"`
}

// Service exposes the audit trail read side.
type Service interface {
	List(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error)
}

type service struct {
	repo *Repository
}

// NewService builds the audit read service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error) {
	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list audit logs")
	}

	logs := make([]LogDTO, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, fromModel(row))
	}
	return &ListResult{
		Logs: logs,
		Meta: page.MetaFor(total),
	}, nil
}

func fromModel(row models.AuditLog) LogDTO {
	var actor *ActorDTO
	if row.Actor != nil {
		actor = &ActorDTO{Name: row.Actor.Name, Email: row.Actor.Email}
	}
	return LogDTO{
		ID:         row.ID,
		UserID:     row.UserID,
		Actor:      actor,
		Action:     row.Action,
		EntityType: row.EntityType,
		EntityID:   row.EntityID,
		Metadata:   map[string]any(row.Metadata),
		CreatedAt:  row.CreatedAt,
	}
}
