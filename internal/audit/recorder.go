package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ardidrizi/inventory-saas/pkg/db/models"
	dbtypes "github.com/ardidrizi/inventory-saas/pkg/db/types"
	"github.com/ardidrizi/inventory-saas/pkg/enums"
	"github.com/ardidrizi/inventory-saas/pkg/logger"
)

// Entry describes one recorded action.
type Entry struct {
	UserID     uuid.UUID
	Action     enums.AuditAction
	EntityType enums.EntityType
	EntityID   uuid.UUID
	Metadata   map[string]any
}

// Recorder appends audit entries. Recording is best effort: a failed
// write never fails the operation that triggered it.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

type recorder struct {
	repo *Repository
	logg *logger.Logger
}

// NewRecorder builds the persistent recorder.
func NewRecorder(repo *Repository, logg *logger.Logger) (Recorder, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &recorder{repo: repo, logg: logg}, nil
}

func (r *recorder) Record(ctx context.Context, entry Entry) {
	row := &models.AuditLog{
		ID:         uuid.New(),
		UserID:     entry.UserID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   dbtypes.JSONMap(entry.Metadata),
	}
	if err := r.repo.Insert(ctx, row); err != nil {
		fields := map[string]any{
			"audit_action": entry.Action.String(),
			"entity_type":  entry.EntityType.String(),
			"entity_id":    entry.EntityID.String(),
		}
		r.logg.Error(r.logg.WithFields(ctx, fields), "audit record dropped", err)
	}
}

// NopRecorder discards every entry. Tests and code paths without an
// audit trail use it.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Entry) {}
