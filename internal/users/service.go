package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ardidrizi/inventory-saas/internal/audit"
	"github.com/ardidrizi/inventory-saas/pkg/db/models"
	"github.com/ardidrizi/inventory-saas/pkg/enums"
	pkgerrors "github.com/ardidrizi/inventory-saas/pkg/errors"
	"github.com/ardidrizi/inventory-saas/pkg/pagination"
)

// ListResult pairs a page of users with its pagination metadata.
type ListResult struct {
	Users []UserDTO       `json:"users"`
	Meta  pagination.Meta `json:"meta"`
}

// Service exposes the account management operations available to admins.
type Service interface {
	List(ctx context.Context, page pagination.Params) (*ListResult, error)
	UpdateRole(ctx context.Context, actorID, targetID uuid.UUID, role enums.UserRole) (*UserDTO, error)
	UpdateStatus(ctx context.Context, actorID, targetID uuid.UUID, active bool) (*UserDTO, error)
}

type userStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, page pagination.Params) ([]models.User, int64, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error
	UpdateActive(ctx context.Context, id uuid.UUID, active bool) error
}

type service struct {
	repo     userStore
	recorder audit.Recorder
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo     userStore
	Recorder audit.Recorder
}

// NewService constructs a user management service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Recorder == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &service{repo: params.Repo, recorder: params.Recorder}, nil
}

func (s *service) List(ctx context.Context, page pagination.Params) (*ListResult, error) {
	rows, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}

	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return &ListResult{Users: out, Meta: page.MetaFor(total)}, nil
}

func (s *service) UpdateRole(ctx context.Context, actorID, targetID uuid.UUID, role enums.UserRole) (*UserDTO, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	user, err := s.findUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	previous := user.Role
	if err := s.repo.UpdateRole(ctx, targetID, role); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update role")
	}
	user.Role = role

	s.recorder.Record(ctx, audit.Entry{
		UserID:     actorID,
		Action:     enums.AuditActionUpdateRole,
		EntityType: enums.EntityTypeUser,
		EntityID:   targetID,
		Metadata: map[string]any{
			"previousRole": previous.String(),
			"newRole":      role.String(),
		},
	})
	return FromModel(user), nil
}

func (s *service) UpdateStatus(ctx context.Context, actorID, targetID uuid.UUID, active bool) (*UserDTO, error) {
	if actorID == targetID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot change your own active status")
	}

	user, err := s.findUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateActive(ctx, targetID, active); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update status")
	}
	user.IsActive = active

	action := enums.AuditActionDeactivate
	if active {
		action = enums.AuditActionActivate
	}
	s.recorder.Record(ctx, audit.Entry{
		UserID:     actorID,
		Action:     action,
		EntityType: enums.EntityTypeUser,
		EntityID:   targetID,
	})
	return FromModel(user), nil
}

func (s *service) findUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return user, nil
}
