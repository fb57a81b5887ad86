package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ardidrizi/inventory-saas/pkg/config"
	"github.com/ardidrizi/inventory-saas/pkg/db/models"
	"github.com/ardidrizi/inventory-saas/pkg/enums"
	"github.com/ardidrizi/inventory-saas/pkg/security"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	Role      enums.UserRole `json:"role"`
	IsActive  bool           `json:"isActive"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// CreateUserDTO holds the data required to persist a new user. The
// plaintext password never reaches the repository.
type CreateUserDTO struct {
	Email    string
	Password string
	Name     string
	Role     enums.UserRole
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewUser builds a persistable user model: email lowercased, password
// hashed with Argon2id, role defaulted to manager when unset.
func NewUser(dto CreateUserDTO, passwordCfg config.PasswordConfig) (*models.User, error) {
	hash, err := security.HashPassword(dto.Password, passwordCfg)
	if err != nil {
		return nil, err
	}

	role := dto.Role
	if role == "" {
		role = enums.UserRoleManager
	}

	return &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(dto.Email)),
		PasswordHash: hash,
		Name:         strings.TrimSpace(dto.Name),
		Role:         role,
		IsActive:     true,
	}, nil
}
