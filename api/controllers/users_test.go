package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	usersvc "github.com/ardidrizi/inventory-saas/internal/users"
	"github.com/ardidrizi/inventory-saas/pkg/enums"
	pkgerrors "github.com/ardidrizi/inventory-saas/pkg/errors"
	"github.com/ardidrizi/inventory-saas/pkg/pagination"
)

type stubUserService struct {
	listFn   func(ctx context.Context, page pagination.Params) (*usersvc.ListResult, error)
	roleFn   func(ctx context.Context, actorID, targetID uuid.UUID, role enums.UserRole) (*usersvc.UserDTO, error)
	statusFn func(ctx context.Context, actorID, targetID uuid.UUID, active bool) (*usersvc.UserDTO, error)
}

func (s stubUserService) List(ctx context.Context, page pagination.Params) (*usersvc.ListResult, error) {
	return s.listFn(ctx, page)
}

func (s stubUserService) UpdateRole(ctx context.Context, actorID, targetID uuid.UUID, role enums.UserRole) (*usersvc.UserDTO, error) {
	return s.roleFn(ctx, actorID, targetID, role)
}

func (s stubUserService) UpdateStatus(ctx context.Context, actorID, targetID uuid.UUID, active bool) (*usersvc.UserDTO, error) {
	return s.statusFn(ctx, actorID, targetID, active)
}

func TestUserListNormalizesPagination(t *testing.T) {
	svc := stubUserService{
		listFn: func(ctx context.Context, page pagination.Params) (*usersvc.ListResult, error) {
			if page.Page != 1 || page.Limit != pagination.MaxLimit {
				t.Fatalf("unexpected page %+v", page)
			}
			return &usersvc.ListResult{Meta: page.MetaFor(1)}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/?limit=9999", nil)
	resp := httptest.NewRecorder()
	UserList(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestUserUpdateRole(t *testing.T) {
	actorID := uuid.New()
	targetID := uuid.New()

	svc := stubUserService{
		roleFn: func(ctx context.Context, gotActor, gotTarget uuid.UUID, role enums.UserRole) (*usersvc.UserDTO, error) {
			if gotActor != actorID || gotTarget != targetID {
				t.Fatalf("unexpected ids %s %s", gotActor, gotTarget)
			}
			if role != enums.UserRoleAdmin {
				t.Fatalf("unexpected role %s", role)
			}
			return &usersvc.UserDTO{ID: targetID, Role: role}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"role":"admin"}`))
	req = withIdentity(req, actorID, enums.UserRoleAdmin)
	req = withPathID(req, "userId", targetID.String())
	resp := httptest.NewRecorder()
	UserUpdateRole(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestUserUpdateRoleRejectsUnknownRole(t *testing.T) {
	svc := stubUserService{}
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"role":"wizard"}`))
	req = withIdentity(req, uuid.New(), enums.UserRoleAdmin)
	req = withPathID(req, "userId", uuid.NewString())
	resp := httptest.NewRecorder()
	UserUpdateRole(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation code got %s", code)
	}
}

func TestUserUpdateStatusRequiresIsActive(t *testing.T) {
	svc := stubUserService{}
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{}`))
	req = withIdentity(req, uuid.New(), enums.UserRoleAdmin)
	req = withPathID(req, "userId", uuid.NewString())
	resp := httptest.NewRecorder()
	UserUpdateStatus(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUserUpdateStatusDeactivates(t *testing.T) {
	targetID := uuid.New()

	svc := stubUserService{
		statusFn: func(ctx context.Context, actorID, gotTarget uuid.UUID, active bool) (*usersvc.UserDTO, error) {
			if active {
				t.Fatal("expected deactivation")
			}
			return &usersvc.UserDTO{ID: gotTarget, IsActive: false}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"isActive":false}`))
	req = withIdentity(req, uuid.New(), enums.UserRoleAdmin)
	req = withPathID(req, "userId", targetID.String())
	resp := httptest.NewRecorder()
	UserUpdateStatus(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
