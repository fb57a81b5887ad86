package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/ardidrizi/inventory-saas/pkg/enums"
)

func TestAllow(t *testing.T) {
	cases := []struct {
		name     string
		role     enums.UserRole
		required []enums.UserRole
		want     bool
	}{
		{name: "admin allowed for admin", role: enums.UserRoleAdmin, required: []enums.UserRole{enums.UserRoleAdmin}, want: true},
		{name: "manager denied for admin", role: enums.UserRoleManager, required: []enums.UserRole{enums.UserRoleAdmin}, want: false},
		{name: "manager allowed in union", role: enums.UserRoleManager, required: []enums.UserRole{enums.UserRoleAdmin, enums.UserRoleManager}, want: true},
		{name: "no requirement passes", role: enums.UserRoleManager, required: nil, want: true},
		{name: "unknown role denied", role: enums.UserRole("wizard"), required: []enums.UserRole{enums.UserRoleAdmin}, want: false},
		{name: "empty role denied even without requirement", role: enums.UserRole(""), required: nil, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Allow(tc.role, tc.required...); got != tc.want {
				t.Fatalf("Allow(%q, %v) = %v, want %v", tc.role, tc.required, got, tc.want)
			}
		})
	}
}

func TestRequireRolesBlocksInsufficientRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), uuid.New(), enums.UserRoleManager))
	resp := httptest.NewRecorder()
	RequireRoles(nil, enums.UserRoleAdmin)(next).ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireRolesPassesMatchingRole(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), uuid.New(), enums.UserRoleAdmin))
	resp := httptest.NewRecorder()
	RequireRoles(nil, enums.UserRoleAdmin)(next).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || !called {
		t.Fatalf("expected handler to run, got %d", resp.Code)
	}
}
