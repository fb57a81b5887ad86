package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/ardidrizi/inventory-saas/pkg/errors"
	"github.com/ardidrizi/inventory-saas/pkg/pagination"
)

type samplePayload struct {
	Email string `json:"email" validate:"required,email"`
	Count int    `json:"count" validate:"min=1"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"ada@example.com","count":2}`))

	var payload samplePayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Email != "ada@example.com" || payload.Count != 2 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"ada@example.com","count":2,"extra":true}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldsByJSONName(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"not-an-email","count":0}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if _, present := details["email"]; !present {
		t.Fatalf("expected email key in details, got %v", details)
	}
	if _, present := details["count"]; !present {
		t.Fatalf("expected count key in details, got %v", details)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=25&bad=oops", nil)

	if got := ParseQueryInt(req, "limit", 10); got != 25 {
		t.Fatalf("expected 25 got %d", got)
	}
	if got := ParseQueryInt(req, "bad", 10); got != 10 {
		t.Fatalf("expected fallback got %d", got)
	}
	if got := ParseQueryInt(req, "absent", 10); got != 10 {
		t.Fatalf("expected fallback got %d", got)
	}
}

func TestParsePaginationNormalizes(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=-3&limit=100000", nil)

	params := ParsePagination(req)
	if params.Page != 1 {
		t.Fatalf("expected page 1 got %d", params.Page)
	}
	if params.Limit != pagination.MaxLimit {
		t.Fatalf("expected limit %d got %d", pagination.MaxLimit, params.Limit)
	}
}
