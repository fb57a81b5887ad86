package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	productsvc "github.com/ardidrizi/inventory-saas/internal/products"
	"github.com/ardidrizi/inventory-saas/pkg/enums"
	pkgerrors "github.com/ardidrizi/inventory-saas/pkg/errors"
	"github.com/ardidrizi/inventory-saas/pkg/pagination"
)

type stubProductService struct {
	createFn func(ctx context.Context, actorID uuid.UUID, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error)
	updateFn func(ctx context.Context, actorID, productID uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error)
	deleteFn func(ctx context.Context, actorID, productID uuid.UUID) error
	getFn    func(ctx context.Context, productID uuid.UUID) (*productsvc.ProductDTO, error)
	listFn   func(ctx context.Context, filter productsvc.ListFilter, page pagination.Params) (*productsvc.ListResult, error)
}

func (s stubProductService) Create(ctx context.Context, actorID uuid.UUID, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	return s.createFn(ctx, actorID, input)
}

func (s stubProductService) Update(ctx context.Context, actorID, productID uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	return s.updateFn(ctx, actorID, productID, input)
}

func (s stubProductService) Delete(ctx context.Context, actorID, productID uuid.UUID) error {
	return s.deleteFn(ctx, actorID, productID)
}

func (s stubProductService) Get(ctx context.Context, productID uuid.UUID) (*productsvc.ProductDTO, error) {
	return s.getFn(ctx, productID)
}

func (s stubProductService) List(ctx context.Context, filter productsvc.ListFilter, page pagination.Params) (*productsvc.ListResult, error) {
	return s.listFn(ctx, filter, page)
}

func TestProductCreateReturnsCreated(t *testing.T) {
	actorID := uuid.New()
	productID := uuid.New()

	svc := stubProductService{
		createFn: func(ctx context.Context, gotActor uuid.UUID, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
			if gotActor != actorID {
				t.Fatalf("unexpected actor %s", gotActor)
			}
			if input.SKU != "WDG-001" {
				t.Fatalf("unexpected sku %q", input.SKU)
			}
			return &productsvc.ProductDTO{ID: productID, Name: input.Name, SKU: input.SKU, Price: input.Price}, nil
		},
	}

	body := `{"name":"Widget","sku":"WDG-001","price":"19.99","quantity":10,"category":"widgets"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req = withIdentity(req, actorID, enums.UserRoleAdmin)
	resp := httptest.NewRecorder()
	ProductCreate(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	var dto productsvc.ProductDTO
	decodeEnvelope(t, resp, &dto)
	if dto.ID != productID {
		t.Fatalf("unexpected product id %s", dto.ID)
	}
}

func TestProductCreateRejectsUnknownField(t *testing.T) {
	svc := stubProductService{
		createFn: func(ctx context.Context, actorID uuid.UUID, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	body := `{"name":"Widget","sku":"WDG-001","price":"19.99","quantity":10,"category":"widgets","surprise":true}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req = withIdentity(req, uuid.New(), enums.UserRoleAdmin)
	resp := httptest.NewRecorder()
	ProductCreate(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation code got %s", code)
	}
}

func TestProductCreateRequiresIdentity(t *testing.T) {
	svc := stubProductService{}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	ProductCreate(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestProductUpdateParsesPathID(t *testing.T) {
	actorID := uuid.New()
	productID := uuid.New()

	svc := stubProductService{
		updateFn: func(ctx context.Context, gotActor, gotProduct uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
			if gotProduct != productID {
				t.Fatalf("unexpected product id %s", gotProduct)
			}
			if input.Quantity == nil || *input.Quantity != 3 {
				t.Fatalf("unexpected quantity %v", input.Quantity)
			}
			return &productsvc.ProductDTO{ID: productID, Quantity: 3}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"quantity":3}`))
	req = withIdentity(req, actorID, enums.UserRoleAdmin)
	req = withPathID(req, "productId", productID.String())
	resp := httptest.NewRecorder()
	ProductUpdate(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestProductUpdateRejectsMalformedID(t *testing.T) {
	svc := stubProductService{}
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"quantity":3}`))
	req = withIdentity(req, uuid.New(), enums.UserRoleAdmin)
	req = withPathID(req, "productId", "not-a-uuid")
	resp := httptest.NewRecorder()
	ProductUpdate(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductDeleteReturnsNoContent(t *testing.T) {
	productID := uuid.New()
	called := false

	svc := stubProductService{
		deleteFn: func(ctx context.Context, actorID, gotProduct uuid.UUID) error {
			called = true
			if gotProduct != productID {
				t.Fatalf("unexpected product id %s", gotProduct)
			}
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req = withIdentity(req, uuid.New(), enums.UserRoleAdmin)
	req = withPathID(req, "productId", productID.String())
	resp := httptest.NewRecorder()
	ProductDelete(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
	if !called {
		t.Fatal("expected delete to be called")
	}
}

func TestProductGetMapsNotFound(t *testing.T) {
	svc := stubProductService{
		getFn: func(ctx context.Context, productID uuid.UUID) (*productsvc.ProductDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = withPathID(req, "productId", uuid.NewString())
	resp := httptest.NewRecorder()
	ProductGet(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestProductListForwardsFilters(t *testing.T) {
	svc := stubProductService{
		listFn: func(ctx context.Context, filter productsvc.ListFilter, page pagination.Params) (*productsvc.ListResult, error) {
			if filter.Category != "widgets" || filter.Search != "red" {
				t.Fatalf("unexpected filter %+v", filter)
			}
			if page.Page != 2 || page.Limit != 5 {
				t.Fatalf("unexpected page %+v", page)
			}
			return &productsvc.ListResult{
				Products: []productsvc.ProductDTO{{ID: uuid.New(), Price: decimal.RequireFromString("1.50")}},
				Meta:     page.MetaFor(11),
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/?category=widgets&search=red&page=2&limit=5", nil)
	resp := httptest.NewRecorder()
	ProductList(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var result productsvc.ListResult
	decodeEnvelope(t, resp, &result)
	if result.Meta.TotalPages != 3 {
		t.Fatalf("unexpected meta %+v", result.Meta)
	}
}
