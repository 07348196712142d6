package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shopkeeperhq/shopkeeper-backend/api/middleware"
	inventorysvc "github.com/shopkeeperhq/shopkeeper-backend/internal/inventory"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db/models"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
)

type stubInventoryService struct {
	adjustCalled bool
	lastDelta    string
}

func (s *stubInventoryService) CreateItem(ctx context.Context, userID string, input inventorysvc.CreateItemInput) (*models.InventoryItem, error) {
	panic("unimplemented")
}

func (s *stubInventoryService) GetItem(ctx context.Context, userID string, itemID uuid.UUID) (*models.InventoryItem, error) {
	panic("unimplemented")
}

func (s *stubInventoryService) ListItems(ctx context.Context, userID string) ([]models.InventoryItem, error) {
	panic("unimplemented")
}

func (s *stubInventoryService) AdjustQuantity(ctx context.Context, userID string, itemID uuid.UUID, input inventorysvc.AdjustQuantityInput) (*models.InventoryItem, error) {
	s.adjustCalled = true
	s.lastDelta = input.Delta.String()
	return &models.InventoryItem{ID: itemID, UserID: userID}, nil
}

func (s *stubInventoryService) EditItem(ctx context.Context, userID string, itemID uuid.UUID, input inventorysvc.EditItemInput) (*models.InventoryItem, error) {
	panic("unimplemented")
}

func (s *stubInventoryService) ApplyCoilReceipt(ctx context.Context, userID string, itemID uuid.UUID, input inventorysvc.CoilReceiptInput) (*models.InventoryItem, error) {
	panic("unimplemented")
}

func (s *stubInventoryService) DeleteItem(ctx context.Context, userID string, itemID uuid.UUID) error {
	panic("unimplemented")
}

func TestItemAdjust(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	itemID := uuid.New()

	makeRequest := func(ctx context.Context, itemParam, body string, stub *stubInventoryService) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/items/"+itemParam+"/adjust", strings.NewReader(body))
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("itemId", itemParam)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()
		ItemAdjust(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing user", func(t *testing.T) {
		rec := makeRequest(context.Background(), itemID.String(), `{"delta":"5"}`, &stubInventoryService{})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 when user missing, got %d", rec.Code)
		}
	})

	t.Run("invalid item id", func(t *testing.T) {
		ctx := middleware.WithUserID(context.Background(), "user-1")
		rec := makeRequest(ctx, "not-a-uuid", `{"delta":"5"}`, &stubInventoryService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		ctx := middleware.WithUserID(context.Background(), "user-1")
		rec := makeRequest(ctx, itemID.String(), `{"delta":"5","bogus":true}`, &stubInventoryService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctx := middleware.WithUserID(context.Background(), "user-1")
		stub := &stubInventoryService{}
		rec := makeRequest(ctx, itemID.String(), `{"delta":"-4.5","note":"damaged stock"}`, stub)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on success, got %d", rec.Code)
		}
		if !stub.adjustCalled {
			t.Fatalf("expected AdjustQuantity to be invoked")
		}
		if stub.lastDelta != "-4.5" {
			t.Fatalf("unexpected delta %q", stub.lastDelta)
		}
	})
}
