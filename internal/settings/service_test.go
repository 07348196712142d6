package settings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db/models"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := "file:settings_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.StoreProfile{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("build settings service: %v", err)
	}
	return svc
}

func TestGetProfileDefaultsWhenUnset(t *testing.T) {
	svc := newTestService(t)

	profile, err := svc.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.StoreName != DefaultStoreName {
		t.Fatalf("expected default store name, got %q", profile.StoreName)
	}
	if profile.SheetID != nil {
		t.Fatal("fresh profile should have no sheet configured")
	}
}

func TestUpdateProfileRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	gstin := "27AAPFU0939F1ZV"
	sheet := "sheet-abc123"
	saved, err := svc.UpdateProfile(ctx, "user-1", UpdateProfileInput{
		StoreName: "Sharma Hardware",
		GSTIN:     &gstin,
		SheetID:   &sheet,
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if saved.ID == uuid.Nil {
		t.Fatal("expected profile id to be assigned")
	}

	loaded, err := svc.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if loaded.StoreName != "Sharma Hardware" {
		t.Fatalf("unexpected store name %q", loaded.StoreName)
	}
	if loaded.GSTIN == nil || *loaded.GSTIN != gstin {
		t.Fatalf("unexpected gstin %v", loaded.GSTIN)
	}
	if loaded.SheetID == nil || *loaded.SheetID != sheet {
		t.Fatalf("unexpected sheet id %v", loaded.SheetID)
	}

	// Second update keeps the same row.
	if _, err := svc.UpdateProfile(ctx, "user-1", UpdateProfileInput{StoreName: "Renamed"}); err != nil {
		t.Fatalf("second update: %v", err)
	}
	reloaded, err := svc.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if reloaded.ID != saved.ID {
		t.Fatal("update must not create a second profile")
	}
	if reloaded.StoreName != "Renamed" {
		t.Fatalf("unexpected store name %q", reloaded.StoreName)
	}
}

func TestUpdateProfileBlankNameFallsBack(t *testing.T) {
	svc := newTestService(t)

	saved, err := svc.UpdateProfile(context.Background(), "user-1", UpdateProfileInput{StoreName: "   "})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if saved.StoreName != DefaultStoreName {
		t.Fatalf("blank name should fall back to default, got %q", saved.StoreName)
	}
}
