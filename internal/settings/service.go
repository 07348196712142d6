package settings

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db/models"
)

// DefaultStoreName is used until the owner names their shop.
const DefaultStoreName = "My Shop"

// UpdateProfileInput carries the editable shop settings.
type UpdateProfileInput struct {
	StoreName string  `json:"store_name"`
	Address   *string `json:"address,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	GSTIN     *string `json:"gstin,omitempty"`
	SheetID   *string `json:"sheet_id,omitempty"`
}

// Service reads and writes the per-user shop profile.
type Service interface {
	GetProfile(ctx context.Context, userID string) (*models.StoreProfile, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.StoreProfile, error)
}

type service struct {
	repo Repository
}

// NewService wires a settings service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

// GetProfile returns the stored profile, or an unsaved default for users
// who have not configured their shop yet.
func (s *service) GetProfile(ctx context.Context, userID string) (*models.StoreProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	profile, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return &models.StoreProfile{UserID: userID, StoreName: DefaultStoreName}, nil
		}
		return nil, err
	}
	return profile, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.StoreProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	profile, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if !stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		profile = &models.StoreProfile{ID: uuid.New(), UserID: userID}
	}

	name := strings.TrimSpace(input.StoreName)
	if name == "" {
		name = DefaultStoreName
	}
	profile.StoreName = name
	profile.Address = input.Address
	profile.Phone = input.Phone
	profile.GSTIN = input.GSTIN
	profile.SheetID = input.SheetID

	if err := s.repo.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
