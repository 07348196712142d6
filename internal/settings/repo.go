package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/db/models"
)

// Repository manages persistence for store profiles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByUser(ctx context.Context, userID string) (*models.StoreProfile, error)
	Save(ctx context.Context, profile *models.StoreProfile) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a settings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByUser(ctx context.Context, userID string) (*models.StoreProfile, error) {
	var profile models.StoreProfile
	if err := r.db.WithContext(ctx).
		First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) Save(ctx context.Context, profile *models.StoreProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
