package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/jeongwook5013/SecondHand-Shop/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

// SeedCategoryNames mirrors the fixed category set the shop launches with.
var SeedCategoryNames = []string{
	"Electronics",
	"Fashion/Clothing",
	"Books/Media",
	"Furniture/Interior",
	"Sports/Leisure",
	"Other",
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	if err := r.DB.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
	); err != nil {
		return err
	}
	return r.seedCategories(ctx)
}

func (r *GormRepo) seedCategories(ctx context.Context) error {
	for _, name := range SeedCategoryNames {
		cat := models.Category{Name: name}
		if err := r.DB.WithContext(ctx).
			Where("name = ?", name).
			FirstOrCreate(&cat).Error; err != nil {
			return err
		}
	}
	return nil
}
