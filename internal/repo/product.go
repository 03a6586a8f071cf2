package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jeongwook5013/SecondHand-Shop/internal/models"
)

// ProductRow is the read projection: the product plus the seller's
// username and the category's name, never the full joined records.
type ProductRow struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Price          int64     `json:"price"`
	Location       string    `json:"location"`
	ImageURL       string    `json:"imageUrl"`
	SellerUsername string    `json:"sellerUsername"`
	CategoryName   string    `json:"categoryName"`
	CreatedAt      time.Time `json:"createdAt"`
}

const productRowSelect = `products.id, products.title, products.description,
products.price, products.location, products.image_url, products.created_at,
users.username AS seller_username, categories.name AS category_name`

func (r *GormRepo) productRows(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&models.Product{}).
		Select(productRowSelect).
		Joins("JOIN users ON users.id = products.seller_id").
		Joins("JOIN categories ON categories.id = products.category_id")
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&prod).Error; err != nil {
		return nil, err
	}
	return &prod, nil
}

func (r *GormRepo) GetProductRow(ctx context.Context, id uint) (*ProductRow, error) {
	var row ProductRow
	res := r.productRows(ctx).Where("products.id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (r *GormRepo) ListProductRows(ctx context.Context, offset, limit int) (int64, []ProductRow, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	rows := make([]ProductRow, 0, limit)
	if err := r.productRows(ctx).
		Order("products.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return 0, nil, err
	}

	return total, rows, nil
}

// SearchProductRows is the SQL search path, used when no search index is
// configured.
func (r *GormRepo) SearchProductRows(ctx context.Context, q string, offset, limit int) (int64, []ProductRow, error) {
	pattern := "%" + q + "%"
	match := "products.title LIKE ? OR products.description LIKE ?"

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where(match, pattern, pattern).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}

	rows := make([]ProductRow, 0, limit)
	if err := r.productRows(ctx).
		Where(match, pattern, pattern).
		Order("products.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return 0, nil, err
	}

	return total, rows, nil
}

func (r *GormRepo) GetProductRowsByIDs(ctx context.Context, ids []uint) ([]ProductRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows := make([]ProductRow, 0, len(ids))
	if err := r.productRows(ctx).
		Where("products.id IN ?", ids).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]ProductRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	ordered := make([]ProductRow, 0, len(rows))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
		}
	}
	return ordered, nil
}

func (r *GormRepo) SaveProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Save(prod).Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
