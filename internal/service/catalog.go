package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jeongwook5013/SecondHand-Shop/internal/apperr"
	"github.com/jeongwook5013/SecondHand-Shop/internal/events"
	"github.com/jeongwook5013/SecondHand-Shop/internal/models"
	"github.com/jeongwook5013/SecondHand-Shop/internal/repo"
	"github.com/jeongwook5013/SecondHand-Shop/internal/search"
	"github.com/jeongwook5013/SecondHand-Shop/internal/transport"
	"github.com/jeongwook5013/SecondHand-Shop/internal/upload"
	"github.com/jeongwook5013/SecondHand-Shop/pkg/logging"
)

type CatalogService struct {
	Repo    *repo.GormRepo
	Uploads *upload.FileStore
	Index   *search.Indexer
	Events  *events.Producer
}

// Create resolves the seller by username and the category by id, both of
// which must exist, and persists a new product owned by the seller.
func (s *CatalogService) Create(ctx context.Context, req transport.CreateProductRequest, sellerUsername string) (*repo.ProductRow, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	if req.Title == "" {
		return nil, fmt.Errorf("title is required: %w", apperr.ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative: %w", apperr.ErrValidation)
	}

	seller, err := s.Repo.GetUserByUsername(ctx, sellerUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("seller %q does not exist: %w", sellerUsername, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("load seller: %v: %w", err, apperr.ErrStorage)
	}

	cat, err := s.Repo.GetCategory(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %d does not exist: %w", req.CategoryID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("load category: %v: %w", err, apperr.ErrStorage)
	}

	prod := models.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		CategoryID:  cat.ID,
		SellerID:    seller.ID,
	}
	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		l.Error("create_failed", "error", err)
		return nil, fmt.Errorf("create product: %v: %w", err, apperr.ErrStorage)
	}

	row := rowFromProduct(&prod, seller.Username, cat.Name)
	s.syncIndex(ctx, row)
	s.publish(ctx, seller.Username, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"title":     prod.Title,
	})

	l.Info("create_success", "product_id", prod.ID)
	return row, nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*repo.ProductRow, error) {
	row, err := s.Repo.GetProductRow(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("load product: %v: %w", err, apperr.ErrStorage)
	}
	return row, nil
}

func (s *CatalogService) List(ctx context.Context, offset, limit int) (int64, []repo.ProductRow, error) {
	total, rows, err := s.Repo.ListProductRows(ctx, offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("list products: %v: %w", err, apperr.ErrStorage)
	}
	return total, rows, nil
}

// Update overwrites title, description and price. Category and seller are
// not mutable through any exposed path.
func (s *CatalogService) Update(ctx context.Context, id uint, req transport.UpdateProductRequest, requestingUsername string) (*repo.ProductRow, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update", "product_id", id)

	if req.Title == "" {
		return nil, fmt.Errorf("title is required: %w", apperr.ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative: %w", apperr.ErrValidation)
	}

	prod, err := s.loadOwned(ctx, id, requestingUsername)
	if err != nil {
		return nil, err
	}

	prod.Title = req.Title
	prod.Description = req.Description
	prod.Price = req.Price
	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		l.Error("update_failed", "error", err)
		return nil, fmt.Errorf("save product: %v: %w", err, apperr.ErrStorage)
	}

	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.syncIndex(ctx, row)
	s.publish(ctx, requestingUsername, map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"title":     prod.Title,
	})

	l.Info("update_success")
	return row, nil
}

// Delete removes the product permanently. The stored image file is removed
// best effort and never fails the operation.
func (s *CatalogService) Delete(ctx context.Context, id uint, requestingUsername string) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete", "product_id", id)

	prod, err := s.loadOwned(ctx, id, requestingUsername)
	if err != nil {
		return err
	}

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %d: %w", id, apperr.ErrNotFound)
		}
		l.Error("delete_failed", "error", err)
		return fmt.Errorf("delete product: %v: %w", err, apperr.ErrStorage)
	}

	if prod.ImageURL != "" && s.Uploads != nil {
		s.Uploads.DeleteImage(ctx, prod.ImageURL)
	}
	if err := s.Index.DeleteProduct(ctx, id); err != nil {
		l.Warn("index delete failed", "error", err)
	}
	s.publish(ctx, requestingUsername, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	l.Info("delete_success")
	return nil
}

// Search uses the Elasticsearch index when configured and falls back to
// the SQL search otherwise.
func (s *CatalogService) Search(ctx context.Context, q string, offset, limit int) (int64, []repo.ProductRow, error) {
	if s.Index == nil {
		total, rows, err := s.Repo.SearchProductRows(ctx, q, offset, limit)
		if err != nil {
			return 0, nil, fmt.Errorf("search products: %v: %w", err, apperr.ErrStorage)
		}
		return total, rows, nil
	}

	ids, total, err := s.Index.SearchIDs(ctx, q, offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("search index: %v: %w", err, apperr.ErrStorage)
	}
	rows, err := s.Repo.GetProductRowsByIDs(ctx, ids)
	if err != nil {
		return 0, nil, fmt.Errorf("load search results: %v: %w", err, apperr.ErrStorage)
	}
	return total, rows, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	cats, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %v: %w", err, apperr.ErrStorage)
	}
	return cats, nil
}

// loadOwned loads the product and enforces that the requesting user is its
// seller. Ownership violations are their own error kind, distinct from bad
// input.
func (s *CatalogService) loadOwned(ctx context.Context, id uint, requestingUsername string) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("load product: %v: %w", err, apperr.ErrStorage)
	}

	seller, err := s.Repo.GetUserByID(ctx, prod.SellerID)
	if err != nil {
		return nil, fmt.Errorf("load seller: %v: %w", err, apperr.ErrStorage)
	}
	if seller.Username != requestingUsername {
		return nil, fmt.Errorf("product %d belongs to another seller: %w", id, apperr.ErrForbidden)
	}
	return prod, nil
}

func (s *CatalogService) syncIndex(ctx context.Context, row *repo.ProductRow) {
	if err := s.Index.IndexProduct(ctx, *row); err != nil {
		logging.FromContext(ctx).Warn("index update failed", "product_id", row.ID, "error", err)
	}
}

func (s *CatalogService) publish(ctx context.Context, key string, event map[string]any) {
	if err := s.Events.Publish(ctx, key, event); err != nil {
		logging.FromContext(ctx).Warn("event publish failed", "error", err)
	}
}

func rowFromProduct(p *models.Product, sellerUsername, categoryName string) *repo.ProductRow {
	return &repo.ProductRow{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		Price:          p.Price,
		Location:       p.Location,
		ImageURL:       p.ImageURL,
		SellerUsername: sellerUsername,
		CategoryName:   categoryName,
		CreatedAt:      p.CreatedAt,
	}
}
