package catalog

import (
	"context"
	"errors"

	"astrodesk/database"
	"astrodesk/models"
	"astrodesk/utils"

	"go.uber.org/zap"
)

// ListProducts returns the public views of every product. The download reference is
// never part of the result.
func (s *DefaultCatalogService) ListProducts(ctx context.Context) ([]models.ProductView, error) {
	if cached, ok, err := s.Cache.Get(ctx); err != nil {
		s.Logger.Warn("Product listing cache read failed", zap.Error(err))
	} else if ok {
		return cached, nil
	}

	products, err := s.Products.List(ctx)
	if err != nil {
		return nil, utils.Upstream("Failed to list products", err)
	}
	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, p.View())
	}

	if err := s.Cache.Set(ctx, views); err != nil {
		s.Logger.Warn("Product listing cache write failed", zap.Error(err))
	}
	return views, nil
}

func (s *DefaultCatalogService) GetProduct(ctx context.Context, id string) (*models.ProductView, error) {
	p, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	view := p.View()
	return &view, nil
}

func (s *DefaultCatalogService) lookup(ctx context.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, utils.NotFound("Product not found")
	}
	p, err := s.Products.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, utils.NotFound("Product not found")
	}
	if err != nil {
		return nil, utils.Upstream("Failed to load product", err)
	}
	return p, nil
}

func (s *DefaultCatalogService) invalidateListing(ctx context.Context) {
	if err := s.Cache.Invalidate(ctx); err != nil {
		s.Logger.Warn("Product listing cache invalidation failed", zap.Error(err))
	}
}
