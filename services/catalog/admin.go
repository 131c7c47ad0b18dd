package catalog

import (
	"context"
	"errors"
	"math"
	"strings"

	"astrodesk/database"
	"astrodesk/models"
	"astrodesk/services/storage"
	"astrodesk/utils"

	"go.uber.org/zap"
)

const msgBadPassword = "Invalid admin password"

// VerifyAdmin checks the shared admin password.
func (s *DefaultCatalogService) VerifyAdmin(password string) error {
	if s.Verifier == nil || !s.Verifier.Verify(password) {
		return utils.Unauthorized(msgBadPassword)
	}
	return nil
}

// CreateProduct uploads the cover image publicly and the document privately, then
// stores the product. Assets sent as pre-uploaded references are stored as given.
func (s *DefaultCatalogService) CreateProduct(ctx context.Context, input models.ProductInput, password string) (*models.Product, error) {
	if err := s.VerifyAdmin(password); err != nil {
		s.Logger.Warn("Rejected product creation with bad admin password")
		return nil, err
	}
	if err := validateProductFields(input.Title, input.Price); err != nil {
		return nil, err
	}
	if input.Image == nil && input.ImageURL == "" {
		return nil, utils.InvalidInput("An image file or image_url is required")
	}
	if input.Document == nil && input.DownloadRef == "" {
		return nil, utils.InvalidInput("A pdf file or pdf_public_id is required")
	}

	product := &models.Product{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Category:    categoryOrDefault(input.Category),
		ImageURL:    input.ImageURL,
		DownloadRef: input.DownloadRef,
	}

	if input.Image != nil {
		stored, err := s.upload(ctx, imageFolder, input.Image, storage.Public)
		if err != nil {
			return nil, utils.Upstream("Failed to upload image", err)
		}
		product.ImageURL = stored.URL
	}
	if input.Document != nil {
		stored, err := s.upload(ctx, documentFolder, input.Document, storage.Private)
		if err != nil {
			return nil, utils.Upstream("Failed to upload document", err)
		}
		product.DownloadRef = stored.Ref
	}

	id, err := s.Products.Create(ctx, product)
	if err != nil {
		return nil, utils.Upstream("Failed to save product", err)
	}
	s.invalidateListing(ctx)

	s.Logger.Info("Product created", zap.String("product_id", id), zap.String("title", product.Title))
	return product, nil
}

// UpdateProduct changes metadata only. Orders keep the amount they were placed with.
func (s *DefaultCatalogService) UpdateProduct(ctx context.Context, id string, update models.ProductUpdate) (*models.ProductView, error) {
	if err := s.VerifyAdmin(update.Password); err != nil {
		return nil, err
	}
	if err := validateProductFields(update.Title, update.Price); err != nil {
		return nil, err
	}
	product, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Title = strings.TrimSpace(update.Title)
	product.Description = strings.TrimSpace(update.Description)
	product.Price = update.Price
	product.Category = categoryOrDefault(update.Category)

	if err := s.Products.Update(ctx, product); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NotFound("Product not found")
		}
		return nil, utils.Upstream("Failed to update product", err)
	}
	s.invalidateListing(ctx)

	view := product.View()
	return &view, nil
}

// DeleteProduct removes the record. Uploaded assets stay where they are so that links
// already mailed keep working.
func (s *DefaultCatalogService) DeleteProduct(ctx context.Context, id, password string) error {
	if err := s.VerifyAdmin(password); err != nil {
		return err
	}
	if err := s.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return utils.NotFound("Product not found")
		}
		return utils.Upstream("Failed to delete product", err)
	}
	s.invalidateListing(ctx)
	s.Logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

func (s *DefaultCatalogService) upload(ctx context.Context, folder string, f *models.Upload, vis storage.Visibility) (storage.StoredObject, error) {
	if s.Assets == nil {
		return storage.StoredObject{}, errors.New("no asset store configured")
	}
	if s.UploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.UploadTimeout)
		defer cancel()
	}
	return s.Assets.Upload(ctx, storage.Object{
		Folder:      folder,
		Name:        f.Filename,
		ContentType: f.ContentType,
		Size:        f.Size,
		Body:        f.Body,
		Visibility:  vis,
	})
}

func validateProductFields(title string, price float64) error {
	if strings.TrimSpace(title) == "" {
		return utils.InvalidInput("Title is required")
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return utils.InvalidInput("Price must be a non-negative number")
	}
	return nil
}

func categoryOrDefault(c string) string {
	if c = strings.TrimSpace(c); c != "" {
		return c
	}
	return models.DefaultProductCategory
}
