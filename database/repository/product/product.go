package productRepo

import (
	"context"
	"time"

	"astrodesk/database"
	"astrodesk/models"

	"github.com/google/uuid"
)

const collectionName = "products"

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) (string, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

type productRepo struct {
	coll database.Collection[models.Product]
}

func NewProductRepo(b database.Backend) ProductRepository {
	return &productRepo{coll: database.NewCollection[models.Product](b, collectionName)}
}

// Create inserts a new product and returns its ID.
func (r *productRepo) Create(ctx context.Context, product *models.Product) (string, error) {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	if err := r.coll.Insert(ctx, product.ID, *product); err != nil {
		return "", err
	}
	return product.ID, nil
}

// GetByID returns database.ErrNotFound for unknown ids.
func (r *productRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := r.coll.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) List(ctx context.Context) ([]models.Product, error) {
	return r.coll.List(ctx)
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now().UTC()
	return r.coll.Replace(ctx, product.ID, *product)
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}
