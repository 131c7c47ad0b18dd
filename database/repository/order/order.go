package orderRepo

import (
	"context"
	"time"

	"astrodesk/database"
	"astrodesk/models"

	"github.com/google/uuid"
)

const collectionName = "orders"

// OrderRepository is append-only: orders are an audit trail.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) (string, error)
	// ListByProduct has no HTTP route; orders are never read back by the API.
	ListByProduct(ctx context.Context, productID string) ([]models.Order, error)
}

type orderRepo struct {
	coll database.Collection[models.Order]
}

func NewOrderRepo(b database.Backend) OrderRepository {
	return &orderRepo{coll: database.NewCollection[models.Order](b, collectionName)}
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) (string, error) {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	if err := r.coll.Insert(ctx, order.ID, *order); err != nil {
		return "", err
	}
	return order.ID, nil
}

func (r *orderRepo) ListByProduct(ctx context.Context, productID string) ([]models.Order, error) {
	return r.coll.FindEqual(ctx, "product_id", productID, 0)
}
