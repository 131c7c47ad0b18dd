package catalog

import (
	"context"
	"time"

	orderRepo "astrodesk/database/repository/order"
	productRepo "astrodesk/database/repository/product"
	"astrodesk/models"
	"astrodesk/services/auth"
	"astrodesk/services/storage"

	"go.uber.org/zap"
)

// Asset folders inside the configured store.
const (
	imageFolder    = "products/images"
	documentFolder = "products/files"
)

// CatalogService covers the public shop and the product administration behind the
// shared admin password.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]models.ProductView, error)
	GetProduct(ctx context.Context, id string) (*models.ProductView, error)
	CreateOrder(ctx context.Context, req models.OrderRequest) (*models.OrderConfirmation, error)

	VerifyAdmin(password string) error
	CreateProduct(ctx context.Context, input models.ProductInput, password string) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, update models.ProductUpdate) (*models.ProductView, error)
	DeleteProduct(ctx context.Context, id, password string) error
}

// Notifier receives an order once it is stored.
type Notifier interface {
	OrderPlaced(ctx context.Context, o models.Order, downloadLink string)
}

// DefaultCatalogService implements CatalogService.
type DefaultCatalogService struct {
	Products productRepo.ProductRepository
	Orders   orderRepo.OrderRepository
	Assets   storage.AssetStore
	Verifier auth.CredentialVerifier
	Notifier Notifier
	Cache    ListingCache
	Logger   *zap.Logger

	// UploadTimeout bounds each asset upload; zero keeps the request deadline.
	UploadTimeout time.Duration
}

func NewDefaultCatalogService(
	products productRepo.ProductRepository,
	orders orderRepo.OrderRepository,
	assets storage.AssetStore,
	verifier auth.CredentialVerifier,
	notifier Notifier,
	cache ListingCache,
	logger *zap.Logger,
) *DefaultCatalogService {
	if cache == nil {
		cache = NoopListingCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultCatalogService{
		Products: products,
		Orders:   orders,
		Assets:   assets,
		Verifier: verifier,
		Notifier: notifier,
		Cache:    cache,
		Logger:   logger,
	}
}
