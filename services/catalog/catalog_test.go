package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"astrodesk/database"
	orderRepo "astrodesk/database/repository/order"
	productRepo "astrodesk/database/repository/product"
	"astrodesk/models"
	"astrodesk/services/auth"
	"astrodesk/services/storage"
	"astrodesk/services/storage/mocks"
	"astrodesk/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"
)

const adminPassword = "letmein"

type placedOrder struct {
	order models.Order
	link  string
}

type recordingNotifier struct {
	mu     sync.Mutex
	orders []placedOrder
}

func (n *recordingNotifier) OrderPlaced(_ context.Context, o models.Order, link string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, placedOrder{o, link})
}

type memoryCache struct {
	views       []models.ProductView
	ok          bool
	invalidated int
}

func (c *memoryCache) Get(context.Context) ([]models.ProductView, bool, error) { return c.views, c.ok, nil }
func (c *memoryCache) Set(_ context.Context, v []models.ProductView) error {
	c.views, c.ok = v, true
	return nil
}
func (c *memoryCache) Invalidate(context.Context) error {
	c.views, c.ok = nil, false
	c.invalidated++
	return nil
}

type fixture struct {
	svc      *DefaultCatalogService
	products productRepo.ProductRepository
	orders   orderRepo.OrderRepository
	assets   *mocks.MockAssetStore
	notifier *recordingNotifier
	cache    *memoryCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	backend := database.NewMemoryBackend()
	f := &fixture{
		products: productRepo.NewProductRepo(backend),
		orders:   orderRepo.NewOrderRepo(backend),
		assets:   mocks.NewMockAssetStore(ctrl),
		notifier: &recordingNotifier{},
		cache:    &memoryCache{},
	}
	f.assets.EXPECT().Name().Return("mock").AnyTimes()
	f.svc = NewDefaultCatalogService(
		f.products, f.orders, f.assets,
		auth.NewStaticPasswordVerifier(adminPassword),
		f.notifier, f.cache, zaptest.NewLogger(t),
	)
	return f
}

func (f *fixture) seedProduct(t *testing.T, price float64) *models.Product {
	t.Helper()
	p := &models.Product{
		Title:       "Moon Guide",
		Description: "Lunar cycles",
		Price:       price,
		Category:    "Guides",
		ImageURL:    "https://cdn.example.com/moon.png",
		DownloadRef: "products/files/moon.pdf",
	}
	_, err := f.products.Create(context.Background(), p)
	require.NoError(t, err)
	return p
}

func TestListProductsRedactsDownloadRef(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 19.99)

	views, err := f.svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, p.ID, views[0].ID)
	assert.Equal(t, 19.99, views[0].Price)
	assert.True(t, f.cache.ok, "listing cached")
}

func TestListProductsServedFromCache(t *testing.T) {
	f := newFixture(t)
	f.cache.views = []models.ProductView{{ID: "cached"}}
	f.cache.ok = true

	views, err := f.svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "cached", views[0].ID)
}

func TestGetProductUnknown(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetProduct(context.Background(), "missing")
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestCreateOrderUnknownProductWritesNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateOrder(context.Background(), models.OrderRequest{
		ProductID: "missing", PayPalOrderID: "PP-1", Email: "ben@example.com", Name: "Ben",
	})
	require.Error(t, err)
	assert.Equal(t, 404, utils.StatusCode(err))

	orders, err := f.orders.ListByProduct(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, f.notifier.orders)
}

func TestCreateOrderSnapshotsPriceAndTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, 25)

	f.assets.EXPECT().
		DownloadLink(gomock.Any(), "products/files/moon.pdf", "ben@example.com").
		Return("https://files.example.com/signed", nil)

	conf, err := f.svc.CreateOrder(ctx, models.OrderRequest{
		ProductID: p.ID, PayPalOrderID: "PP-1", Email: "ben@example.com", Name: "Ben",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/signed", conf.DownloadLink)

	// Later price edits must not touch the stored order.
	_, err = f.svc.UpdateProduct(ctx, p.ID, models.ProductUpdate{Title: "Moon Guide 2", Price: 99, Password: adminPassword})
	require.NoError(t, err)

	orders, err := f.orders.ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 25.0, orders[0].Amount)
	assert.Equal(t, "Moon Guide", orders[0].ProductTitle)
	assert.Equal(t, "PP-1", orders[0].PayPalOrderID)

	require.Len(t, f.notifier.orders, 1)
	assert.Equal(t, "https://files.example.com/signed", f.notifier.orders[0].link)
}

func TestCreateOrderLinkFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, 10)

	f.assets.EXPECT().DownloadLink(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("permission denied"))

	conf, err := f.svc.CreateOrder(context.Background(), models.OrderRequest{
		ProductID: p.ID, PayPalOrderID: "PP-2", Email: "ben@example.com", Name: "Ben",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, conf.OrderID)
	assert.Empty(t, conf.DownloadLink)

	orders, err := f.orders.ListByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	require.Len(t, f.notifier.orders, 1)
	assert.Empty(t, f.notifier.orders[0].link)
}

func TestCreateProductUnauthorizedWritesNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateProduct(context.Background(), models.ProductInput{
		Title: "X", Price: 1,
		Image:    &models.Upload{Filename: "a.png", Body: strings.NewReader("img")},
		Document: &models.Upload{Filename: "a.pdf", Body: strings.NewReader("pdf")},
	}, "wrong")
	require.Error(t, err)
	assert.Equal(t, 401, utils.StatusCode(err))

	all, err := f.products.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateProductUploadsAssets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.cache.ok = true

	gomock.InOrder(
		f.assets.EXPECT().
			Upload(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, obj storage.Object) (storage.StoredObject, error) {
				assert.Equal(t, storage.Public, obj.Visibility)
				assert.Equal(t, "products/images", obj.Folder)
				return storage.StoredObject{Ref: "img-ref", URL: "https://cdn.example.com/cover.png"}, nil
			}),
		f.assets.EXPECT().
			Upload(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, obj storage.Object) (storage.StoredObject, error) {
				assert.Equal(t, storage.Private, obj.Visibility)
				assert.Equal(t, "products/files", obj.Folder)
				assert.Equal(t, "guide.pdf", obj.Name)
				return storage.StoredObject{Ref: "products/files/guide"}, nil
			}),
	)

	p, err := f.svc.CreateProduct(ctx, models.ProductInput{
		Title:    "Guide",
		Price:    12.5,
		Image:    &models.Upload{Filename: "cover.png", ContentType: "image/png", Body: strings.NewReader("img")},
		Document: &models.Upload{Filename: "guide.pdf", ContentType: "application/pdf", Body: strings.NewReader("pdf")},
	}, adminPassword)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/cover.png", p.ImageURL)
	assert.Equal(t, "products/files/guide", p.DownloadRef)
	assert.Equal(t, models.DefaultProductCategory, p.Category)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, 1, f.cache.invalidated)

	stored, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "products/files/guide", stored.DownloadRef)
}

func TestCreateProductFromReferences(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.CreateProduct(context.Background(), models.ProductInput{
		Title: "Guide", Price: 0, Category: "Books",
		ImageURL: "https://cdn.example.com/c.png", DownloadRef: "guides/pdf-123",
	}, adminPassword)
	require.NoError(t, err)
	assert.Equal(t, "guides/pdf-123", p.DownloadRef)
	assert.Equal(t, "Books", p.Category)
}

func TestCreateProductUploadFailureWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.assets.EXPECT().Upload(gomock.Any(), gomock.Any()).Return(storage.StoredObject{}, errors.New("quota exceeded"))

	_, err := f.svc.CreateProduct(context.Background(), models.ProductInput{
		Title: "Guide", Price: 1,
		Image:       &models.Upload{Filename: "c.png", Body: strings.NewReader("img")},
		DownloadRef: "ref",
	}, adminPassword)
	require.Error(t, err)
	assert.Equal(t, 500, utils.StatusCode(err))

	all, err := f.products.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateProductValidation(t *testing.T) {
	tests := []struct {
		name  string
		input models.ProductInput
	}{
		{"missing title", models.ProductInput{Price: 1, ImageURL: "u", DownloadRef: "r"}},
		{"negative price", models.ProductInput{Title: "T", Price: -1, ImageURL: "u", DownloadRef: "r"}},
		{"missing image", models.ProductInput{Title: "T", Price: 1, DownloadRef: "r"}},
		{"missing document", models.ProductInput{Title: "T", Price: 1, ImageURL: "u"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.CreateProduct(context.Background(), tt.input, adminPassword)
			assert.True(t, utils.IsKind(err, utils.KindInvalidInput), "got %v", err)
		})
	}
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, 5)

	err := f.svc.DeleteProduct(ctx, p.ID, "wrong")
	assert.True(t, utils.IsKind(err, utils.KindUnauthorized))

	require.NoError(t, f.svc.DeleteProduct(ctx, p.ID, adminPassword))
	_, err = f.svc.GetProduct(ctx, p.ID)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	err = f.svc.DeleteProduct(ctx, p.ID, adminPassword)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestVerifyAdmin(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.svc.VerifyAdmin(adminPassword))
	assert.True(t, utils.IsKind(f.svc.VerifyAdmin(""), utils.KindUnauthorized))

	f.svc.Verifier = nil
	assert.Error(t, f.svc.VerifyAdmin(adminPassword))
}
