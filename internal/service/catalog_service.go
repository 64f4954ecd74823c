package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// CatalogStore is the persistence surface the catalog needs.
type CatalogStore interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	CreateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// Snapshotter caches the product list outside the primary store.
type Snapshotter interface {
	SaveSnapshot(ctx context.Context, products []models.Product) error
	LoadSnapshot(ctx context.Context) ([]models.Product, error)
}

// CatalogService holds the in-memory catalog and keeps it in step with the
// store. Mutations apply locally only after the remote write is confirmed;
// a failed write leaves local state untouched and is returned to the
// caller.
type CatalogService struct {
	store    CatalogStore
	snapshot Snapshotter
	logger   *zap.Logger

	mu         sync.RWMutex
	products   []models.Product
	categories []models.Category
}

// NewCatalogService creates a catalog service. snapshot may be nil; the
// fallback chain then goes straight to the seed.
func NewCatalogService(store CatalogStore, snapshot Snapshotter) *CatalogService {
	return &CatalogService{
		store:    store,
		snapshot: snapshot,
		logger:   util.GetLogger(),
	}
}

// Init loads categories and products from the store. Read failures are
// logged and leave the corresponding state empty; callers are never blocked
// on a fetch error. A store with zero products falls back to the snapshot,
// then to the seed. Categories have no fallback.
func (cs *CatalogService) Init(ctx context.Context) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Init")
	defer span.End()

	categories, err := cs.store.GetCategories(ctx)
	if err != nil {
		cs.logger.Error("Failed to load categories", zap.Error(err))
		categories = nil
	}

	products, err := cs.store.GetProducts(ctx)
	if err != nil {
		cs.logger.Error("Failed to load products", zap.Error(err))
		products = nil
	}
	if len(products) == 0 {
		products = cs.loadFallback(ctx)
	}

	cs.mu.Lock()
	cs.categories = categories
	cs.products = products
	cs.mu.Unlock()

	cs.logger.Info("Catalog initialized",
		zap.Int("products", len(products)),
		zap.Int("categories", len(categories)))
}

func (cs *CatalogService) loadFallback(ctx context.Context) []models.Product {
	if cs.snapshot != nil {
		cached, err := cs.snapshot.LoadSnapshot(ctx)
		if err != nil {
			cs.logger.Warn("Snapshot load failed", zap.Error(err))
		} else if len(cached) > 0 {
			util.CatalogFallbacksTotal.WithLabelValues("snapshot").Inc()
			return cached
		}
	}
	util.CatalogFallbacksTotal.WithLabelValues("seed").Inc()
	return SeedCatalog()
}

// Products returns a copy of the product list, newest first.
func (cs *CatalogService) Products() []models.Product {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make([]models.Product, len(cs.products))
	copy(out, cs.products)
	return out
}

// Categories returns a copy of the category list.
func (cs *CatalogService) Categories() []models.Category {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make([]models.Category, len(cs.categories))
	copy(out, cs.categories)
	return out
}

// ProductByID looks a product up in the in-memory catalog.
func (cs *CatalogService) ProductByID(id string) (models.Product, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	for _, p := range cs.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// FilterProducts returns the products matching the category slug. An empty
// slug or "all" returns everything; a slug with no matches (including one
// orphaned by a category deletion) yields an empty set, not an error.
func (cs *CatalogService) FilterProducts(slug string) []models.Product {
	if slug == "" || slug == "all" {
		return cs.Products()
	}
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make([]models.Product, 0)
	for _, p := range cs.products {
		if p.Category == slug {
			out = append(out, p)
		}
	}
	return out
}

// ProductDraft carries the admin form for a new product.
type ProductDraft struct {
	Name            string   `json:"name" binding:"required"`
	Category        string   `json:"category" binding:"required"`
	Price           int64    `json:"price" binding:"required,gt=0"`
	Description     string   `json:"description"`
	Images          []string `json:"images"`
	Details         []string `json:"details"`
	RealizationTime string   `json:"realizationTime"`
	WaitingTime     string   `json:"waitingTime"`
}

// AddProduct assigns an id from the creation timestamp, persists the
// product, and appends it locally once the write has succeeded.
func (cs *CatalogService) AddProduct(ctx context.Context, draft ProductDraft) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.AddProduct")
	defer span.End()

	if len(draft.Images) > 4 {
		return nil, fmt.Errorf("a product carries at most 4 images, got %d", len(draft.Images))
	}

	product := &models.Product{
		ID:              strconv.FormatInt(time.Now().UnixMilli(), 10),
		Name:            draft.Name,
		Category:        draft.Category,
		Price:           draft.Price,
		Description:     draft.Description,
		Images:          draft.Images,
		Details:         draft.Details,
		RealizationTime: draft.RealizationTime,
		WaitingTime:     draft.WaitingTime,
	}

	if err := cs.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	cs.mu.Lock()
	cs.products = append([]models.Product{*product}, cs.products...)
	cs.mu.Unlock()

	util.CatalogMutationsTotal.WithLabelValues("add_product").Inc()
	cs.logger.Info("Product added", zap.String("product_id", product.ID))
	cs.refreshSnapshot(ctx)
	return product, nil
}

// DeleteProduct removes exactly the one product with the given id, locally
// only after the remote delete succeeded.
func (cs *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteProduct")
	defer span.End()

	if err := cs.store.DeleteProduct(ctx, id); err != nil {
		return err
	}

	cs.mu.Lock()
	kept := cs.products[:0]
	for _, p := range cs.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	cs.products = kept
	cs.mu.Unlock()

	util.CatalogMutationsTotal.WithLabelValues("delete_product").Inc()
	cs.logger.Info("Product deleted", zap.String("product_id", id))
	cs.refreshSnapshot(ctx)
	return nil
}

// Slugify derives a category slug: lowercase, spaces to hyphens.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// AddCategory derives the slug from the name, persists the category, and
// appends it locally on success.
func (cs *CatalogService) AddCategory(ctx context.Context, name string) (*models.Category, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.AddCategory")
	defer span.End()

	category := &models.Category{
		ID:   fmt.Sprintf("cat-%d", time.Now().UnixMilli()),
		Name: name,
		Slug: Slugify(name),
	}

	if err := cs.store.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	cs.mu.Lock()
	cs.categories = append(cs.categories, *category)
	cs.mu.Unlock()

	util.CatalogMutationsTotal.WithLabelValues("add_category").Inc()
	cs.logger.Info("Category added", zap.String("category_id", category.ID), zap.String("slug", category.Slug))
	return category, nil
}

// DeleteCategory removes a category remotely and locally. Products
// referencing its slug are never touched; rendering falls back to the raw
// slug string.
func (cs *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteCategory")
	defer span.End()

	if err := cs.store.DeleteCategory(ctx, id); err != nil {
		return err
	}

	cs.mu.Lock()
	kept := cs.categories[:0]
	for _, c := range cs.categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	cs.categories = kept
	cs.mu.Unlock()

	util.CatalogMutationsTotal.WithLabelValues("delete_category").Inc()
	cs.logger.Info("Category deleted", zap.String("category_id", id))
	return nil
}

// refreshSnapshot rewrites the cached product list, best effort.
func (cs *CatalogService) refreshSnapshot(ctx context.Context) {
	if cs.snapshot == nil {
		return
	}
	if err := cs.snapshot.SaveSnapshot(ctx, cs.Products()); err != nil {
		cs.logger.Warn("Snapshot refresh failed", zap.Error(err))
	}
}
