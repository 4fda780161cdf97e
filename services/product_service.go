package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"lager_server/database"
	"lager_server/lib"
	"lager_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// ProductRepository is the storage contract of produkter. Lookups of a missing
// product return nil without an error; updates of a missing product return
// lib.ErrNotFound.
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*tables.Product, error)
	FindByEAN(ctx context.Context, ean string) (*tables.Product, error)
	ListAll(ctx context.Context) ([]tables.Product, error)
	FindByTagsAny(ctx context.Context, terms []string) ([]tables.Product, error)
	UpsertByEAN(ctx context.Context, ean, name, desc string, image *string, tags []string) (int64, error)
	UpdateQuantityDelta(ctx context.Context, id, delta int64) error
	UpdateQuantityAbsolute(ctx context.Context, id, qty int64) error
	UpdateImage(ctx context.Context, id int64, path string) error
	UpdateFields(ctx context.Context, id int64, ean, name, desc string, tags []string) error
	Delete(ctx context.Context, id int64) error
}

type ProductService struct {
	logger       *gecho.Logger
	db           *database.DB
	cacheService *CacheService
}

var _ ProductRepository = (*ProductService)(nil)

func NewProductService(logger *gecho.Logger, db *database.DB, cacheService *CacheService) *ProductService {
	return &ProductService{
		logger:       logger,
		db:           db,
		cacheService: cacheService,
	}
}

// FindByID consults the cache before the database.
func (ps *ProductService) FindByID(ctx context.Context, id int64) (*tables.Product, error) {
	cached, err := ps.cacheService.GetProduct(ctx, id)
	if err != nil {
		ps.logger.Warn("Failed to get product from cache", gecho.Field("error", err), gecho.Field("id", id))
	} else if cached != nil {
		return cached, nil
	}

	qctx, cancel := ps.db.WithTimeout(ctx)
	defer cancel()

	product := new(tables.Product)
	if err := ps.selectByID(product, id).Scan(qctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}

	ps.cache(ctx, product)
	return product, nil
}

func (ps *ProductService) FindByEAN(ctx context.Context, ean string) (*tables.Product, error) {
	if id, err := ps.cacheService.GetProductIDByEAN(ctx, ean); err != nil {
		ps.logger.Warn("Failed to get product from cache", gecho.Field("error", err), gecho.Field("ean", ean))
	} else if id != 0 {
		if cached, err := ps.cacheService.GetProduct(ctx, id); err == nil && cached != nil && cached.EAN == ean {
			return cached, nil
		}
	}

	qctx, cancel := ps.db.WithTimeout(ctx)
	defer cancel()

	product := new(tables.Product)
	if err := ps.selectByEAN(product, ean).Scan(qctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch product by ean: %w", err)
	}

	ps.cache(ctx, product)
	return product, nil
}

func (ps *ProductService) ListAll(ctx context.Context) ([]tables.Product, error) {
	qctx, cancel := ps.db.WithTimeout(ctx)
	defer cancel()

	products := make([]tables.Product, 0)
	if err := ps.selectAll(&products).Scan(qctx); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	ps.logger.Debug("Products fetched successfully", gecho.Field("count", len(products)))
	return products, nil
}

// FindByTagsAny returns products sharing at least one tag with terms.
func (ps *ProductService) FindByTagsAny(ctx context.Context, terms []string) ([]tables.Product, error) {
	qctx, cancel := ps.db.WithTimeout(ctx)
	defer cancel()

	products := make([]tables.Product, 0)
	if err := ps.selectByTags(&products, terms).Scan(qctx); err != nil {
		return nil, fmt.Errorf("failed to search products by tags: %w", err)
	}
	return products, nil
}

// UpsertByEAN inserts a product or merges into the one holding ean. A nil image
// and an empty tag list keep the stored values; stock is never touched.
func (ps *ProductService) UpsertByEAN(ctx context.Context, ean, name, desc string, image *string, tags []string) (int64, error) {
	if tags == nil {
		tags = []string{}
	}
	product := &tables.Product{
		EAN:         ean,
		Name:        name,
		Description: desc,
		Image:       image,
		Tags:        tags,
	}

	qctx, cancel := ps.db.WithTimeout(ctx)
	defer cancel()

	if _, err := ps.upsertQuery(product).Exec(qctx); err != nil {
		return 0, fmt.Errorf("failed to upsert product: %w", lib.MapPgError(err))
	}

	ps.invalidate(ctx, product.ID, ean)
	ps.logger.Info("Product saved", gecho.Field("id", product.ID), gecho.Field("ean", ean))
	return product.ID, nil
}

// UpdateQuantityDelta adds delta to the stock without a lower bound.
func (ps *ProductService) UpdateQuantityDelta(ctx context.Context, id, delta int64) error {
	if err := ps.execUpdate(ctx, ps.quantityDeltaQuery(id, delta)); err != nil {
		return err
	}
	ps.invalidate(ctx, id, "")
	return nil
}

// UpdateQuantityAbsolute stores qty, raised to zero when negative.
func (ps *ProductService) UpdateQuantityAbsolute(ctx context.Context, id, qty int64) error {
	if err := ps.execUpdate(ctx, ps.quantityAbsoluteQuery(id, qty)); err != nil {
		return err
	}
	ps.invalidate(ctx, id, "")
	return nil
}

func (ps *ProductService) UpdateImage(ctx context.Context, id int64, path string) error {
	if err := ps.execUpdate(ctx, ps.imageQuery(id, path)); err != nil {
		return err
	}
	ps.invalidate(ctx, id, "")
	return nil
}

// UpdateFields rewrites ean, name and description. Tags are replaced unless nil.
func (ps *ProductService) UpdateFields(ctx context.Context, id int64, ean, name, desc string, tags []string) error {
	if err := ps.execUpdate(ctx, ps.fieldsQuery(id, ean, name, desc, tags)); err != nil {
		return err
	}
	ps.invalidate(ctx, id, ean)
	return nil
}

// Delete removes the product. Deleting a missing product is not an error.
func (ps *ProductService) Delete(ctx context.Context, id int64) error {
	qctx, cancel := ps.db.WithTimeout(ctx)
	defer cancel()

	if _, err := ps.deleteQuery(id).Exec(qctx); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, lib.MapPgError(err))
	}

	ps.invalidate(ctx, id, "")
	ps.logger.Info("Product deleted", gecho.Field("id", id))
	return nil
}

func (ps *ProductService) execUpdate(ctx context.Context, q *bun.UpdateQuery) error {
	qctx, cancel := ps.db.WithTimeout(ctx)
	defer cancel()

	res, err := q.Exec(qctx)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", lib.MapPgError(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return lib.ErrNotFound
	}
	return nil
}

func (ps *ProductService) cache(ctx context.Context, product *tables.Product) {
	if err := ps.cacheService.SetProduct(ctx, product); err != nil {
		ps.logger.Warn("Failed to cache product", gecho.Field("error", err), gecho.Field("id", product.ID))
	}
}

func (ps *ProductService) invalidate(ctx context.Context, id int64, ean string) {
	if err := ps.cacheService.InvalidateProduct(ctx, id, ean); err != nil {
		ps.logger.Warn("Failed to invalidate product cache", gecho.Field("error", err), gecho.Field("id", id))
	}
}

// ============================================================================
// Query builders
// ============================================================================

func (ps *ProductService) selectByID(product *tables.Product, id int64) *bun.SelectQuery {
	return ps.db.NewSelect().Model(product).Where("p.product_id = ?", id).Limit(1)
}

func (ps *ProductService) selectByEAN(product *tables.Product, ean string) *bun.SelectQuery {
	return ps.db.NewSelect().Model(product).Where("p.product_ean = ?", ean).Limit(1)
}

func (ps *ProductService) selectAll(products *[]tables.Product) *bun.SelectQuery {
	return ps.db.NewSelect().Model(products).Order("p.product_id ASC")
}

func (ps *ProductService) selectByTags(products *[]tables.Product, terms []string) *bun.SelectQuery {
	return ps.db.NewSelect().
		Model(products).
		Where("p.tags && ?::text[]", pgdialect.Array(terms)).
		Order("p.product_id ASC")
}

func (ps *ProductService) upsertQuery(product *tables.Product) *bun.InsertQuery {
	return ps.db.NewInsert().
		Model(product).
		Column("product_ean", "product_name", "product_desc", "product_image", "tags").
		On("CONFLICT (product_ean) DO UPDATE").
		Set("product_name = EXCLUDED.product_name").
		Set("product_desc = EXCLUDED.product_desc").
		Set("product_image = COALESCE(EXCLUDED.product_image, ?TableAlias.product_image)").
		Set("tags = COALESCE(NULLIF(EXCLUDED.tags, '{}'::text[]), ?TableAlias.tags)").
		Returning("product_id")
}

func (ps *ProductService) quantityDeltaQuery(id, delta int64) *bun.UpdateQuery {
	return ps.db.NewUpdate().
		Model((*tables.Product)(nil)).
		Set("stock_qty = stock_qty + ?", delta).
		Where("product_id = ?", id)
}

func (ps *ProductService) quantityAbsoluteQuery(id, qty int64) *bun.UpdateQuery {
	return ps.db.NewUpdate().
		Model((*tables.Product)(nil)).
		Set("stock_qty = ?", max(qty, 0)).
		Where("product_id = ?", id)
}

func (ps *ProductService) imageQuery(id int64, path string) *bun.UpdateQuery {
	return ps.db.NewUpdate().
		Model((*tables.Product)(nil)).
		Set("product_image = ?", path).
		Where("product_id = ?", id)
}

func (ps *ProductService) fieldsQuery(id int64, ean, name, desc string, tags []string) *bun.UpdateQuery {
	q := ps.db.NewUpdate().
		Model((*tables.Product)(nil)).
		Set("product_ean = ?", ean).
		Set("product_name = ?", name).
		Set("product_desc = ?", desc)
	if tags != nil {
		q = q.Set("tags = ?::text[]", pgdialect.Array(tags))
	}
	return q.Where("product_id = ?", id)
}

func (ps *ProductService) deleteQuery(id int64) *bun.DeleteQuery {
	return ps.db.NewDelete().
		Model((*tables.Product)(nil)).
		Where("product_id = ?", id)
}
