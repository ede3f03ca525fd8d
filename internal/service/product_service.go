// Package service implements the product business operations on top of
// an injected store.ProductStore.
package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventory/internal/apperr"
	"inventory/internal/models"
	"inventory/internal/store"
)

// ProductService mediates between controllers and the product store.
// It performs data shaping and partial-failure aggregation only; input
// validation belongs to the layers around it.
type ProductService struct {
	store store.ProductStore
}

func NewProductService(s store.ProductStore) *ProductService {
	return &ProductService{store: s}
}

// CreateProduct persists a new product and returns it with its
// assigned id.
func (s *ProductService) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	return s.store.Create(ctx, &product)
}

// QueryProducts returns one page of products matching filter and the
// query options. An empty page is a valid result, not a failure.
func (s *ProductService) QueryProducts(ctx context.Context, filter bson.M, opts store.QueryOptions) (*store.PageResult, error) {
	return s.store.Paginate(ctx, filter, opts)
}

// GetProductByID returns the product, or nil without an error when no
// product has the given id.
func (s *ProductService) GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.store.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProductByID overwrites only the fields present in update onto
// the stored product and returns the result. Read-then-write: two
// concurrent updates to the same id race and the last writer wins.
func (s *ProductService) UpdateProductByID(ctx context.Context, id primitive.ObjectID, update models.ProductUpdate) (*models.Product, error) {
	product, err := s.store.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}

	applyUpdate(product, update)

	if err := s.store.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProductByID removes the product and returns its last known
// state.
func (s *ProductService) DeleteProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.store.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetAllProducts returns every product, unpaginated.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.FindAll(ctx)
}

// BulkUpdateProducts applies price/cost/stockQuantity updates as one
// unordered batch and returns the current state of every product whose
// id appeared in the input, in no guaranteed order. Ids that match
// nothing are silently absent from the result; individually failed
// updates come back reflecting the store's unchanged state.
func (s *ProductService) BulkUpdateProducts(ctx context.Context, updates []models.BulkStockUpdate) ([]models.Product, error) {
	ids := make([]primitive.ObjectID, 0, len(updates))
	ops := make([]store.SetOp, 0, len(updates))

	for _, u := range updates {
		ids = append(ids, u.ID)

		fields := bson.M{}
		if u.Price != nil {
			fields["price"] = *u.Price
		}
		if u.Cost != nil {
			fields["cost"] = *u.Cost
		}
		if u.StockQuantity != nil {
			fields["stockQuantity"] = *u.StockQuantity
		}
		if len(fields) == 0 {
			continue
		}
		ops = append(ops, store.SetOp{ID: u.ID, Fields: fields})
	}

	if len(ops) > 0 {
		if err := s.store.BulkSetFields(ctx, ops); err != nil {
			return nil, err
		}
	}

	return s.store.FindByIDs(ctx, ids)
}

// BulkAddProducts shapes the raw import records and inserts them as one
// unordered batch. Records that fail individually, either because a
// numeric field cannot be coerced or because the store rejects the
// write, are reported in the result with their input index; the batch
// still counts as a success. Batch-level failures propagate.
func (s *ProductService) BulkAddProducts(ctx context.Context, rows []models.ProductImport) (*models.BulkImportResult, error) {
	shaped := make([]models.Product, 0, len(rows))
	sourceIndex := make([]int, 0, len(rows))
	var importErrors []models.ImportError

	for i, row := range rows {
		product, err := shapeImportRow(row)
		if err != nil {
			importErrors = append(importErrors, models.ImportError{Index: i, Error: err.Error()})
			continue
		}
		shaped = append(shaped, product)
		sourceIndex = append(sourceIndex, i)
	}

	outcome, err := s.store.InsertMany(ctx, shaped)
	if err != nil {
		return nil, err
	}

	for _, failure := range outcome.Failures {
		importErrors = append(importErrors, models.ImportError{
			Index: sourceIndex[failure.Index],
			Error: failure.Message,
		})
	}

	result := &models.BulkImportResult{
		Success:       true,
		InsertedCount: len(outcome.Inserted),
		Products:      outcome.Inserted,
	}
	if len(importErrors) > 0 {
		result.Errors = importErrors
	}
	return result, nil
}

// applyUpdate shallow-merges the present fields onto product.
func applyUpdate(product *models.Product, update models.ProductUpdate) {
	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Barcode != nil {
		product.Barcode = update.Barcode
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Cost != nil {
		product.Cost = *update.Cost
	}
	if update.StockQuantity != nil {
		product.StockQuantity = *update.StockQuantity
	}
	if update.Unit != nil {
		product.Unit = *update.Unit
	}
	if update.SKU != nil {
		product.SKU = *update.SKU
	}
	if update.Category != nil {
		product.Category = *update.Category
	}
	if update.Categories != nil {
		product.Categories = models.StringList(*update.Categories)
	}
	if update.Supplier != nil {
		product.Supplier = update.Supplier
	}
	if update.LowStockThreshold != nil {
		product.LowStockThreshold = update.LowStockThreshold
	}
}
