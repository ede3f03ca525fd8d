// Package store abstracts product persistence behind an interface so
// the service layer can be exercised against either MongoDB or the
// in-memory implementation.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventory/internal/models"
)

// ErrNotFound is returned by FindByID when no product matches the id.
var ErrNotFound = errors.New("product not found")

// QueryOptions controls a paginated query. SortBy uses the
// "field:asc|desc" form; Search, when set, is matched
// case-insensitively against FieldName (name when empty).
type QueryOptions struct {
	SortBy    string
	Limit     int64
	Page      int64
	Search    string
	FieldName string
}

// PageResult is one window of a paginated query.
type PageResult struct {
	Results      []models.Product `json:"results"`
	Page         int64            `json:"page"`
	Limit        int64            `json:"limit"`
	TotalPages   int64            `json:"totalPages"`
	TotalResults int64            `json:"totalResults"`
}

// SetOp describes a field-level $set against a single product.
type SetOp struct {
	ID     primitive.ObjectID
	Fields bson.M
}

type InsertFailure struct {
	Index   int
	Message string
}

// BatchInsertOutcome reports a batch insert that may have partially
// failed: Inserted holds the documents that made it in, Failures the
// per-document errors keyed by input position. It is returned, not
// thrown, so callers never have to introspect driver error shapes.
type BatchInsertOutcome struct {
	Inserted []models.Product
	Failures []InsertFailure
}

// ProductStore is the persistence contract for products.
type ProductStore interface {
	// Create persists a new product and returns it with its assigned id.
	Create(ctx context.Context, product *models.Product) (*models.Product, error)

	// FindByID returns the product or ErrNotFound.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)

	// Paginate applies filter, optional search, sort and windowing.
	Paginate(ctx context.Context, filter bson.M, opts QueryOptions) (*PageResult, error)

	// FindAll returns every product, unpaginated.
	FindAll(ctx context.Context) ([]models.Product, error)

	// FindByIDs returns the products matching any of the given ids, in
	// no guaranteed order. Missing ids are silently absent.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)

	// Save overwrites the stored document with the given entity.
	Save(ctx context.Context, product *models.Product) error

	// Delete removes the product.
	Delete(ctx context.Context, product *models.Product) error

	// BulkSetFields applies all set-operations as one unordered batch.
	// Individual write failures do not abort the batch and are not
	// reported; only command-level failures return an error.
	BulkSetFields(ctx context.Context, ops []SetOp) error

	// InsertMany inserts all products as one unordered batch,
	// continuing past individual failures. Per-document failures are
	// carried in the outcome; a non-nil error means the batch itself
	// could not run.
	InsertMany(ctx context.Context, products []models.Product) (*BatchInsertOutcome, error)
}
