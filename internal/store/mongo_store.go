package store

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inventory/internal/models"
)

const productCollection = "products"

// MongoStore is the MongoDB implementation of ProductStore.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) collection() *mongo.Collection {
	return s.db.Collection(productCollection)
}

func (s *MongoStore) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}

	res, err := s.collection().InsertOne(ctx, product)
	if err != nil {
		return nil, err
	}

	product.ID = res.InsertedID.(primitive.ObjectID)
	return product, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *MongoStore) Paginate(ctx context.Context, filter bson.M, opts QueryOptions) (*PageResult, error) {
	page, limit := normalizeWindow(opts)

	if filter == nil {
		filter = bson.M{}
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		field := strings.TrimSpace(opts.FieldName)
		if field == "" {
			field = "name"
		}
		filter[field] = bson.M{"$regex": search, "$options": "i"}
	}

	total, err := s.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}
	totalPages := int64(0)
	if total > 0 {
		totalPages = int64(math.Ceil(float64(total) / float64(limit)))
	}

	findOpts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(parseSortBy(opts.SortBy))

	cursor, err := s.collection().Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	return &PageResult{
		Results:      products,
		Page:         page,
		Limit:        limit,
		TotalPages:   totalPages,
		TotalResults: total,
	}, nil
}

func (s *MongoStore) FindAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := s.collection().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *MongoStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	cursor, err := s.collection().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0, len(ids))
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *MongoStore) Save(ctx context.Context, product *models.Product) error {
	res, err := s.collection().ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, product *models.Product) error {
	res, err := s.collection().DeleteOne(ctx, bson.M{"_id": product.ID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) BulkSetFields(ctx context.Context, ops []SetOp) error {
	if len(ops) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(ops))
	for _, op := range ops {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": op.ID}).
			SetUpdate(bson.M{"$set": op.Fields}))
	}

	_, err := s.collection().BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		// Unordered semantics: individual write failures must not fail
		// the batch. Command-level failures still propagate.
		var bwe mongo.BulkWriteException
		if errors.As(err, &bwe) && bwe.WriteConcernError == nil {
			return nil
		}
		return err
	}
	return nil
}

func (s *MongoStore) InsertMany(ctx context.Context, products []models.Product) (*BatchInsertOutcome, error) {
	outcome := &BatchInsertOutcome{Inserted: make([]models.Product, 0, len(products))}
	if len(products) == 0 {
		return outcome, nil
	}

	docs := make([]interface{}, 0, len(products))
	for i := range products {
		if products[i].ID.IsZero() {
			products[i].ID = primitive.NewObjectID()
		}
		if products[i].CreatedAt.IsZero() {
			products[i].CreatedAt = time.Now()
		}
		docs = append(docs, products[i])
	}

	_, err := s.collection().InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		var bwe mongo.BulkWriteException
		if !errors.As(err, &bwe) {
			return nil, err
		}
		failed := make(map[int]struct{}, len(bwe.WriteErrors))
		for _, we := range bwe.WriteErrors {
			failed[we.Index] = struct{}{}
			outcome.Failures = append(outcome.Failures, InsertFailure{
				Index:   we.Index,
				Message: we.Message,
			})
		}
		for i, p := range products {
			if _, ok := failed[i]; !ok {
				outcome.Inserted = append(outcome.Inserted, p)
			}
		}
		return outcome, nil
	}

	outcome.Inserted = append(outcome.Inserted, products...)
	return outcome, nil
}

func normalizeWindow(opts QueryOptions) (page, limit int64) {
	page = opts.Page
	if page < 1 {
		page = 1
	}
	limit = opts.Limit
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

// parseSortBy turns "price:desc" into a mongo sort document. Unsorted
// queries fall back to newest-first.
func parseSortBy(sortBy string) bson.D {
	sortBy = strings.TrimSpace(sortBy)
	if sortBy == "" {
		return bson.D{{Key: "createdAt", Value: -1}}
	}

	field := sortBy
	order := 1
	if idx := strings.Index(sortBy, ":"); idx >= 0 {
		field = sortBy[:idx]
		if strings.EqualFold(sortBy[idx+1:], "desc") {
			order = -1
		}
	}
	if field == "" {
		return bson.D{{Key: "createdAt", Value: -1}}
	}
	return bson.D{{Key: field, Value: order}}
}
