package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventory/internal/models"
)

func TestMemoryStoreFindByIDNotFound(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.FindByID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreInsertManyContinuesPastFailures(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	barcode := "111"
	_, err := s.Create(ctx, &models.Product{Name: "Existing", Barcode: &barcode})
	require.NoError(t, err)

	outcome, err := s.InsertMany(ctx, []models.Product{
		{Name: "Duplicate", Barcode: &barcode},
		{Name: "Fresh"},
		{Name: ""},
	})
	require.NoError(t, err)

	require.Len(t, outcome.Inserted, 1)
	assert.Equal(t, "Fresh", outcome.Inserted[0].Name)
	assert.False(t, outcome.Inserted[0].ID.IsZero())

	require.Len(t, outcome.Failures, 2)
	assert.Equal(t, 0, outcome.Failures[0].Index)
	assert.Contains(t, outcome.Failures[0].Message, "duplicate key")
	assert.Equal(t, 2, outcome.Failures[1].Index)
	assert.Contains(t, outcome.Failures[1].Message, "name")
}

func TestMemoryStoreBulkSetFieldsSkipsUnknownIDs(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	p, err := s.Create(ctx, &models.Product{Name: "Known", Price: 1, Cost: 1, StockQuantity: 1})
	require.NoError(t, err)

	err = s.BulkSetFields(ctx, []SetOp{
		{ID: primitive.NewObjectID(), Fields: bson.M{"price": 99.0}},
		{ID: p.ID, Fields: bson.M{"price": 2.5, "stockQuantity": 7}},
	})
	require.NoError(t, err)

	got, err := s.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.5, got.Price)
	assert.Equal(t, 7, got.StockQuantity)
	assert.Equal(t, 1.0, got.Cost)
}

func TestMemoryStoreSaveAndDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	err := s.Save(ctx, &models.Product{ID: primitive.NewObjectID(), Name: "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := s.Create(ctx, &models.Product{Name: "Real", Price: 1})
	require.NoError(t, err)

	p.Price = 3
	require.NoError(t, s.Save(ctx, p))

	got, err := s.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.Price)

	require.NoError(t, s.Delete(ctx, p))
	_, err = s.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Delete(ctx, p)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreFindByIDsIgnoresMissing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	a, err := s.Create(ctx, &models.Product{Name: "A"})
	require.NoError(t, err)
	b, err := s.Create(ctx, &models.Product{Name: "B"})
	require.NoError(t, err)

	products, err := s.FindByIDs(ctx, []primitive.ObjectID{a.ID, primitive.NewObjectID(), b.ID})
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestMemoryStorePaginateSortDescending(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, p := range []models.Product{
		{Name: "Cheap", Price: 1},
		{Name: "Mid", Price: 5},
		{Name: "Expensive", Price: 10},
	} {
		product := p
		_, err := s.Create(ctx, &product)
		require.NoError(t, err)
	}

	result, err := s.Paginate(ctx, bson.M{}, QueryOptions{SortBy: "price:desc", Limit: 2, Page: 1})
	require.NoError(t, err)

	require.Len(t, result.Results, 2)
	assert.Equal(t, "Expensive", result.Results[0].Name)
	assert.Equal(t, "Mid", result.Results[1].Name)
	assert.Equal(t, int64(3), result.TotalResults)
	assert.Equal(t, int64(2), result.TotalPages)
}

func TestParseSortBy(t *testing.T) {
	tests := []struct {
		sortBy string
		want   bson.D
	}{
		{"", bson.D{{Key: "createdAt", Value: -1}}},
		{"price:asc", bson.D{{Key: "price", Value: 1}}},
		{"price:desc", bson.D{{Key: "price", Value: -1}}},
		{"name", bson.D{{Key: "name", Value: 1}}},
	}

	for _, tt := range tests {
		got := parseSortBy(tt.sortBy)
		assert.Equal(t, tt.want, got, "sortBy=%q", tt.sortBy)
	}
}
