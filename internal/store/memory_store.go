package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventory/internal/models"
)

// MemoryStore is an in-memory implementation of ProductStore. It backs
// the service tests and mirrors the MongoDB implementation's contract,
// including the unique barcode constraint and the name requirement
// that the schema layer enforces there.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[primitive.ObjectID]models.Product
	order    []primitive.ObjectID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[primitive.ObjectID]models.Product),
	}
}

func (s *MemoryStore) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkWritable(*product, primitive.NilObjectID); err != nil {
		return nil, err
	}

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}

	s.products[product.ID] = *product
	s.order = append(s.order, product.ID)
	return product, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &product, nil
}

func (s *MemoryStore) Paginate(ctx context.Context, filter bson.M, opts QueryOptions) (*PageResult, error) {
	page, limit := normalizeWindow(opts)

	s.mu.RLock()
	matched := make([]models.Product, 0, len(s.order))
	for _, id := range s.order {
		p := s.products[id]
		if !matchesFilter(p, filter) {
			continue
		}
		if !matchesSearch(p, opts.Search, opts.FieldName) {
			continue
		}
		matched = append(matched, p)
	}
	s.mu.RUnlock()

	sortProducts(matched, opts.SortBy)

	total := int64(len(matched))
	totalPages := int64(0)
	if total > 0 {
		totalPages = int64(math.Ceil(float64(total) / float64(limit)))
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &PageResult{
		Results:      matched[start:end],
		Page:         page,
		Limit:        limit,
		TotalPages:   totalPages,
		TotalResults: total,
	}, nil
}

func (s *MemoryStore) FindAll(ctx context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, 0, len(s.order))
	for _, id := range s.order {
		products = append(products, s.products[id])
	}
	return products, nil
}

func (s *MemoryStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	wanted := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, 0, len(ids))
	for _, id := range s.order {
		if _, ok := wanted[id]; ok {
			products = append(products, s.products[id])
		}
	}
	return products, nil
}

func (s *MemoryStore) Save(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return ErrNotFound
	}
	if err := s.checkWritable(*product, product.ID); err != nil {
		return err
	}
	s.products[product.ID] = *product
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return ErrNotFound
	}
	delete(s.products, product.ID)
	for i, id := range s.order {
		if id == product.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) BulkSetFields(ctx context.Context, ops []SetOp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, op := range ops {
		product, ok := s.products[op.ID]
		if !ok {
			// Unordered batch: unmatched ids do not abort the batch.
			continue
		}
		applySetFields(&product, op.Fields)
		s.products[op.ID] = product
	}
	return nil
}

func (s *MemoryStore) InsertMany(ctx context.Context, products []models.Product) (*BatchInsertOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := &BatchInsertOutcome{Inserted: make([]models.Product, 0, len(products))}

	for i := range products {
		p := products[i]
		if err := s.checkWritable(p, primitive.NilObjectID); err != nil {
			outcome.Failures = append(outcome.Failures, InsertFailure{Index: i, Message: err.Error()})
			continue
		}
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now()
		}
		s.products[p.ID] = p
		s.order = append(s.order, p.ID)
		outcome.Inserted = append(outcome.Inserted, p)
	}

	return outcome, nil
}

// checkWritable enforces what the schema and unique indexes enforce in
// MongoDB: a required name and a unique barcode. exclude skips the
// document being overwritten by Save.
func (s *MemoryStore) checkWritable(product models.Product, exclude primitive.ObjectID) error {
	if strings.TrimSpace(product.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if product.Barcode == nil {
		return nil
	}
	for id, existing := range s.products {
		if id == exclude {
			continue
		}
		if existing.Barcode != nil && *existing.Barcode == *product.Barcode {
			return fmt.Errorf("duplicate key error: barcode %q", *product.Barcode)
		}
	}
	return nil
}

func applySetFields(product *models.Product, fields bson.M) {
	if v, ok := fields["price"]; ok {
		if price, ok := v.(float64); ok {
			product.Price = price
		}
	}
	if v, ok := fields["cost"]; ok {
		if cost, ok := v.(float64); ok {
			product.Cost = cost
		}
	}
	if v, ok := fields["stockQuantity"]; ok {
		if stock, ok := v.(int); ok {
			product.StockQuantity = stock
		}
	}
}

// matchesFilter supports the equality filters the handlers build. A nil
// or empty filter matches everything.
func matchesFilter(product models.Product, filter bson.M) bool {
	for key, want := range filter {
		switch key {
		case "name":
			if product.Name != want {
				return false
			}
		case "category":
			if product.Category != want {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func matchesSearch(product models.Product, search, fieldName string) bool {
	search = strings.TrimSpace(search)
	if search == "" {
		return true
	}
	if strings.TrimSpace(fieldName) == "" {
		fieldName = "name"
	}

	var value string
	switch fieldName {
	case "name":
		value = product.Name
	case "description":
		value = product.Description
	case "sku":
		value = product.SKU
	case "category":
		value = product.Category
	case "barcode":
		if product.Barcode != nil {
			value = *product.Barcode
		}
	default:
		return false
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(search))
}

func sortProducts(products []models.Product, sortBy string) {
	field := "createdAt"
	desc := true

	if trimmed := strings.TrimSpace(sortBy); trimmed != "" {
		field = trimmed
		desc = false
		if idx := strings.Index(trimmed, ":"); idx >= 0 {
			field = trimmed[:idx]
			desc = strings.EqualFold(trimmed[idx+1:], "desc")
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if desc {
			a, b = b, a
		}
		switch field {
		case "name":
			return a.Name < b.Name
		case "price":
			return a.Price < b.Price
		case "cost":
			return a.Cost < b.Cost
		case "stockQuantity":
			return a.StockQuantity < b.StockQuantity
		case "sku":
			return a.SKU < b.SKU
		case "category":
			return a.Category < b.Category
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
}
