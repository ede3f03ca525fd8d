package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name              string              `bson:"name" json:"name"`
	Description       string              `bson:"description" json:"description"`
	Barcode           *string             `bson:"barcode,omitempty" json:"barcode,omitempty"`
	Price             float64             `bson:"price" json:"price"`
	Cost              float64             `bson:"cost" json:"cost"`
	StockQuantity     int                 `bson:"stockQuantity" json:"stockQuantity"`
	Unit              string              `bson:"unit" json:"unit"`
	SKU               string              `bson:"sku" json:"sku"`
	Category          string              `bson:"category" json:"category"`
	Categories        StringList          `bson:"categories" json:"categories"`
	Supplier          *primitive.ObjectID `bson:"supplier,omitempty" json:"supplier,omitempty"`
	LowStockThreshold *float64            `bson:"lowStockThreshold,omitempty" json:"lowStockThreshold,omitempty"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
}

// ProductUpdate carries the fields of a partial update. A nil pointer
// means "leave the stored value alone", so callers can change a single
// field without round-tripping the rest of the document.
type ProductUpdate struct {
	Name              *string             `json:"name"`
	Description       *string             `json:"description"`
	Barcode           *string             `json:"barcode"`
	Price             *float64            `json:"price"`
	Cost              *float64            `json:"cost"`
	StockQuantity     *int                `json:"stockQuantity"`
	Unit              *string             `json:"unit"`
	SKU               *string             `json:"sku"`
	Category          *string             `json:"category"`
	Categories        *[]string           `json:"categories"`
	Supplier          *primitive.ObjectID `json:"supplier"`
	LowStockThreshold *float64            `json:"lowStockThreshold"`
}

// BulkStockUpdate is one record of a bulk price/cost/stock update.
// Only these three fields can be touched this way.
type BulkStockUpdate struct {
	ID            primitive.ObjectID `json:"id"`
	Price         *float64           `json:"price"`
	Cost          *float64           `json:"cost"`
	StockQuantity *int               `json:"stockQuantity"`
}

// ProductImport is one raw record from an external import source.
// Numeric fields are declared as any because import sources deliver
// them inconsistently as numbers or strings; the service coerces them.
type ProductImport struct {
	Name              string              `json:"name"`
	Description       *string             `json:"description"`
	Barcode           *string             `json:"barcode"`
	Price             any                 `json:"price"`
	Cost              any                 `json:"cost"`
	StockQuantity     any                 `json:"stockQuantity"`
	Unit              *string             `json:"unit"`
	SKU               *string             `json:"sku"`
	Category          *string             `json:"category"`
	Categories        []string            `json:"categories"`
	Supplier          *primitive.ObjectID `json:"supplier"`
	LowStockThreshold any                 `json:"lowStockThreshold"`
}

type ImportError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// BulkImportResult is the outcome of a bulk import. Success stays true
// even when individual records failed; per-record failures are listed
// in Errors with their position in the input.
type BulkImportResult struct {
	Success       bool          `json:"success"`
	InsertedCount int           `json:"insertedCount"`
	Products      []Product     `json:"products"`
	Errors        []ImportError `json:"errors,omitempty"`
}
