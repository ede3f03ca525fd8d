package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureProductIndexes creates the unique barcode index the bulk import
// relies on for duplicate detection, plus a plain sku index for lookups.
func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	barcodeIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "barcode", Value: 1}},
		Options: options.Index().
			SetName("barcode_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"barcode": bson.M{
					"$exists": true,
				},
			}),
	}

	skuIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "sku", Value: 1}},
		Options: options.Index().SetName("sku_index"),
	}

	log.Println("EnsureProductIndexes: creating product indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{barcodeIndex, skuIndex})
	if err != nil {
		log.Println("EnsureProductIndexes: index error:", err)
		return err
	}
	log.Println("EnsureProductIndexes: product indexes created")
	return nil
}
