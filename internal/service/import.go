package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"inventory/internal/models"
)

const defaultUnit = "pcs"

// shapeImportRow turns a raw import record into a canonical product,
// applying the import defaults and coercing numeric fields. Price, cost
// and stockQuantity are required; lowStockThreshold stays unset when
// absent rather than defaulting to zero.
func shapeImportRow(row models.ProductImport) (models.Product, error) {
	price, err := coerceFloat(row.Price)
	if err != nil {
		return models.Product{}, fmt.Errorf("invalid price: %v", err)
	}
	cost, err := coerceFloat(row.Cost)
	if err != nil {
		return models.Product{}, fmt.Errorf("invalid cost: %v", err)
	}
	stock, err := coerceInt(row.StockQuantity)
	if err != nil {
		return models.Product{}, fmt.Errorf("invalid stockQuantity: %v", err)
	}

	product := models.Product{
		Name:          row.Name,
		Description:   stringOrDefault(row.Description, ""),
		Barcode:       row.Barcode,
		Price:         price,
		Cost:          cost,
		StockQuantity: stock,
		Unit:          stringOrDefault(row.Unit, defaultUnit),
		SKU:           stringOrDefault(row.SKU, ""),
		Category:      stringOrDefault(row.Category, ""),
		Categories:    models.StringList{},
		Supplier:      row.Supplier,
	}

	if len(row.Categories) > 0 {
		product.Categories = models.StringList(row.Categories)
	}

	if row.LowStockThreshold != nil {
		threshold, err := coerceFloat(row.LowStockThreshold)
		if err != nil {
			return models.Product{}, fmt.Errorf("invalid lowStockThreshold: %v", err)
		}
		product.LowStockThreshold = &threshold
	}

	return product, nil
}

func stringOrDefault(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

// coerceFloat accepts the value shapes import sources actually produce:
// JSON numbers, integers from typed decoders, and numeric strings.
func coerceFloat(value any) (float64, error) {
	switch typed := value.(type) {
	case float64:
		return typed, nil
	case float32:
		return float64(typed), nil
	case int:
		return float64(typed), nil
	case int32:
		return float64(typed), nil
	case int64:
		return float64(typed), nil
	case json.Number:
		return typed.Float64()
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return 0, fmt.Errorf("value is required")
		}
		return strconv.ParseFloat(trimmed, 64)
	case nil:
		return 0, fmt.Errorf("value is required")
	default:
		return 0, fmt.Errorf("cannot convert %T to number", value)
	}
}

func coerceInt(value any) (int, error) {
	f, err := coerceFloat(value)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
