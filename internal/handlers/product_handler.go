package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventory/internal/models"
	"inventory/internal/service"
	"inventory/internal/store"
)

/* =======================
   LIST (PAGINATED)
======================= */

func GetProducts(svc *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"

		// all=true bypasses pagination and returns the full collection.
		if strings.EqualFold(c.Query("all"), "true") {
			products, err := svc.GetAllProducts(c.Request.Context())
			if err != nil {
				respondServiceError(c, route, err)
				return
			}
			c.JSON(http.StatusOK, products)
			return
		}

		page, limit, err := parsePaginationParams(
			c.Query("page"),
			c.Query("limit"),
		)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		filter := bson.M{}
		if name := strings.TrimSpace(c.Query("name")); name != "" {
			filter["name"] = name
		}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["category"] = category
		}

		opts := store.QueryOptions{
			SortBy:    strings.TrimSpace(c.Query("sortBy")),
			Limit:     limit,
			Page:      page,
			Search:    strings.TrimSpace(c.Query("search")),
			FieldName: strings.TrimSpace(c.Query("fieldName")),
		}

		result, err := svc.QueryProducts(c.Request.Context(), filter, opts)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

/* =======================
   GET BY ID
======================= */

func GetProduct(svc *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		product, err := svc.GetProductByID(c.Request.Context(), id)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		if product == nil {
			respondWithError(c, http.StatusNotFound, route, "Product not found")
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

/* =======================
   CREATE
======================= */

func CreateProduct(svc *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products"

		var body models.Product
		if err := c.ShouldBindJSON(&body); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}
		body.ID = primitive.NilObjectID

		product, err := svc.CreateProduct(c.Request.Context(), body)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		log.Printf("[%s] created product %s", route, product.ID.Hex())
		c.JSON(http.StatusCreated, product)
	}
}

/* =======================
   UPDATE
======================= */

func UpdateProduct(svc *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /products/:id"

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var body models.ProductUpdate
		if err := c.ShouldBindJSON(&body); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		product, err := svc.UpdateProductByID(c.Request.Context(), id, body)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

/* =======================
   DELETE
======================= */

func DeleteProduct(svc *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /products/:id"

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		product, err := svc.DeleteProductByID(c.Request.Context(), id)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

/* =======================
   BULK UPDATE
======================= */

func BulkUpdateProducts(svc *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products/bulk-update"

		var body []models.BulkStockUpdate
		if err := c.ShouldBindJSON(&body); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		products, err := svc.BulkUpdateProducts(c.Request.Context(), body)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		log.Printf("[%s] updated %d records", route, len(body))
		c.JSON(http.StatusOK, products)
	}
}

/* =======================
   BULK IMPORT
======================= */

func BulkAddProducts(svc *service.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products/import"

		var body []models.ProductImport
		if err := c.ShouldBindJSON(&body); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		result, err := svc.BulkAddProducts(c.Request.Context(), body)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		log.Printf("[%s] imported %d of %d records", route, result.InsertedCount, len(body))
		c.JSON(http.StatusOK, result)
	}
}

// RegisterProductRoutes wires the product endpoints onto the router.
// Bulk operations live on static POST paths so they never collide with
// the :id parameter routes.
func RegisterProductRoutes(r gin.IRouter, svc *service.ProductService) {
	r.GET("/products", GetProducts(svc))
	r.GET("/products/:id", GetProduct(svc))
	r.POST("/products", CreateProduct(svc))
	r.PATCH("/products/:id", UpdateProduct(svc))
	r.DELETE("/products/:id", DeleteProduct(svc))
	r.POST("/products/bulk-update", BulkUpdateProducts(svc))
	r.POST("/products/import", BulkAddProducts(svc))
}
