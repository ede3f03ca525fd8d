package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"inventory/internal/apperr"
)

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondServiceError maps typed service failures onto their status and
// everything else onto a generic 500.
func respondServiceError(c *gin.Context, route string, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		respondWithError(c, appErr.Status, route, appErr.Message)
		return
	}
	log.Printf("[%s] unexpected error: %v", route, err)
	respondWithError(c, http.StatusInternalServerError, route, "db error")
}
