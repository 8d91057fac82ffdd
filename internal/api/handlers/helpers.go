package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablesim/internal/input"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageParams reads limit and offset from the query string, clamped to sane values.
func pageParams(c *gin.Context) (limit, offset int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// respondInputError writes a 400 for validation errors and a 500 otherwise.
func respondInputError(c *gin.Context, err error) {
	code := input.Code(err)
	if code == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	status := http.StatusBadRequest
	if errors.Is(err, input.ErrTooManySamples) {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{
		"error":   input.Message(err),
		"code":    code,
		"details": err.Error(),
	})
}
