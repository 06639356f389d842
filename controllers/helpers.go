package controllers

import (
	"strconv"

	"bookshelf/models"

	"github.com/gin-gonic/gin"
)

// parseID reads a positive integer path parameter. On failure the error is
// already queued for the error handler.
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		_ = c.Error(models.NewFieldError(param, "A valid integer is required."))
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return false
	}
	return true
}

// queryInt parses an optional integer query parameter.
func queryInt(c *gin.Context, key string) (*int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		_ = c.Error(models.NewFieldError(key, "Enter a whole number."))
		return nil, false
	}
	return &n, true
}

func queryUint(c *gin.Context, key string) (*uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		_ = c.Error(models.NewFieldError(key, "Select a valid choice."))
		return nil, false
	}
	v := uint(n)
	return &v, true
}
