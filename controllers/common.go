package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mneikoe/VP-FINANCE-FINAL-sub002/services"
)

// respondServiceError maps the service error taxonomy onto HTTP codes:
// validation problems are 400, missing records 404, everything else 500.
// NoValidAssignments keeps its per-item reasons in the payload.
func respondServiceError(c *gin.Context, err error) {
	var noValid *services.NoValidAssignmentsError
	if errors.As(err, &noValid) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "no valid assignments",
			"errors": noValid.Errors,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrMissingUpdater),
		errors.Is(err, services.ErrEntityNotAssigned):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(v), true
}

func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}
