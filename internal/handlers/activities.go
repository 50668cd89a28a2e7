package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Activities handlers

// SearchActivities - GET /api/activities
func (h *Handlers) SearchActivities(c *gin.Context) {
	query := c.Query("query")
	category := c.Query("category")
	age, _ := strconv.Atoi(c.DefaultQuery("age", "0"))

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}
	if pageSize < 1 || pageSize > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 50"})
		return
	}

	response, err := h.services.Activities.Search(c.Request.Context(), query, category, age, page, pageSize)
	if err != nil {
		respondError(c, err, "Failed to search activities")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetActivity - GET /api/activities/:id
func (h *Handlers) GetActivity(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity id"})
		return
	}

	activity, err := h.services.Activities.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get activity")
		return
	}

	c.JSON(http.StatusOK, activity)
}
