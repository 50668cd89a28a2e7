package handlers

import (
	"net/http"
	"strconv"

	"hopskip/internal/models"

	"github.com/gin-gonic/gin"
)

// Bookings handlers

// ListBookings - GET /api/bookings
func (h *Handlers) ListBookings(c *gin.Context) {
	guardianID := int64(0)
	if v, exists := c.Get("guardian_id"); exists {
		if id, ok := v.(int64); ok {
			guardianID = id
		}
	}

	response, err := h.services.Bookings.List(c.Request.Context(), guardianID)
	if err != nil {
		respondError(c, err, "Failed to list bookings")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetBooking - GET /api/bookings/:id
func (h *Handlers) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := h.services.Bookings.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get booking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// PreviewCancellation - GET /api/bookings/:id/cancellation
// Returns what a cancellation would settle to without changing anything.
func (h *Handlers) PreviewCancellation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	eligibility, err := h.services.Bookings.PreviewCancellation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to evaluate cancellation")
		return
	}

	c.JSON(http.StatusOK, eligibility)
}

// CancelBooking - PATCH /api/bookings/cancel
// An ineligible cancellation is a 422 carrying the policy's reason; the
// booking did not change.
func (h *Handlers) CancelBooking(c *gin.Context) {
	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Bookings.Cancel(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to cancel booking")
		return
	}

	if !response.Eligibility.Eligible {
		c.JSON(http.StatusUnprocessableEntity, response)
		return
	}

	c.JSON(http.StatusOK, response)
}

// RescheduleBooking - PATCH /api/bookings/reschedule
func (h *Handlers) RescheduleBooking(c *gin.Context) {
	var req models.RescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Bookings.Reschedule(c.Request.Context(), &req); err != nil {
		respondError(c, err, "Failed to reschedule booking")
		return
	}

	c.Status(http.StatusOK)
}

// AmendBooking - PATCH /api/bookings/amend
func (h *Handlers) AmendBooking(c *gin.Context) {
	var req models.AmendBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Bookings.Amend(c.Request.Context(), &req); err != nil {
		respondError(c, err, "Failed to amend booking")
		return
	}

	c.Status(http.StatusOK)
}
