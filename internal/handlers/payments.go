package handlers

import (
	"log/slog"
	"net/http"

	"hopskip/internal/models"

	"github.com/gin-gonic/gin"
)

// Payments handlers

// InitiatePayment - PATCH /api/bookings/initiatePayment
// Returns the gateway redirect URL for the booking's card portion.
func (h *Handlers) InitiatePayment(c *gin.Context) {
	var req models.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paymentURL, err := h.services.Bookings.InitiatePayment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to initiate payment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment_url": paymentURL})
}

// PaymentNotification - POST /api/payments/notifications
// Webhook from the payment gateway. Always acknowledged with 200 once
// processed so the gateway stops retrying.
func (h *Handlers) PaymentNotification(c *gin.Context) {
	var payload models.PaymentNotificationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slog.Info("Received payment notification",
		"payment_id", payload.PaymentID,
		"order_id", payload.OrderID,
		"status", payload.Status)

	if err := h.services.Bookings.HandlePaymentNotification(c.Request.Context(), &payload); err != nil {
		respondError(c, err, "Failed to process payment notification")
		return
	}

	c.Status(http.StatusOK)
}
