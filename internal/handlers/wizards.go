package handlers

import (
	"errors"
	"net/http"

	"hopskip/internal/models"
	"hopskip/internal/wizard"

	"github.com/gin-gonic/gin"
)

// Wizard handlers. Navigation rejections carry the wizard state so the client
// can render field errors in place.

// StartWizard - POST /api/wizards
func (h *Handlers) StartWizard(c *gin.Context) {
	var req models.StartWizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Wizards.Start(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to start wizard")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetWizard - GET /api/wizards/:id
func (h *Handlers) GetWizard(c *gin.Context) {
	response, err := h.services.Wizards.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get wizard")
		return
	}

	c.JSON(http.StatusOK, response)
}

// SetWizardField - PATCH /api/wizards/field
func (h *Handlers) SetWizardField(c *gin.Context) {
	var req models.WizardFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Wizards.SetField(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to set wizard field")
		return
	}

	c.JSON(http.StatusOK, response)
}

// WizardNext - PATCH /api/wizards/next
// A failed step validation is a 422 with the wizard state; navigation off the
// end of the flow is a 409.
func (h *Handlers) WizardNext(c *gin.Context) {
	var req models.WizardNavRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Wizards.Next(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, wizard.ErrStepInvalid) {
			c.JSON(http.StatusUnprocessableEntity, response)
			return
		}
		if errors.Is(err, wizard.ErrAtLastStep) || errors.Is(err, wizard.ErrFinished) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err, "Failed to advance wizard")
		return
	}

	c.JSON(http.StatusOK, response)
}

// WizardPrevious - PATCH /api/wizards/previous
func (h *Handlers) WizardPrevious(c *gin.Context) {
	var req models.WizardNavRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Wizards.Previous(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, wizard.ErrAtFirstStep) || errors.Is(err, wizard.ErrFinished) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err, "Failed to step wizard back")
		return
	}

	c.JSON(http.StatusOK, response)
}

// WizardJump - PATCH /api/wizards/jump
func (h *Handlers) WizardJump(c *gin.Context) {
	var req models.WizardNavRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Wizards.JumpTo(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, wizard.ErrStepLocked) || errors.Is(err, wizard.ErrFinished) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err, "Failed to jump wizard")
		return
	}

	c.JSON(http.StatusOK, response)
}

// SubmitWizard - POST /api/wizards/submit
func (h *Handlers) SubmitWizard(c *gin.Context) {
	var req models.WizardNavRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, state, err := h.services.Wizards.Submit(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, wizard.ErrStepInvalid) {
			c.JSON(http.StatusUnprocessableEntity, state)
			return
		}
		if errors.Is(err, wizard.ErrNotLastStep) || errors.Is(err, wizard.ErrFinished) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err, "Failed to submit wizard")
		return
	}

	c.JSON(http.StatusCreated, response)
}
