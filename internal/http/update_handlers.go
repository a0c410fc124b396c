package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emert/crm-service/internal/model"
	"github.com/emert/crm-service/internal/repository"
	"github.com/emert/crm-service/internal/service"
)

type createUpdateRequest struct {
	ProjectID           uint    `json:"project_id" binding:"required"`
	Title               string  `json:"title" binding:"required"`
	Description         string  `json:"description"`
	UpdateType          string  `json:"update_type"`
	StatusBefore        string  `json:"status_before"`
	StatusAfter         string  `json:"status_after"`
	ProgressPercentage  int     `json:"progress_percentage"`
	NextSteps           string  `json:"next_steps"`
	Blockers            string  `json:"blockers"`
	EstimatedCompletion *string `json:"estimated_completion"`
	CreatedBy           uint    `json:"created_by"`
}

type updateUpdateRequest struct {
	Title               *string `json:"title"`
	Description         *string `json:"description"`
	UpdateType          *string `json:"update_type"`
	StatusBefore        *string `json:"status_before"`
	StatusAfter         *string `json:"status_after"`
	ProgressPercentage  *int    `json:"progress_percentage"`
	NextSteps           *string `json:"next_steps"`
	Blockers            *string `json:"blockers"`
	EstimatedCompletion *string `json:"estimated_completion"`
}

func (h *Handler) listUpdates(c *gin.Context) {
	filter := repository.UpdateFilter{}
	if raw := c.Query("update_type"); raw != "" {
		updateType := model.UpdateType(raw)
		filter.UpdateType = &updateType
	}
	projectID, err := queryUint(c, "project_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter.ProjectID = projectID

	updates, err := h.updates.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updates)
}

func (h *Handler) getUpdate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	update, err := h.updates.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, update)
}

func (h *Handler) createUpdate(c *gin.Context) {
	var req createUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	estimated, err := parseOptionalDate(req.EstimatedCompletion)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimated_completion"})
		return
	}

	update, err := h.updates.Create(c.Request.Context(), service.CreateUpdateInput{
		ProjectID:           req.ProjectID,
		Title:               req.Title,
		Description:         req.Description,
		UpdateType:          model.UpdateType(req.UpdateType),
		StatusBefore:        req.StatusBefore,
		StatusAfter:         req.StatusAfter,
		ProgressPercentage:  req.ProgressPercentage,
		NextSteps:           req.NextSteps,
		Blockers:            req.Blockers,
		EstimatedCompletion: estimated,
		CreatedBy:           req.CreatedBy,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, update)
}

func (h *Handler) updateUpdate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	estimated, err := parseOptionalDate(req.EstimatedCompletion)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimated_completion"})
		return
	}

	input := service.UpdateUpdateInput{
		Title:               req.Title,
		Description:         req.Description,
		StatusBefore:        req.StatusBefore,
		StatusAfter:         req.StatusAfter,
		ProgressPercentage:  req.ProgressPercentage,
		NextSteps:           req.NextSteps,
		Blockers:            req.Blockers,
		EstimatedCompletion: estimated,
	}
	if req.UpdateType != nil {
		updateType := model.UpdateType(*req.UpdateType)
		input.UpdateType = &updateType
	}

	update, err := h.updates.Update(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, update)
}

func (h *Handler) deleteUpdate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.updates.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project update deleted"})
}
