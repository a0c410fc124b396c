package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emert/crm-service/internal/model"
	"github.com/emert/crm-service/internal/repository"
	"github.com/emert/crm-service/internal/service"
)

type createRequirementRequest struct {
	ProjectID          uint    `json:"project_id" binding:"required"`
	Title              string  `json:"title" binding:"required"`
	Description        string  `json:"description"`
	Priority           string  `json:"priority"`
	Status             string  `json:"status"`
	Category           string  `json:"category"`
	AcceptanceCriteria string  `json:"acceptance_criteria"`
	EstimatedHours     int     `json:"estimated_hours"`
	AssignedUserID     *uint   `json:"assigned_user_id"`
	DueDate            *string `json:"due_date"`
	CreatedBy          uint    `json:"created_by"`
}

type updateRequirementRequest struct {
	Title              *string `json:"title"`
	Description        *string `json:"description"`
	Priority           *string `json:"priority"`
	Status             *string `json:"status"`
	Category           *string `json:"category"`
	AcceptanceCriteria *string `json:"acceptance_criteria"`
	EstimatedHours     *int    `json:"estimated_hours"`
	AssignedUserID     *uint   `json:"assigned_user_id"`
	DueDate            *string `json:"due_date"`
}

func (h *Handler) listRequirements(c *gin.Context) {
	filter := repository.RequirementFilter{}
	if raw := c.Query("status"); raw != "" {
		status := model.RequirementStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := model.Priority(raw)
		filter.Priority = &priority
	}
	projectID, err := queryUint(c, "project_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter.ProjectID = projectID
	assignedTo, err := queryUint(c, "assigned_user_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter.AssignedUserID = assignedTo

	requirements, err := h.requirements.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, requirements)
}

func (h *Handler) getRequirement(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	requirement, err := h.requirements.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, requirement)
}

func (h *Handler) createRequirement(c *gin.Context) {
	var req createRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date"})
		return
	}

	requirement, err := h.requirements.Create(c.Request.Context(), service.CreateRequirementInput{
		ProjectID:          req.ProjectID,
		Title:              req.Title,
		Description:        req.Description,
		Priority:           model.Priority(req.Priority),
		Status:             model.RequirementStatus(req.Status),
		Category:           req.Category,
		AcceptanceCriteria: req.AcceptanceCriteria,
		EstimatedHours:     req.EstimatedHours,
		AssignedUserID:     req.AssignedUserID,
		DueDate:            dueDate,
		CreatedBy:          req.CreatedBy,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, requirement)
}

func (h *Handler) updateRequirement(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date"})
		return
	}

	input := service.UpdateRequirementInput{
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		AcceptanceCriteria: req.AcceptanceCriteria,
		EstimatedHours:     req.EstimatedHours,
		AssignedUserID:     req.AssignedUserID,
		DueDate:            dueDate,
	}
	if req.Status != nil {
		status := model.RequirementStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := model.Priority(*req.Priority)
		input.Priority = &priority
	}

	requirement, err := h.requirements.Update(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, requirement)
}

func (h *Handler) deleteRequirement(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.requirements.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "requirement deleted"})
}
