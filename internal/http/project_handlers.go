package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emert/crm-service/internal/model"
	"github.com/emert/crm-service/internal/service"
)

type createProjectRequest struct {
	ClientID       uint    `json:"client_id" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	Status         string  `json:"status"`
	ServiceType    string  `json:"service_type"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
	Budget         float64 `json:"budget"`
	AssignedUserID *uint   `json:"assigned_user_id"`
}

type updateProjectRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	Status         *string  `json:"status"`
	ServiceType    *string  `json:"service_type"`
	StartDate      *string  `json:"start_date"`
	EndDate        *string  `json:"end_date"`
	Budget         *float64 `json:"budget"`
	AssignedUserID *uint    `json:"assigned_user_id"`
}

func (h *Handler) listProjects(c *gin.Context) {
	var status *model.ProjectStatus
	if raw := c.Query("status"); raw != "" {
		s := model.ProjectStatus(raw)
		status = &s
	}

	projects, err := h.projects.List(c.Request.Context(), status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *Handler) getProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	project, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) createProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}

	project, err := h.projects.Create(c.Request.Context(), service.CreateProjectInput{
		ClientID:       req.ClientID,
		Name:           req.Name,
		Description:    req.Description,
		Status:         model.ProjectStatus(req.Status),
		ServiceType:    req.ServiceType,
		StartDate:      startDate,
		EndDate:        endDate,
		Budget:         req.Budget,
		AssignedUserID: req.AssignedUserID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *Handler) updateProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}

	input := service.UpdateProjectInput{
		Name:           req.Name,
		Description:    req.Description,
		ServiceType:    req.ServiceType,
		StartDate:      startDate,
		EndDate:        endDate,
		Budget:         req.Budget,
		AssignedUserID: req.AssignedUserID,
	}
	if req.Status != nil {
		status := model.ProjectStatus(*req.Status)
		input.Status = &status
	}

	project, err := h.projects.Update(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) deleteProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

func (h *Handler) listProjectTasks(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tasks, err := h.projects.ListTasks(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) projectKanban(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	board, err := h.projects.Kanban(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *Handler) listProjectRequirements(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	requirements, err := h.projects.ListRequirements(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, requirements)
}

func (h *Handler) projectRequirementsSummary(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	summary, err := h.projects.RequirementsSummary(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) listProjectUpdates(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	updates, err := h.projects.ListUpdates(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updates)
}

func (h *Handler) latestProjectUpdate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	latest, err := h.projects.LatestUpdate(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if latest == nil {
		c.JSON(http.StatusOK, gin.H{"message": "no updates yet"})
		return
	}
	c.JSON(http.StatusOK, latest)
}

func (h *Handler) projectNextSteps(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rollup, err := h.projects.NextSteps(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, rollup)
}

func (h *Handler) projectStatusOverview(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	overview, err := h.projects.StatusOverview(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
