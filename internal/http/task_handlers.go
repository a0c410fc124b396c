package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emert/crm-service/internal/model"
	"github.com/emert/crm-service/internal/repository"
	"github.com/emert/crm-service/internal/service"
)

type createTaskRequest struct {
	ProjectID          uint    `json:"project_id"`
	RequirementID      *uint   `json:"requirement_id"`
	Title              string  `json:"title" binding:"required"`
	Description        string  `json:"description"`
	Status             string  `json:"status"`
	Priority           string  `json:"priority"`
	Category           string  `json:"category"`
	AssignedUserID     *uint   `json:"assigned_user_id"`
	CreatedBy          uint    `json:"created_by"`
	DueDate            *string `json:"due_date"`
	EstimatedHours     int     `json:"estimated_hours"`
	ProgressPercentage int     `json:"progress_percentage"`
	Blockers           string  `json:"blockers"`
	Notes              string  `json:"notes"`
}

type updateTaskRequest struct {
	Title              *string `json:"title"`
	Description        *string `json:"description"`
	Status             *string `json:"status"`
	Priority           *string `json:"priority"`
	Category           *string `json:"category"`
	AssignedUserID     *uint   `json:"assigned_user_id"`
	DueDate            *string `json:"due_date"`
	EstimatedHours     *int    `json:"estimated_hours"`
	ProgressPercentage *int    `json:"progress_percentage"`
	Blockers           *string `json:"blockers"`
	Notes              *string `json:"notes"`
}

type taskProgressRequest struct {
	ProgressPercentage *int    `json:"progress_percentage" binding:"required"`
	Notes              *string `json:"notes"`
}

type timeLogRequest struct {
	UserID      uint    `json:"user_id"`
	Description string  `json:"description"`
	HoursWorked float64 `json:"hours_worked" binding:"required"`
	WorkDate    *string `json:"work_date"`
}

func (h *Handler) listTasks(c *gin.Context) {
	filter := repository.TaskFilter{}
	if raw := c.Query("status"); raw != "" {
		status := model.TaskStatus(raw)
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

	tasks, err := h.tasks.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) getTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ProjectID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_id is required"})
		return
	}
	h.createTaskFromRequest(c, req)
}

// createProjectTask is the nested form: the project comes from the path.
func (h *Handler) createProjectTask(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ProjectID = projectID
	h.createTaskFromRequest(c, req)
}

func (h *Handler) createTaskFromRequest(c *gin.Context, req createTaskRequest) {
	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date"})
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), service.CreateTaskInput{
		ProjectID:          req.ProjectID,
		RequirementID:      req.RequirementID,
		Title:              req.Title,
		Description:        req.Description,
		Status:             model.TaskStatus(req.Status),
		Priority:           model.Priority(req.Priority),
		Category:           req.Category,
		AssignedUserID:     req.AssignedUserID,
		CreatedBy:          req.CreatedBy,
		DueDate:            dueDate,
		EstimatedHours:     req.EstimatedHours,
		ProgressPercentage: req.ProgressPercentage,
		Blockers:           req.Blockers,
		Notes:              req.Notes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *Handler) updateTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date"})
		return
	}

	input := service.UpdateTaskInput{
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		AssignedUserID:     req.AssignedUserID,
		DueDate:            dueDate,
		EstimatedHours:     req.EstimatedHours,
		ProgressPercentage: req.ProgressPercentage,
		Blockers:           req.Blockers,
		Notes:              req.Notes,
	}
	if req.Status != nil {
		status := model.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := model.Priority(*req.Priority)
		input.Priority = &priority
	}

	task, err := h.tasks.Update(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) updateTaskProgress(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req taskProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProgressPercentage == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "progress_percentage is required"})
		return
	}

	task, err := h.tasks.UpdateProgress(c.Request.Context(), id, service.ProgressInput{
		ProgressPercentage: *req.ProgressPercentage,
		Notes:              req.Notes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) deleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

func (h *Handler) listTaskTimeLogs(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	logs, err := h.tasks.ListTimeLogs(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *Handler) addTaskTimeLog(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req timeLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workDate, err := parseOptionalDate(req.WorkDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid work_date"})
		return
	}

	log, err := h.tasks.AddTimeLog(c.Request.Context(), id, service.TimeLogInput{
		UserID:      req.UserID,
		Description: req.Description,
		HoursWorked: req.HoursWorked,
		WorkDate:    workDate,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, log)
}
