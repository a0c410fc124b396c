package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emert/crm-service/internal/service"
)

type Handler struct {
	clients        *service.ClientService
	projects       *service.ProjectService
	tasks          *service.TaskService
	quotes         *service.QuoteService
	requirements   *service.RequirementService
	updates        *service.UpdateService
	communications *service.CommunicationService
	analytics      *service.AnalyticsService
	log            zerolog.Logger
}

func NewHandler(
	clients *service.ClientService,
	projects *service.ProjectService,
	tasks *service.TaskService,
	quotes *service.QuoteService,
	requirements *service.RequirementService,
	updates *service.UpdateService,
	communications *service.CommunicationService,
	analytics *service.AnalyticsService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		clients:        clients,
		projects:       projects,
		tasks:          tasks,
		quotes:         quotes,
		requirements:   requirements,
		updates:        updates,
		communications: communications,
		analytics:      analytics,
		log:            log,
	}
}

func (h *Handler) Register(router *gin.Engine) {
	api := router.Group("/api")

	api.GET("/clients", h.listClients)
	api.POST("/clients", h.createClient)
	api.GET("/clients/:id", h.getClient)
	api.PUT("/clients/:id", h.updateClient)
	api.DELETE("/clients/:id", h.deleteClient)

	api.GET("/projects", h.listProjects)
	api.POST("/projects", h.createProject)
	api.GET("/projects/:id", h.getProject)
	api.PUT("/projects/:id", h.updateProject)
	api.DELETE("/projects/:id", h.deleteProject)
	api.GET("/projects/:id/tasks", h.listProjectTasks)
	api.POST("/projects/:id/tasks", h.createProjectTask)
	api.GET("/projects/:id/tasks/kanban", h.projectKanban)
	api.GET("/projects/:id/requirements", h.listProjectRequirements)
	api.GET("/projects/:id/requirements/summary", h.projectRequirementsSummary)
	api.GET("/projects/:id/updates", h.listProjectUpdates)
	api.GET("/projects/:id/updates/latest", h.latestProjectUpdate)
	api.GET("/projects/:id/next-steps", h.projectNextSteps)
	api.GET("/projects/:id/status-overview", h.projectStatusOverview)

	api.GET("/tasks", h.listTasks)
	api.POST("/tasks", h.createTask)
	api.GET("/tasks/:id", h.getTask)
	api.PUT("/tasks/:id", h.updateTask)
	api.DELETE("/tasks/:id", h.deleteTask)
	api.PUT("/tasks/:id/progress", h.updateTaskProgress)
	api.GET("/tasks/:id/time-logs", h.listTaskTimeLogs)
	api.POST("/tasks/:id/time-logs", h.addTaskTimeLog)

	api.GET("/quotes", h.listQuotes)
	api.POST("/quotes", h.createQuote)
	api.GET("/quotes/:id", h.getQuote)
	api.PUT("/quotes/:id", h.updateQuote)
	api.DELETE("/quotes/:id", h.deleteQuote)
	api.POST("/quotes/:id/items", h.addQuoteItem)
	api.PUT("/quotes/:id/items/:itemId", h.updateQuoteItem)
	api.DELETE("/quotes/:id/items/:itemId", h.deleteQuoteItem)
	api.POST("/quotes/:id/send", h.sendQuote)
	api.GET("/quotes/:id/pdf", h.downloadQuotePDF)

	api.GET("/requirements", h.listRequirements)
	api.POST("/requirements", h.createRequirement)
	api.GET("/requirements/:id", h.getRequirement)
	api.PUT("/requirements/:id", h.updateRequirement)
	api.DELETE("/requirements/:id", h.deleteRequirement)

	api.GET("/project-updates", h.listUpdates)
	api.POST("/project-updates", h.createUpdate)
	api.GET("/project-updates/:id", h.getUpdate)
	api.PUT("/project-updates/:id", h.updateUpdate)
	api.DELETE("/project-updates/:id", h.deleteUpdate)

	api.GET("/communications", h.listCommunications)
	api.POST("/communications", h.createCommunication)

	api.GET("/analytics/dashboard", h.dashboard)
	api.GET("/analytics/revenue", h.revenue)
	api.GET("/analytics/pipeline", h.pipeline)
	api.GET("/analytics/export", h.exportDashboard)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return uint(id), true
}

func queryUint(c *gin.Context, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, errors.New("invalid " + name)
	}
	v := uint(value)
	return &v, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}

// parseOptionalDate maps an absent or empty string to nil.
func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := parseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
