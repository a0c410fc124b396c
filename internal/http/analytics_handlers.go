package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) dashboard(c *gin.Context) {
	metrics, err := h.analytics.Dashboard(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (h *Handler) revenue(c *gin.Context) {
	report, err := h.analytics.Revenue(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) pipeline(c *gin.Context) {
	report, err := h.analytics.Pipeline(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) exportDashboard(c *gin.Context) {
	export, err := h.analytics.Export(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Disposition", "attachment; filename=\""+export.FileName+"\"")
	c.Data(http.StatusOK, contentType, export.Content)
}
