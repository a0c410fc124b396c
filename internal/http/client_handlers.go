package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emert/crm-service/internal/service"
)

func (h *Handler) listClients(c *gin.Context) {
	clients, err := h.clients.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *Handler) getClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	client, err := h.clients.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *Handler) createClient(c *gin.Context) {
	var req service.CreateClientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.clients.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *Handler) updateClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateClientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.clients.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *Handler) deleteClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.clients.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "client deleted"})
}
