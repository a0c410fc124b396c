package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emert/crm-service/internal/model"
	"github.com/emert/crm-service/internal/repository"
	"github.com/emert/crm-service/internal/service"
)

type createCommunicationRequest struct {
	ClientID  uint   `json:"client_id" binding:"required"`
	ProjectID *uint  `json:"project_id"`
	UserID    uint   `json:"user_id"`
	Type      string `json:"type" binding:"required"`
	Subject   string `json:"subject"`
	Content   string `json:"content" binding:"required"`
}

func (h *Handler) listCommunications(c *gin.Context) {
	filter := repository.CommunicationFilter{}
	clientID, err := queryUint(c, "client_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter.ClientID = clientID
	projectID, err := queryUint(c, "project_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter.ProjectID = projectID

	communications, err := h.communications.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, communications)
}

func (h *Handler) createCommunication(c *gin.Context) {
	var req createCommunicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	communication, err := h.communications.Create(c.Request.Context(), service.CreateCommunicationInput{
		ClientID:  req.ClientID,
		ProjectID: req.ProjectID,
		UserID:    req.UserID,
		Type:      model.CommunicationType(req.Type),
		Subject:   req.Subject,
		Content:   req.Content,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, communication)
}
