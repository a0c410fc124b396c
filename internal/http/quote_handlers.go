package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emert/crm-service/internal/model"
	"github.com/emert/crm-service/internal/repository"
	"github.com/emert/crm-service/internal/service"
)

type quoteItemRequest struct {
	ServiceName string  `json:"service_name" binding:"required"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type createQuoteRequest struct {
	ClientID    uint               `json:"client_id" binding:"required"`
	ProjectID   *uint              `json:"project_id"`
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Status      string             `json:"status"`
	ValidUntil  *string            `json:"valid_until"`
	Items       []quoteItemRequest `json:"items"`
}

type updateQuoteRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	ValidUntil  *string `json:"valid_until"`
}

type updateQuoteItemRequest struct {
	ServiceName *string  `json:"service_name"`
	Description *string  `json:"description"`
	Quantity    *int     `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
}

func (h *Handler) listQuotes(c *gin.Context) {
	filter := repository.QuoteFilter{}
	if raw := c.Query("status"); raw != "" {
		status := model.QuoteStatus(raw)
		filter.Status = &status
	}
	clientID, err := queryUint(c, "client_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter.ClientID = clientID

	quotes, err := h.quotes.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}

func (h *Handler) getQuote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	quote, err := h.quotes.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *Handler) createQuote(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	validUntil, err := parseOptionalDate(req.ValidUntil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid valid_until"})
		return
	}

	items := make([]service.QuoteItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.QuoteItemInput{
			ServiceName: item.ServiceName,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	quote, err := h.quotes.Create(c.Request.Context(), service.CreateQuoteInput{
		ClientID:    req.ClientID,
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.QuoteStatus(req.Status),
		ValidUntil:  validUntil,
		Items:       items,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quote)
}

func (h *Handler) updateQuote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	validUntil, err := parseOptionalDate(req.ValidUntil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid valid_until"})
		return
	}

	input := service.UpdateQuoteInput{
		Title:       req.Title,
		Description: req.Description,
		ValidUntil:  validUntil,
	}
	if req.Status != nil {
		status := model.QuoteStatus(*req.Status)
		input.Status = &status
	}

	quote, err := h.quotes.Update(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *Handler) deleteQuote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.quotes.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "quote deleted"})
}

func (h *Handler) addQuoteItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req quoteItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.quotes.AddItem(c.Request.Context(), id, service.QuoteItemInput{
		ServiceName: req.ServiceName,
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) updateQuoteItem(c *gin.Context) {
	quoteID, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}

	var req updateQuoteItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.quotes.UpdateItem(c.Request.Context(), quoteID, itemID, service.UpdateQuoteItemInput{
		ServiceName: req.ServiceName,
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) deleteQuoteItem(c *gin.Context) {
	quoteID, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}
	if err := h.quotes.DeleteItem(c.Request.Context(), quoteID, itemID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "quote item deleted"})
}

func (h *Handler) sendQuote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	quote, err := h.quotes.Send(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *Handler) downloadQuotePDF(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	doc, err := h.quotes.RenderPDF(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+doc.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", doc.Content)
}
