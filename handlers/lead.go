package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"securelead/models"
	"securelead/monitoring"
	"securelead/utils"
)

type LeadHandler struct {
	repo  models.Repository
	cache utils.RedisClient
	kafka utils.KafkaProducer
	es    utils.ElasticsearchClient
}

// NewLeadHandler собирает обработчик лидов. kafka и es могут быть nil —
// тогда события и поиск отключены, CRUD продолжает работать.
func NewLeadHandler(repo models.Repository, cache utils.RedisClient, kafka utils.KafkaProducer, es utils.ElasticsearchClient) *LeadHandler {
	return &LeadHandler{
		repo:  repo,
		cache: cache,
		kafka: kafka,
		es:    es,
	}
}

type LeadRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// ListLeads — GET /leads. Все лиды в порядке хранилища, без пагинации.
func (h *LeadHandler) ListLeads(c *gin.Context) {
	leads, err := h.repo.ListLeads(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "Failed to fetch leads")
		return
	}

	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

// CreateLead — POST /leads.
func (h *LeadHandler) CreateLead(c *gin.Context) {
	var req LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and email are required"})
		return
	}

	lead := &models.Lead{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
	}

	leadID, err := h.repo.CreateLead(c.Request.Context(), lead)
	if err != nil {
		h.leadError(c, err, "Failed to create lead")
		return
	}

	monitoring.LeadsCreated.Inc()
	if h.kafka != nil {
		go h.publishLeadEvent("lead_created", leadID, lead)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lead created", "leadId": leadID})
}

// UpdateLead — PUT /leads. ID приходит в теле запроса.
func (h *LeadHandler) UpdateLead(c *gin.Context) {
	var req LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID, name, and email are required for update"})
		return
	}

	lead := &models.Lead{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
	}

	// Репозиторий возвращает в lead обновлённый документ целиком,
	// поэтому событие несёт полную запись с исходным CreatedAt
	if err := h.repo.UpdateLead(c.Request.Context(), req.ID, lead); err != nil {
		h.leadError(c, err, "Failed to update lead")
		return
	}

	h.invalidateCache(c.Request.Context(), req.ID)

	monitoring.LeadsUpdated.Inc()
	if h.kafka != nil {
		go h.publishLeadEvent("lead_updated", req.ID, lead)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lead updated"})
}

// DeleteLead — DELETE /leads?id=<id>.
func (h *LeadHandler) DeleteLead(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing ID for deletion"})
		return
	}

	if err := h.repo.DeleteLead(c.Request.Context(), id); err != nil {
		h.leadError(c, err, "Failed to delete lead")
		return
	}

	h.invalidateCache(c.Request.Context(), id)

	monitoring.LeadsDeleted.Inc()
	if h.kafka != nil {
		go h.publishLeadEvent("lead_deleted", id, nil)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lead deleted"})
}

// GetLead — GET /leads/:id. Сначала кеш, потом хранилище.
func (h *LeadHandler) GetLead(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if h.cache != nil {
		if cached, err := h.cache.GetFromCache(ctx, utils.LeadCacheKey(id)); err == nil && cached != "" {
			var lead models.Lead
			if err := json.Unmarshal([]byte(cached), &lead); err == nil {
				monitoring.CacheHits.Inc()
				c.JSON(http.StatusOK, gin.H{"lead": lead})
				return
			}
		}
	}

	lead, err := h.repo.GetLeadByID(ctx, id)
	if err != nil {
		h.leadError(c, err, "Failed to fetch lead")
		return
	}

	if h.cache != nil {
		if data, err := json.Marshal(lead); err == nil {
			if err := h.cache.SetToCache(ctx, utils.LeadCacheKey(id), string(data), 24*time.Hour); err != nil {
				log.Printf("Failed to cache lead %s: %v", id, err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"lead": lead})
}

// SearchLeads — GET /search?q=<строка>. Ищет по индексу, который ведёт консьюмер.
func (h *LeadHandler) SearchLeads(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	if h.es == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not available"})
		return
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q,
				"fields": []string{"name", "email", "phone", "location"},
			},
		},
	}

	results, err := h.es.SearchLeads(c.Request.Context(), utils.LeadsIndex, query)
	if err != nil {
		h.serverError(c, err, "Failed to search leads")
		return
	}

	c.JSON(http.StatusOK, gin.H{"leads": results})
}

// Вспомогательные методы

// leadError переводит ошибки репозитория в HTTP-статусы:
// валидация — 400, отсутствие лида — 404, всё остальное — 500 без деталей.
func (h *LeadHandler) leadError(c *gin.Context, err error, serverMsg string) {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No lead found with that ID"})
	default:
		h.serverError(c, err, serverMsg)
	}
}

func (h *LeadHandler) serverError(c *gin.Context, err error, msg string) {
	log.Printf("%s: %v", msg, err)
	_ = c.Error(err) // Детали уходят в Sentry, клиенту только общее сообщение
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func (h *LeadHandler) publishLeadEvent(event, leadID string, lead *models.Lead) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, err := json.Marshal(models.LeadEvent{Event: event, LeadID: leadID, Lead: lead})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}

	if err := h.kafka.SendMessage(ctx, utils.LeadEventsTopic, []byte(leadID), payload); err != nil {
		log.Printf("Failed to publish %s event: %v", event, err)
		return
	}

	monitoring.LeadEventsPublished.WithLabelValues(event).Inc()
}

// invalidateCache синхронно выбрасывает лида из кеша. Consumer тоже
// обновит кеш по событию, но без producer'а он не работает, поэтому
// нельзя полагаться только на него.
func (h *LeadHandler) invalidateCache(ctx context.Context, id string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.DeleteFromCache(ctx, utils.LeadCacheKey(id)); err != nil {
		log.Printf("Failed to invalidate lead %s in cache: %v", id, err)
	}
}
