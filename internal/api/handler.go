// Package api exposes the batch pipeline and the on-demand repricer
// over HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wyzinc/marketsync/internal/classify"
	"github.com/wyzinc/marketsync/internal/model"
	"github.com/wyzinc/marketsync/internal/pricing"
)

// BatchService is the slice of the classify service the handlers use
type BatchService interface {
	RunBatch(ctx context.Context) (classify.BatchSummary, error)
	Records() []model.ClassifiedRecord
	Enrich(ctx context.Context, n int) (int, error)
	ClearCache(ctx context.Context) error
}

// Handler wires HTTP routes to the batch service
type Handler struct {
	svc BatchService
	log *zap.Logger
}

// NewHandler creates the API handler
func NewHandler(svc BatchService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// Register mounts all routes on the engine
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", h.health)

	v1 := r.Group("/api/v1")
	v1.POST("/quote", h.quote)
	v1.POST("/classify", h.classifyBatch)
	v1.GET("/records", h.records)
	v1.POST("/records/enrich", h.enrich)
	v1.DELETE("/cache", h.clearCache)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type quoteRequest struct {
	Cost            decimal.Decimal     `json:"cost" binding:"required"`
	CompetitorPrice decimal.NullDecimal `json:"competitor_price"`
}

// quote reprices a single item without running a batch
func (h *Handler) quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Cost.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cost must not be negative"})
		return
	}

	quote := pricing.Decide(req.Cost, req.CompetitorPrice)
	c.JSON(http.StatusOK, gin.H{
		"floor_price":   quote.Floor,
		"selling_price": quote.Final,
		"margin":        quote.Margin,
	})
}

func (h *Handler) classifyBatch(c *gin.Context) {
	summary, err := h.svc.RunBatch(c.Request.Context())
	if err != nil {
		h.log.Error("batch run failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) records(c *gin.Context) {
	records := h.svc.Records()
	if status := c.Query("status"); status != "" {
		filtered := make([]model.ClassifiedRecord, 0, len(records))
		for _, rec := range records {
			if string(rec.Class.Status) == status {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "records": records})
}

type enrichRequest struct {
	Limit int `json:"limit"`
}

func (h *Handler) enrich(c *gin.Context) {
	var req enrichRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	enriched, err := h.svc.Enrich(c.Request.Context(), req.Limit)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enriched": enriched})
}

func (h *Handler) clearCache(c *gin.Context) {
	if err := h.svc.ClearCache(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
