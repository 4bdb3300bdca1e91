package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Emmand87/ricomu-knowledge-service/src/core/knowledge"
)

type KnowledgeHandler struct {
	ingestion *knowledge.IngestionPipeline
	retrieval *knowledge.RetrievalPipeline
}

func NewKnowledgeHandler(ingestion *knowledge.IngestionPipeline, retrieval *knowledge.RetrievalPipeline) (*KnowledgeHandler, error) {
	return &KnowledgeHandler{
		ingestion: ingestion,
		retrieval: retrieval,
	}, nil
}

// RegisterRoutes registers the knowledge API routes
func (h *KnowledgeHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/knowledge/health", h.Health)
	r.POST("/knowledge/ingest", h.Ingest)
	r.POST("/knowledge/search", h.Search)
}

// Health handles GET /knowledge/health
func (h *KnowledgeHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// IngestRequest is the body of POST /knowledge/ingest
type IngestRequest struct {
	Items     []knowledge.DocumentDescriptor `json:"items"`
	ChunkSize int                            `json:"chunk_size"`
}

// Ingest handles POST /knowledge/ingest
func (h *KnowledgeHandler) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.ChunkSize <= 0 {
		req.ChunkSize = knowledge.DefaultChunkSize
	}

	result, err := h.ingestion.Ingest(c.Request.Context(), req.Items, req.ChunkSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"inserted": result.Inserted,
		"skipped":  result.Skipped,
	})
}

// SearchRequest is the body of POST /knowledge/search
type SearchRequest struct {
	Queries []string `json:"queries"`
	K       int      `json:"k"`
}

// Search handles POST /knowledge/search
func (h *KnowledgeHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.K <= 0 {
		req.K = knowledge.DefaultSearchLimit
	}

	results, err := h.retrieval.Search(c.Request.Context(), req.Queries, req.K)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, results)
}
