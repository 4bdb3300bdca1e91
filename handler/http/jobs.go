package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Emmand87/ricomu-knowledge-service/src/core/knowledge"
	jobctrl "github.com/Emmand87/ricomu-knowledge-service/src/infrastructure/job"
)

// JobHandler exposes async ingest jobs over HTTP. It is only mounted when
// the AMQP queue is configured.
type JobHandler struct {
	service *jobctrl.JobService
}

func NewJobHandler(service *jobctrl.JobService) (*JobHandler, error) {
	return &JobHandler{
		service: service,
	}, nil
}

// RegisterRoutes registers the job API routes
func (h *JobHandler) RegisterRoutes(r *gin.Engine) {
	r.POST("/knowledge/jobs", h.EnqueueIngest)
	r.GET("/knowledge/jobs/:id", h.GetJob)
}

// EnqueueIngest handles POST /knowledge/jobs
func (h *JobHandler) EnqueueIngest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.ChunkSize <= 0 {
		req.ChunkSize = knowledge.DefaultChunkSize
	}

	j, err := h.service.EnqueueIngest(c.Request.Context(), jobctrl.IngestPayload{
		Items:     req.Items,
		ChunkSize: req.ChunkSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"job_id": j.ID, "status": j.Status})
}

// GetJob handles GET /knowledge/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
		return
	}

	j, err := h.service.GetJob(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if j == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, j)
}
