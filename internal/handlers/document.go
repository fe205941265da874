package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/draftwell/grantdocs/internal/apierr"
	"github.com/draftwell/grantdocs/internal/logger"
	"github.com/draftwell/grantdocs/internal/services"
)

type DocumentHandler struct {
	log             *logger.Logger
	documentService services.DocumentService
	worker          *services.BuildWorker
}

func NewDocumentHandler(log *logger.Logger, dsvc services.DocumentService, worker *services.BuildWorker) *DocumentHandler {
	return &DocumentHandler{
		log:             log.With("handler", "DocumentHandler"),
		documentService: dsvc,
		worker:          worker,
	}
}

type createDocumentRequest struct {
	Program  string            `json:"program"`
	DocType  string            `json:"docType"`
	Title    string            `json:"title"`
	FolderID string            `json:"folderId"`
	Data     map[string]string `json:"data"`
	Async    bool              `json:"async"`
}

// POST /api/documents
// Builds a document from a registered template. With async=true the build is
// recorded and queued, and the caller polls GET /api/documents/:id.
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation(err))
		return
	}
	buildReq := services.BuildRequest{
		Program:  req.Program,
		DocType:  req.DocType,
		Title:    req.Title,
		FolderID: req.FolderID,
		Data:     req.Data,
	}
	if req.Async {
		build, err := h.documentService.StartBuild(c.Request.Context(), buildReq)
		if err != nil {
			RespondError(c, err)
			return
		}
		h.worker.Enqueue(build.ID)
		c.JSON(http.StatusAccepted, build)
		return
	}
	result, err := h.documentService.Build(c.Request.Context(), buildReq)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

// GET /api/documents/:id
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation(errors.New("invalid build id")))
		return
	}
	build, err := h.documentService.GetBuild(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, build)
}

// POST /api/documents/:id/resume
// Re-runs cell population (and the folder move) for a build that failed
// after its content batch was applied.
func (h *DocumentHandler) ResumeDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation(errors.New("invalid build id")))
		return
	}
	result, err := h.documentService.Resume(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}
