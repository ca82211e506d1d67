package analyses

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/analyses/recommendations"
	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/server/respond"
)

// MaxUploadBytes caps the size of an uploaded resume.
const MaxUploadBytes = 10 << 20

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.uploadAnalysis)
	rg.POST("/analyses/text", h.textAnalysis)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
}

type textRequest struct {
	FileName  string `json:"fileName"`
	Text      string `json:"text"`
	PageCount int    `json:"pageCount"`
	Count     *int   `json:"count"`
}

func (h *Handler) uploadAnalysis(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodeTooLarge, "file exceeds upload limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "file is required", []map[string]string{
			{"field": "file", "issue": "missing"},
		})
		return
	}
	if fileHeader.Size > MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodeTooLarge, "file exceeds upload limit", nil)
		return
	}
	count, ok := parseCount(c, c.PostForm("count"))
	if !ok {
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "could not read file", nil)
		return
	}
	defer f.Close()

	ctx := h.requestContext(c)
	analysis, err := h.Svc.AnalyzeDocument(ctx, middleware.UserIDFromContext(c), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), f, count)
	if err != nil {
		h.writeError(c, err, "failed to analyze document")
		return
	}
	h.created(c, analysis)
}

func (h *Handler) textAnalysis(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid JSON body", nil)
		return
	}
	count := 0
	if req.Count != nil {
		count = recommendations.ClampCount(*req.Count)
	}

	analysis, err := h.Svc.Analyze(h.requestContext(c), Input{
		UserID:        middleware.UserIDFromContext(c),
		FileName:      strings.TrimSpace(req.FileName),
		Text:          req.Text,
		PageCount:     req.PageCount,
		ResourceCount: count,
	})
	if err != nil {
		h.writeError(c, err, "failed to analyze text")
		return
	}
	h.created(c, analysis)
}

func (h *Handler) getAnalysis(c *gin.Context) {
	analysisID := c.Param("id")
	analysis, err := h.Svc.Get(h.requestContext(c), analysisID)
	if err != nil {
		h.writeError(c, err, "failed to fetch analysis")
		return
	}
	c.Set("analysisId", analysis.ID)
	respond.OK(c, analysis)
}

func (h *Handler) listAnalyses(c *gin.Context) {
	limit, offset := 20, 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	limit, offset = normalizePage(limit, offset)

	analyses, err := h.Svc.List(h.requestContext(c), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		h.writeError(c, err, "failed to list analyses")
		return
	}

	items := make([]gin.H, 0, len(analyses))
	for _, a := range analyses {
		items = append(items, gin.H{
			"id":        a.ID,
			"fileName":  a.FileName,
			"name":      a.Record.Name,
			"track":     a.Classification.Track,
			"label":     a.Classification.Label,
			"level":     a.Classification.Level,
			"createdAt": a.CreatedAt,
		})
	}
	respond.OK(c, gin.H{"items": items, "limit": limit, "offset": offset})
}

func (h *Handler) created(c *gin.Context, analysis Analysis) {
	c.Set("analysisId", analysis.ID)
	c.Set("track", string(analysis.Classification.Track))
	respond.JSON(c, http.StatusCreated, analysis)
}

func (h *Handler) requestContext(c *gin.Context) context.Context {
	return WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "analysis not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), nil)
	case errors.Is(err, extract.ErrUnsupported):
		respond.Error(c, http.StatusUnsupportedMediaType, ErrorCodeUnsupported, "only PDF, DOCX and plain text resumes are supported", nil)
	case errors.Is(err, ErrUnreadable):
		respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeUnreadable, "could not read text from document", nil)
	case errors.As(err, &tooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodeTooLarge, "file exceeds upload limit", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, fallback, nil)
	}
}

// parseCount reads the optional resource count. Out of range values are
// clamped; non-numeric values are rejected.
func parseCount(c *gin.Context, raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "count must be an integer", []map[string]string{
			{"field": "count", "issue": "not_integer"},
		})
		return 0, false
	}
	return recommendations.ClampCount(n), true
}
