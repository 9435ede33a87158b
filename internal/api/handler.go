// Package api exposes the listing analysis over plain JSON and multipart HTTP
// endpoints.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/BerylCAtieno/listing-expert-agent/internal/apperrors"
	"github.com/BerylCAtieno/listing-expert-agent/internal/collector"
	"github.com/BerylCAtieno/listing-expert-agent/internal/models"
	"github.com/BerylCAtieno/listing-expert-agent/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// jsonOverhead is the allowance for field names, product metadata and
// competitor copy on top of the two file contents in a JSON body.
const jsonOverhead = 64 << 10

type Handler struct {
	svc     *service.Service
	maxBody int64
	logger  *zap.Logger
}

// NewHandler returns the REST handler. maxUploadBytes is the per-file cap;
// JSON bodies may carry two files' worth plus jsonOverhead. Zero disables
// the body limit.
func NewHandler(svc *service.Service, maxUploadBytes int64, logger *zap.Logger) *Handler {
	h := &Handler{
		svc:    svc,
		logger: logger.Named("api"),
	}
	if maxUploadBytes > 0 {
		h.maxBody = 2*maxUploadBytes + jsonOverhead
	}
	return h
}

// Register mounts the analysis routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.POST("/api/analyze", h.Analyze)
	r.POST("/api/analyze/upload", h.AnalyzeUpload)
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Analyze accepts a ListingInputData JSON body.
func (h *Handler) Analyze(c *gin.Context) {
	body := c.Request.Body
	if h.maxBody > 0 {
		body = http.MaxBytesReader(c.Writer, body, h.maxBody)
	}

	var req models.ListingInputData
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.handleError(c, apperrors.NewValidationError(
				fmt.Sprintf("request body exceeds the %d byte limit", tooLarge.Limit)))
			return
		}
		h.handleError(c, apperrors.NewValidationError(fmt.Sprintf("invalid JSON body: %v", err)))
		return
	}

	h.submit(c, &collector.Form{
		ProductName: req.ProductName,
		ProductDesc: req.ProductDesc,
		Competitors: req.Competitors,
		ABA:         collector.Source{Text: req.ABAFileContent},
		Review:      collector.Source{Text: req.ReviewFileContent},
	})
}

// AnalyzeUpload accepts the multipart form submitted by the upload page.
func (h *Handler) AnalyzeUpload(c *gin.Context) {
	form := &collector.Form{
		ProductName: c.PostForm("productName"),
		ProductDesc: c.PostForm("productDesc"),
	}

	for i := 1; i <= collector.MaxCompetitors; i++ {
		comp := models.CompetitorListing{
			URL:     c.PostForm(fmt.Sprintf("competitorUrl%d", i)),
			Title:   c.PostForm(fmt.Sprintf("competitorTitle%d", i)),
			Bullets: c.PostForm(fmt.Sprintf("competitorBullets%d", i)),
		}
		form.Competitors = append(form.Competitors, comp)
	}

	var err error
	var closers []multipart.File
	defer func() {
		for _, f := range closers {
			_ = f.Close()
		}
	}()

	if form.ABA, err = h.source(c, "abaFile", "abaContent", &closers); err != nil {
		h.handleError(c, err)
		return
	}
	if form.Review, err = h.source(c, "reviewFile", "reviewContent", &closers); err != nil {
		h.handleError(c, err)
		return
	}

	h.submit(c, form)
}

func (h *Handler) source(c *gin.Context, fileField, textField string, closers *[]multipart.File) (collector.Source, error) {
	header, err := c.FormFile(fileField)
	if errors.Is(err, http.ErrMissingFile) {
		return collector.Source{Text: c.PostForm(textField)}, nil
	}
	if err != nil {
		return collector.Source{}, apperrors.NewValidationError(fmt.Sprintf("invalid upload %s: %v", fileField, err), fileField)
	}

	f, err := header.Open()
	if err != nil {
		return collector.Source{}, apperrors.NewInternalError(fmt.Errorf("open upload %s: %w", fileField, err))
	}
	*closers = append(*closers, f)
	return collector.Source{Name: header.Filename, Reader: f}, nil
}

func (h *Handler) submit(c *gin.Context, form *collector.Form) {
	res, err := h.svc.Submit(c.Request.Context(), form)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res.Results)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(t apperrors.ErrorType) int {
	switch t {
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeConfiguration:
		return http.StatusServiceUnavailable
	case apperrors.ErrorTypeProvider, apperrors.ErrorTypeFormat:
		return http.StatusBadGateway
	case apperrors.ErrorTypeBusy:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError(err)
	}

	h.logger.Warn("analysis request failed",
		zap.String("request_id", RequestIDFrom(c)),
		zap.String("type", string(appErr.Type)),
		zap.Error(err))
	_ = c.Error(err)

	c.JSON(StatusFor(appErr.Type), &apperrors.Error{
		Type:    appErr.Type,
		Message: apperrors.UserMessage(appErr),
		Details: appErr.Details,
	})
}
