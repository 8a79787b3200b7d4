package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/paystub-extraction/dto"
	"github.com/Aashish23092/paystub-extraction/report"
	"github.com/Aashish23092/paystub-extraction/service"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	queryDateLayout = "2006-01-02"
)

type PaystubHandler struct {
	paystubService *service.PaystubService
}

func NewPaystubHandler(paystubService *service.PaystubService) *PaystubHandler {
	return &PaystubHandler{
		paystubService: paystubService,
	}
}

// RegisterRoutes mounts the health check and the /api/v1/paystubs group.
func (h *PaystubHandler) RegisterRoutes(router *gin.Engine) {
	router.Use(RequestID())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Pay Stub Extraction",
		})
	})

	api := router.Group("/api/v1")
	{
		paystubs := api.Group("/paystubs")
		{
			paystubs.POST("/parse", h.Parse)
			paystubs.POST("/batch", h.Batch)
			paystubs.POST("/report", h.Report)
			paystubs.GET("/history", h.History)
		}
	}
}

// Parse handles POST /paystubs/parse
func (h *PaystubHandler) Parse(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "File is required", err)
		return
	}

	strategy, err := dto.ParseStrategy(c.PostForm("strategy"))
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid strategy", err)
		return
	}

	req, err := readUpload(fileHeader, c.PostForm("password"), strategy)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to read file", err)
		return
	}

	log.Printf("Parsing pay stub %s (%d bytes)", req.Filename, len(req.Data))
	response, err := h.paystubService.ParseDocument(c.Request.Context(), req)
	if err != nil {
		h.sendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Batch handles POST /paystubs/batch
func (h *PaystubHandler) Batch(c *gin.Context) {
	reqs, ok := h.readBatch(c)
	if !ok {
		return
	}

	log.Printf("Processing %d files", len(reqs))
	response := h.paystubService.ParseBatch(c.Request.Context(), reqs)
	c.JSON(http.StatusOK, response)
}

// Report handles POST /paystubs/report. An optional "workbook" upload is
// extended instead of starting a new one.
func (h *PaystubHandler) Report(c *gin.Context) {
	reqs, ok := h.readBatch(c)
	if !ok {
		return
	}

	var existing []byte
	if wb, err := c.FormFile("workbook"); err == nil {
		existing, err = readFile(wb)
		if err != nil {
			h.sendError(c, http.StatusBadRequest, "Failed to read workbook", err)
			return
		}
	}

	book, batch, err := h.paystubService.BuildReport(c.Request.Context(), existing, reqs)
	if err != nil {
		h.sendServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="paystubs.xlsx"`)
	c.Header("X-Parse-Failures", strconv.Itoa(len(batch.Failures)))
	c.Data(http.StatusOK, xlsxContentType, book)
}

// History handles GET /paystubs/history?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *PaystubHandler) History(c *gin.Context) {
	from, err := parseQueryDate(c.Query("from"))
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	to, err := parseQueryDate(c.Query("to"))
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid to date", err)
		return
	}

	entries, err := h.paystubService.History(c.Request.Context(), from, to)
	if err != nil {
		h.sendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *PaystubHandler) readBatch(c *gin.Context) ([]*dto.ParseRequest, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to parse multipart form", err)
		return nil, false
	}

	files := form.File["files[]"]
	if len(files) == 0 {
		h.sendError(c, http.StatusBadRequest, "No files provided", dto.ErrNoFiles)
		return nil, false
	}

	strategy, err := dto.ParseStrategy(c.PostForm("strategy"))
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid strategy", err)
		return nil, false
	}

	password := c.PostForm("password")
	reqs := make([]*dto.ParseRequest, 0, len(files))
	for _, fh := range files {
		req, err := readUpload(fh, password, strategy)
		if err != nil {
			h.sendError(c, http.StatusBadRequest, "Failed to read file", err)
			return nil, false
		}
		reqs = append(reqs, req)
	}
	return reqs, true
}

func readUpload(fh *multipart.FileHeader, password string, strategy dto.Strategy) (*dto.ParseRequest, error) {
	data, err := readFile(fh)
	if err != nil {
		return nil, err
	}
	return &dto.ParseRequest{
		Filename: fh.Filename,
		Data:     data,
		Password: password,
		Strategy: strategy,
	}, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fh.Filename, err)
	}
	return data, nil
}

func parseQueryDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(queryDateLayout, s)
}

// sendServiceError maps service errors onto HTTP status codes
func (h *PaystubHandler) sendServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dto.ErrFileTooLarge):
		h.sendCodedError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error(), err)
	case errors.Is(err, dto.ErrEmptyFile):
		h.sendCodedError(c, http.StatusBadRequest, "EMPTY_FILE", err.Error(), err)
	case errors.Is(err, dto.ErrUnsupportedFile):
		h.sendCodedError(c, http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE", err.Error(), err)
	case errors.Is(err, dto.ErrPeriodExists):
		h.sendCodedError(c, http.StatusConflict, "PERIOD_EXISTS", err.Error(), err)
	case errors.Is(err, dto.ErrStoreDisabled):
		h.sendCodedError(c, http.StatusNotFound, "HISTORY_DISABLED", err.Error(), err)
	case errors.Is(err, dto.ErrNoFiles):
		h.sendCodedError(c, http.StatusBadRequest, "NO_FILES", err.Error(), err)
	case errors.Is(err, report.ErrNoPayDate):
		h.sendCodedError(c, http.StatusUnprocessableEntity, "NO_PAY_DATE", err.Error(), err)
	case errors.Is(err, dto.ErrExtractionFailed):
		h.sendCodedError(c, http.StatusUnprocessableEntity, "EXTRACTION_FAILED", dto.ErrExtractionFailed.Error(), err)
	default:
		h.sendError(c, http.StatusInternalServerError, "Failed to process pay stub", err)
	}
}

// sendError sends a structured error response
func (h *PaystubHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
	}
	h.sendCodedError(c, statusCode, "REQUEST_FAILED", errorMsg, err)
}

func (h *PaystubHandler) sendCodedError(c *gin.Context, statusCode int, code, message string, err error) {
	if err != nil {
		log.Printf("Error: %s - %v", message, err)
	}
	c.JSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    statusCode,
	})
}
