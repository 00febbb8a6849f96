package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pdf_tools/pdf"
	"pdf_tools/service"
)

// Config holds application configuration
type Config struct {
	Port          string
	MaxFileSize   int64
	TempDir       string
	CORSOrigins   []string
	SplitDefault  pdf.SplitDefault
	SweepInterval time.Duration
	SweepMaxAge   time.Duration
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(config *Config, svc *service.Service, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = config.MaxFileSize
	r.Use(RequestLogger(logger), gin.Recovery(), CORS(config.CORSOrigins))

	SetupRoutes(r, config, svc, logger)
	return r
}

func SetupRoutes(r *gin.Engine, config *Config, svc *service.Service, logger *zap.Logger) {
	h := &Handler{config: config, svc: svc, logger: logger}

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/merge", h.HandleMerge)
		apiGroup.POST("/split", h.HandleSplit)
		apiGroup.POST("/compress", h.HandleCompress)
	}

	// Routes kept for clients of the first API version
	r.POST("/merge-pdfs", h.HandleMerge)
	r.POST("/compress-pdf", h.HandleCompress)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": ServiceName,
		})
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "PDF Tools API",
			"version": Version,
			"endpoints": []gin.H{
				{"path": "/api/merge", "method": http.MethodPost, "description": "Merge multiple PDF files"},
				{"path": "/api/split", "method": http.MethodPost, "description": "Split a PDF file into pages or ranges"},
				{"path": "/api/compress", "method": http.MethodPost, "description": "Compress a PDF file"},
				{"path": "/merge-pdfs", "method": http.MethodPost, "description": "Merge multiple PDF files"},
				{"path": "/compress-pdf", "method": http.MethodPost, "description": "Compress PDF files"},
			},
		})
	})
}
