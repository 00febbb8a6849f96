package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pdf_tools/pdf"
	"pdf_tools/service"
)

// Handler serves the document operations.
type Handler struct {
	config *Config
	svc    *service.Service
	logger *zap.Logger
}

func (h *Handler) HandleMerge(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}

	headers := form.File["files"]
	if len(headers) < 2 {
		h.respondError(c, "merge PDFs", pdf.ErrTooFewDocuments)
		return
	}

	// Check every upload before reading any of them
	for _, header := range headers {
		if err := h.checkUpload(header); err != nil {
			h.respondError(c, "merge PDFs", err)
			return
		}
	}

	inputs := make([]pdf.Input, 0, len(headers))
	for _, header := range headers {
		in, err := readUpload(header)
		if err != nil {
			h.respondError(c, "merge PDFs", err)
			return
		}
		inputs = append(inputs, in)
	}

	res, err := h.svc.Merge(inputs)
	if err != nil {
		h.respondError(c, "merge PDFs", err)
		return
	}
	defer res.Release()

	c.Header(HeaderMergedPages, strconv.Itoa(res.Report.Pages))
	if skipped := res.Report.Skipped(); len(skipped) > 0 {
		names := make([]string, len(skipped))
		for i, o := range skipped {
			names[i] = url.QueryEscape(o.Name)
		}
		c.Header(HeaderSkippedInputs, strings.Join(names, ","))
	}

	sendResult(c, res)
}

func (h *Handler) HandleSplit(c *gin.Context) {
	in, ok := h.singleUpload(c, "split PDF")
	if !ok {
		return
	}

	splitAll, err := parseBool(formValue(c, "split_all", "splitAll"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.Split(in, service.SplitRequest{
		Pages:    c.PostForm("pages"),
		SplitAll: splitAll,
	})
	if err != nil {
		h.respondError(c, "split PDF", err)
		return
	}
	defer res.Release()

	c.Header(HeaderSplitParts, strconv.Itoa(len(res.Parts)))
	sendResult(c, res)
}

func (h *Handler) HandleCompress(c *gin.Context) {
	in, ok := h.singleUpload(c, "compress PDF")
	if !ok {
		return
	}

	level := pdf.ParseLevel(formValue(c, "compression_level", "compressionLevel"))

	res, err := h.svc.Compress(in, level)
	if err != nil {
		h.respondError(c, "compress PDF", err)
		return
	}
	defer res.Release()

	c.Header(HeaderCompressionLevel, strconv.Itoa(res.Profile.Level))
	sendResult(c, res)
}

// singleUpload reads the "file" field, writing the error response itself
// when the upload is missing or rejected.
func (h *Handler) singleUpload(c *gin.Context, op string) (pdf.Input, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No PDF file provided"})
		return pdf.Input{}, false
	}
	if err := h.checkUpload(header); err != nil {
		h.respondError(c, op, err)
		return pdf.Input{}, false
	}

	in, err := readUpload(header)
	if err != nil {
		h.respondError(c, op, err)
		return pdf.Input{}, false
	}
	return in, true
}

func (h *Handler) checkUpload(header *multipart.FileHeader) error {
	if err := pdf.CheckDocumentType(header.Filename, header.Header.Get("Content-Type")); err != nil {
		return err
	}
	return pdf.CheckSize(header.Filename, header.Size, h.config.MaxFileSize)
}

func readUpload(header *multipart.FileHeader) (pdf.Input, error) {
	file, err := header.Open()
	if err != nil {
		return pdf.Input{}, fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return pdf.Input{}, fmt.Errorf("failed to read upload %s: %w", header.Filename, err)
	}
	return pdf.Input{Name: header.Filename, Data: data}, nil
}

// sendResult streams the result file. The caller releases it afterwards.
func sendResult(c *gin.Context, res *service.Result) {
	c.Header("Content-Type", res.MediaType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	c.File(res.Path)
}

// respondError maps err onto a status code: caller mistakes are 400 and name
// the offending item, everything else is a 500 carrying the cause.
func (h *Handler) respondError(c *gin.Context, op string, err error) {
	_ = c.Error(err)

	if pdf.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Error("PDF operation error", zap.String("operation", op), zap.Error(err))

	cause := err.Error()
	var transformErr *pdf.TransformError
	if errors.As(err, &transformErr) {
		cause = transformErr.Err.Error()
	}
	if len(cause) > MaxErrorMessageLength {
		cause = cause[:MaxErrorMessageLength] + "..."
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to %s: %s", op, cause)})
}

// formValue returns the first non-empty form value among keys.
func formValue(c *gin.Context, keys ...string) string {
	for _, key := range keys {
		if v := c.PostForm(key); v != "" {
			return v
		}
	}
	return ""
}

func parseBool(s string) (bool, error) {
	if s = strings.TrimSpace(s); s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid split_all value: %q", s)
	}
	return v, nil
}
