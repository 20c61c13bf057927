package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/seminar-service/internal/models"
	"github.com/SAP-F-2025/seminar-service/internal/services"
	"github.com/SAP-F-2025/seminar-service/internal/utils"
	"github.com/SAP-F-2025/seminar-service/internal/validator"
)

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
	exportService services.ExportService
}

func NewReportHandler(reportService services.ReportService, exportService services.ExportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
		exportService: exportService,
	}
}

// CreateReport uploads a report file with its metadata
// @Summary Upload report
// @Tags reports
// @Security BearerAuth
// @Accept multipart/form-data
// @Param title formData string true "Report title"
// @Param topicId formData string true "Topic id"
// @Param file formData file true "Report document (.pdf, .doc, .docx, max 10 MiB)"
// @Success 201 {object} models.Report
// @Failure 400 {object} ErrorResponse
// @Router /reports [post]
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req validator.ReportCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Report file is required", Details: err.Error()})
		return
	}

	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Failed to read uploaded file", Details: err.Error()})
		return
	}
	defer f.Close()

	upload := &services.FileUpload{
		Name:   fileHeader.Filename,
		Size:   fileHeader.Size,
		Reader: f,
	}

	report, err := h.reportService.Create(c.Request.Context(), &req, upload, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// GetReport retrieves report metadata
// @Summary Get report
// @Tags reports
// @Security BearerAuth
// @Router /reports/{id} [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	report, err := h.reportService.GetByID(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListReports lists reports scoped to the acting role
// @Summary List reports
// @Tags reports
// @Security BearerAuth
// @Router /reports [get]
func (h *ReportHandler) ListReports(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	opts := services.ReportListOptions{
		StudentID: optStringQuery(c, "studentId"),
		TopicID:   optStringQuery(c, "topicId"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Limit:     intQuery(c, "limit", 20),
		Offset:    intQuery(c, "offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.ReportStatus(raw)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid status filter", Details: raw})
			return
		}
		opts.Status = &status
	}

	reports, total, err := h.reportService.List(c.Request.Context(), opts, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: reports, Total: total, Limit: opts.Limit, Offset: opts.Offset})
}

// UpdateReport updates report metadata within the acting role's field mask
// @Summary Update report
// @Tags reports
// @Security BearerAuth
// @Router /reports/{id} [put]
func (h *ReportHandler) UpdateReport(c *gin.Context) {
	var req validator.ReportUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	report, err := h.reportService.Update(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// DeleteReport deletes a report and its stored file
// @Summary Delete report
// @Tags reports
// @Security BearerAuth
// @Router /reports/{id} [delete]
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.reportService.Delete(c.Request.Context(), c.Param("id"), actor); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report deleted"})
}

// DownloadReport serves the report file, either by redirect to a presigned
// URL or by streaming the bytes with the original filename.
// @Summary Download report file
// @Tags reports
// @Security BearerAuth
// @Router /reports/{id}/download [get]
func (h *ReportHandler) DownloadReport(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	report, obj, err := h.reportService.Download(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if obj.URL != "" {
		c.Redirect(http.StatusFound, obj.URL)
		return
	}

	defer obj.Reader.Close()
	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", report.FileName),
	})
}

// ExportReports downloads every report as an XLSX workbook
// @Summary Export reports
// @Tags reports
// @Security BearerAuth
// @Router /reports/export [get]
func (h *ReportHandler) ExportReports(c *gin.Context) {
	actor, ok := h.currentUser(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportService.ExportReports(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
