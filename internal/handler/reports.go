package handler

import (
	"net/http"

	"koalgroup/internal/dto"
	"koalgroup/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Generate godoc
// @Summary Solicitar un reporte PDF
// @Description El reporte se genera en segundo plano con la visibilidad del solicitante.
// @Tags reports
// @Accept json
// @Produce json
// @Param body body dto.GenerateReportRequest true "Parametros del reporte"
// @Success 202 {object} dto.ReportResponse
// @Failure 400 {object} apierror.ValidationError
// @Failure 403 {object} apierror.APIError
// @Security BearerAuth
// @Router /api/reports/generate/ [post]
func (h *ReportsHandler) Generate(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	var req dto.GenerateReportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Generate(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// List godoc
// @Summary Listar reportes
// @Tags reports
// @Produce json
// @Success 200 {array} dto.ReportResponse
// @Security BearerAuth
// @Router /api/reports/ [get]
func (h *ReportsHandler) List(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) Get(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) Delete(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Download godoc
// @Summary Descargar el PDF de un reporte
// @Tags reports
// @Produce application/pdf
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError "El reporte aun no esta listo"
// @Security BearerAuth
// @Router /api/reports/{id}/download/ [get]
func (h *ReportsHandler) Download(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	path, name, err := h.svc.Download(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, name)
}

func (h *ReportsHandler) Register(g *gin.RouterGroup) {
	g.GET("/", h.List)
	g.POST("/generate/", h.Generate)
	g.GET("/:id/", h.Get)
	g.DELETE("/:id/", h.Delete)
	g.GET("/:id/download/", h.Download)
}
