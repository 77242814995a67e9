package handler

import (
	"context"
	"net/http"

	"koalgroup/internal/dto"
	"koalgroup/internal/policy"
	"koalgroup/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// crudService is the retrieve/create/update/delete half every resource
// service shares. C and U are the create and update requests, R the response.
type crudService[C, U, R any] interface {
	Get(ctx context.Context, c policy.Caller, id uuid.UUID) (*R, error)
	Create(ctx context.Context, c policy.Caller, req C) (*R, error)
	Update(ctx context.Context, c policy.Caller, id uuid.UUID, req U) (*R, error)
	Delete(ctx context.Context, c policy.Caller, id uuid.UUID) error
}

type filteredService[C, U, R any] interface {
	crudService[C, U, R]
	List(ctx context.Context, c policy.Caller, f dto.ListFilter) ([]R, error)
}

type plainService[C, U, R any] interface {
	crudService[C, U, R]
	List(ctx context.Context, c policy.Caller) ([]R, error)
}

// ResourceHandler serves /api/<resource>/ and /api/<resource>/:id/.
type ResourceHandler[C, U, R any] struct {
	svc  crudService[C, U, R]
	list func(ctx context.Context, c policy.Caller, f dto.ListFilter) ([]R, error)
}

func newFiltered[C, U, R any](svc filteredService[C, U, R]) *ResourceHandler[C, U, R] {
	return &ResourceHandler[C, U, R]{svc: svc, list: svc.List}
}

// newPlain serves a resource whose list ignores ?project, ?from and ?to.
func newPlain[C, U, R any](svc plainService[C, U, R]) *ResourceHandler[C, U, R] {
	return &ResourceHandler[C, U, R]{svc: svc, list: func(ctx context.Context, c policy.Caller, _ dto.ListFilter) ([]R, error) {
		return svc.List(ctx, c)
	}}
}

type (
	UsersHandler             = ResourceHandler[dto.CreateUserRequest, dto.UpdateUserRequest, dto.UserResponse]
	ProjectsHandler          = ResourceHandler[dto.CreateProjectRequest, dto.UpdateProjectRequest, dto.ProjectResponse]
	ProductionRecordsHandler = ResourceHandler[dto.CreateProductionRecordRequest, dto.UpdateProductionRecordRequest, dto.ProductionRecordResponse]
	AccessLogsHandler        = ResourceHandler[dto.CreateAccessLogRequest, dto.UpdateAccessLogRequest, dto.AccessLogResponse]
	GasRecordsHandler        = ResourceHandler[dto.CreateGasRecordRequest, dto.UpdateGasRecordRequest, dto.GasRecordResponse]
	WorkFrontsHandler        = ResourceHandler[dto.CreateWorkFrontRequest, dto.UpdateWorkFrontRequest, dto.WorkFrontResponse]
	InventoryItemsHandler    = ResourceHandler[dto.CreateInventoryItemRequest, dto.UpdateInventoryItemRequest, dto.InventoryItemResponse]
	ToolsHandler             = ResourceHandler[dto.CreateToolRequest, dto.UpdateToolRequest, dto.ToolResponse]
)

func NewUsersHandler(svc service.UserService) *UsersHandler {
	return newPlain[dto.CreateUserRequest, dto.UpdateUserRequest, dto.UserResponse](svc)
}

func NewProjectsHandler(svc service.ProjectService) *ProjectsHandler {
	return newFiltered[dto.CreateProjectRequest, dto.UpdateProjectRequest, dto.ProjectResponse](svc)
}

func NewProductionRecordsHandler(svc service.ProductionRecordService) *ProductionRecordsHandler {
	return newFiltered[dto.CreateProductionRecordRequest, dto.UpdateProductionRecordRequest, dto.ProductionRecordResponse](svc)
}

func NewAccessLogsHandler(svc service.AccessLogService) *AccessLogsHandler {
	return newFiltered[dto.CreateAccessLogRequest, dto.UpdateAccessLogRequest, dto.AccessLogResponse](svc)
}

func NewGasRecordsHandler(svc service.GasRecordService) *GasRecordsHandler {
	return newFiltered[dto.CreateGasRecordRequest, dto.UpdateGasRecordRequest, dto.GasRecordResponse](svc)
}

func NewWorkFrontsHandler(svc service.WorkFrontService) *WorkFrontsHandler {
	return newFiltered[dto.CreateWorkFrontRequest, dto.UpdateWorkFrontRequest, dto.WorkFrontResponse](svc)
}

func NewInventoryItemsHandler(svc service.InventoryItemService) *InventoryItemsHandler {
	return newPlain[dto.CreateInventoryItemRequest, dto.UpdateInventoryItemRequest, dto.InventoryItemResponse](svc)
}

func NewToolsHandler(svc service.ToolService) *ToolsHandler {
	return newPlain[dto.CreateToolRequest, dto.UpdateToolRequest, dto.ToolResponse](svc)
}

// Register mounts the five routes under g. PUT and PATCH share the
// partial-update handler.
func (h *ResourceHandler[C, U, R]) Register(g *gin.RouterGroup) {
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.GET("/:id/", h.Get)
	g.PUT("/:id/", h.Update)
	g.PATCH("/:id/", h.Update)
	g.DELETE("/:id/", h.Delete)
}

func (h *ResourceHandler[C, U, R]) List(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	var filter dto.ListFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.list(c.Request.Context(), caller, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ResourceHandler[C, U, R]) Get(c *gin.Context) {
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

func (h *ResourceHandler[C, U, R]) Create(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	var req C
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ResourceHandler[C, U, R]) Update(c *gin.Context) {
	caller, ok := callerOf(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req U
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), caller, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ResourceHandler[C, U, R]) Delete(c *gin.Context) {
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
