package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aitools/platform-api/internal/api/metrics"
	"github.com/aitools/platform-api/internal/core/ports"
)

// ToolHandler handles HTTP requests for the tool catalog and dashboard.
type ToolHandler struct {
	service ports.ToolService
}

func NewToolHandler(service ports.ToolService) *ToolHandler {
	return &ToolHandler{service: service}
}

// List handles GET /tools.
//
// @Summary      List tools
// @Tags         tools
// @Produce      json
// @Security     BearerAuth
// @Param        category  query     string  false  "Category ID"
// @Param        role      query     string  false  "Role the tool is tagged for"
// @Param        tag       query     string  false  "Tag"
// @Param        search    query     string  false  "Partial match on name or description"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Page size (default 20, max 100)"
// @Success      200       {object}  listToolsResponse
// @Failure      401       {object}  errorResponse
// @Router       /tools [get]
func (h *ToolHandler) List(c echo.Context) error {
	var q listToolsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.service.ListTools(c.Request().Context(), toListInput(q))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// Get handles GET /tools/:id.
//
// @Summary      Get a tool
// @Tags         tools
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Tool ID"
// @Success      200  {object}  toolResponse
// @Failure      404  {object}  errorResponse
// @Router       /tools/{id} [get]
func (h *ToolHandler) Get(c echo.Context) error {
	tool, err := h.service.GetTool(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toToolResponse(tool))
}

// Create handles POST /tools.
//
// @Summary      Create a tool
// @Tags         tools
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      toolRequest  true  "Tool"
// @Success      201   {object}  toolResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /tools [post]
func (h *ToolHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req toolRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if err := validate(c, &req); err != nil {
		return err
	}

	tool, err := h.service.CreateTool(c.Request().Context(), p.User.ID, toToolInput(req))
	if err != nil {
		return err
	}
	metrics.ToolsCreatedTotal.WithLabelValues(string(p.User.Role)).Inc()

	return c.JSON(http.StatusCreated, toToolResponse(tool))
}

// Update handles PUT /tools/:id.
//
// @Summary      Update a tool
// @Tags         tools
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Tool ID"
// @Param        body  body      toolRequest  true  "Tool"
// @Success      200   {object}  toolResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /tools/{id} [put]
func (h *ToolHandler) Update(c echo.Context) error {
	var req toolRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if err := validate(c, &req); err != nil {
		return err
	}

	tool, err := h.service.UpdateTool(c.Request().Context(), c.Param("id"), toToolInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toToolResponse(tool))
}

// Delete handles DELETE /tools/:id.
//
// @Summary      Delete a tool
// @Tags         tools
// @Security     BearerAuth
// @Param        id   path  string  true  "Tool ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /tools/{id} [delete]
func (h *ToolHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteTool(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCategories handles GET /categories.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Category
// @Router       /categories [get]
func (h *ToolHandler) ListCategories(c echo.Context) error {
	cats, err := h.service.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cats)
}

// CreateCategory handles POST /categories.
//
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category"
// @Success      201   {object}  domain.Category
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /categories [post]
func (h *ToolHandler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if err := validate(c, &req); err != nil {
		return err
	}

	cat, err := h.service.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cat)
}

// Dashboard handles GET /dashboard.
//
// @Summary      Role-based dashboard
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorResponse
// @Router       /dashboard [get]
func (h *ToolHandler) Dashboard(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	d, err := h.service.Dashboard(c.Request().Context(), p.User)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDashboardResponse(d))
}
