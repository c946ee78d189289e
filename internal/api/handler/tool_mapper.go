package handler

import (
	"github.com/aitools/platform-api/internal/core/domain"
	"github.com/aitools/platform-api/internal/core/ports"
)

// --- Request → Service input ---

func toToolInput(req toolRequest) ports.ToolInput {
	roles := make([]domain.Role, 0, len(req.Roles))
	for _, r := range req.Roles {
		roles = append(roles, domain.Role(r))
	}
	return ports.ToolInput{
		Name:        req.Name,
		Description: req.Description,
		URL:         req.URL,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		Roles:       roles,
		Tags:        req.Tags,
	}
}

func toListInput(q listToolsQuery) ports.ListToolsInput {
	return ports.ListToolsInput{
		CategoryID: q.Category,
		Role:       q.Role,
		Tag:        q.Tag,
		Search:     q.Search,
		Page:       q.Page,
		Limit:      q.Limit,
	}
}

// --- Service result → HTTP response ---

func toToolResponse(t *domain.Tool) toolResponse {
	roles := t.Roles
	if roles == nil {
		roles = []domain.Role{}
	}
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return toolResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		URL:         t.URL,
		ImageURL:    t.ImageURL,
		CategoryID:  t.CategoryID,
		Roles:       roles,
		Tags:        tags,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
		Links: toolLinks{
			Self:     "/tools/" + t.ID,
			Category: "/tools?category=" + t.CategoryID,
		},
	}
}

func toListResponse(r *ports.ListToolsResult) listToolsResponse {
	items := make([]toolResponse, 0, len(r.Items))
	for _, t := range r.Items {
		items = append(items, toToolResponse(t))
	}
	return listToolsResponse{
		Data: items,
		Pagination: paginationMeta{
			Page:       r.Page,
			Limit:      r.Limit,
			Total:      r.Total,
			TotalPages: r.TotalPages,
		},
	}
}

func toDashboardResponse(d *ports.Dashboard) dashboardResponse {
	return dashboardResponse{
		User:            d.User,
		Permissions:     d.Permissions,
		ToolsTotal:      d.ToolsTotal,
		ToolsForRole:    d.ToolsForRole,
		ToolsByCategory: d.ToolsByCategory,
	}
}
