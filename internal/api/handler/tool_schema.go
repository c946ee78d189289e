package handler

import (
	"time"

	"github.com/aitools/platform-api/internal/core/domain"
)

// --- Request types ---

type toolRequest struct {
	Name        string   `json:"name"        validate:"required,max=255"`
	Description string   `json:"description" validate:"max=2000"`
	URL         string   `json:"url"         validate:"required,url"`
	ImageURL    string   `json:"image_url"   validate:"omitempty,url"`
	CategoryID  string   `json:"category_id" validate:"required"`
	Roles       []string `json:"roles"       validate:"dive,oneof=owner pm frontend backend designer qa user"`
	Tags        []string `json:"tags"        validate:"max=20,dive,max=50"`
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// listToolsQuery holds the query parameters accepted by GET /tools.
type listToolsQuery struct {
	Category string `query:"category"`
	Role     string `query:"role"`
	Tag      string `query:"tag"`
	Search   string `query:"search"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}

// --- Response types ---

type toolResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	ImageURL    string        `json:"image_url,omitempty"`
	CategoryID  string        `json:"category_id"`
	Roles       []domain.Role `json:"roles"`
	Tags        []string      `json:"tags"`
	CreatedBy   string        `json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Links       toolLinks     `json:"_links"`
}

type toolLinks struct {
	Self     string `json:"self"`
	Category string `json:"category"`
}

type paginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type listToolsResponse struct {
	Data       []toolResponse `json:"data"`
	Pagination paginationMeta `json:"pagination"`
}

type dashboardResponse struct {
	User            domain.UserView  `json:"user"`
	Permissions     []domain.Action  `json:"permissions"`
	ToolsTotal      int64            `json:"tools_total"`
	ToolsForRole    int64            `json:"tools_for_role"`
	ToolsByCategory map[string]int64 `json:"tools_by_category,omitempty"`
}
