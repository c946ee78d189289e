package ports

import (
	"context"

	"github.com/aitools/platform-api/internal/core/domain"
)

// ToolInput carries the writable fields of a tool.
type ToolInput struct {
	Name        string
	Description string
	URL         string
	ImageURL    string
	CategoryID  string
	Roles       []domain.Role
	Tags        []string
}

// ListToolsInput carries all parameters for the list endpoint.
type ListToolsInput struct {
	CategoryID string
	Role       string
	Tag        string
	Search     string
	Page       int
	Limit      int
}

// ListToolsResult is returned by ListTools.
type ListToolsResult struct {
	Items      []*domain.Tool
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// Dashboard is the role-based landing view.
type Dashboard struct {
	User            domain.UserView
	Permissions     []domain.Action
	ToolsTotal      int64
	ToolsForRole    int64
	ToolsByCategory map[string]int64 // only with dashboard:stats
}

// ToolService defines use-case operations for the catalog.
type ToolService interface {
	CreateTool(ctx context.Context, createdBy string, in ToolInput) (*domain.Tool, error)
	GetTool(ctx context.Context, id string) (*domain.Tool, error)
	UpdateTool(ctx context.Context, id string, in ToolInput) (*domain.Tool, error)
	DeleteTool(ctx context.Context, id string) error
	ListTools(ctx context.Context, in ListToolsInput) (*ListToolsResult, error)

	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)

	Dashboard(ctx context.Context, user *domain.User) (*Dashboard, error)
}
