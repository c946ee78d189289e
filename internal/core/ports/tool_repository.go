package ports

import (
	"context"

	"github.com/aitools/platform-api/internal/core/domain"
)

// ListToolsFilter carries all query parameters for listing tools.
type ListToolsFilter struct {
	CategoryID string // optional: exact category
	Role       string // optional: tools tagged for this role
	Tag        string // optional: tools carrying this tag
	Search     string // optional: partial match on name or description
	Page       int    // 1-based
	Limit      int    // max rows per page (capped at 100 by service)
}

// ToolRepository defines persistence operations for catalog tools.
type ToolRepository interface {
	Create(ctx context.Context, t *domain.Tool) (*domain.Tool, error)
	FindByID(ctx context.Context, id string) (*domain.Tool, error)
	Update(ctx context.Context, t *domain.Tool) error
	Delete(ctx context.Context, id string) error
	// List returns a page of tools matching filter and the total count.
	List(ctx context.Context, filter ListToolsFilter) ([]*domain.Tool, int64, error)
	// CountByCategory returns the number of tools per category id.
	CountByCategory(ctx context.Context) (map[string]int64, error)
}

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
}
