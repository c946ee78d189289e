package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/aitools/platform-api/internal/core/domain"
	"github.com/aitools/platform-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type ToolService struct {
	tools      ports.ToolRepository
	categories ports.CategoryRepository
	logger     zerolog.Logger
}

func NewToolService(tools ports.ToolRepository, categories ports.CategoryRepository, logger zerolog.Logger) *ToolService {
	return &ToolService{tools: tools, categories: categories, logger: logger}
}

// CreateTool adds a tool to the catalog. The category must exist.
func (s *ToolService) CreateTool(ctx context.Context, createdBy string, in ports.ToolInput) (*domain.Tool, error) {
	tool, err := s.buildTool(ctx, in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tool.CreatedBy = createdBy
	tool.CreatedAt = now
	tool.UpdatedAt = now

	created, err := s.tools.Create(ctx, tool)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create tool")
		return nil, fmt.Errorf("create tool: %w", unavailable(err))
	}

	s.logger.Info().Str("tool_id", created.ID).Str("created_by", createdBy).Msg("tool created")
	return created, nil
}

func (s *ToolService) GetTool(ctx context.Context, id string) (*domain.Tool, error) {
	tool, err := s.tools.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrToolNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get tool: %w", unavailable(err))
	}
	return tool, nil
}

// UpdateTool replaces the writable fields of an existing tool.
func (s *ToolService) UpdateTool(ctx context.Context, id string, in ports.ToolInput) (*domain.Tool, error) {
	existing, err := s.GetTool(ctx, id)
	if err != nil {
		return nil, err
	}

	tool, err := s.buildTool(ctx, in)
	if err != nil {
		return nil, err
	}
	tool.ID = existing.ID
	tool.CreatedBy = existing.CreatedBy
	tool.CreatedAt = existing.CreatedAt
	tool.UpdatedAt = time.Now().UTC()

	if err := s.tools.Update(ctx, tool); err != nil {
		if errors.Is(err, domain.ErrToolNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update tool: %w", unavailable(err))
	}

	s.logger.Info().Str("tool_id", id).Msg("tool updated")
	return tool, nil
}

func (s *ToolService) DeleteTool(ctx context.Context, id string) error {
	if err := s.tools.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrToolNotFound) {
			return err
		}
		return fmt.Errorf("delete tool: %w", unavailable(err))
	}
	s.logger.Info().Str("tool_id", id).Msg("tool deleted")
	return nil
}

// ListTools returns a paginated, filtered page of the catalog.
func (s *ToolService) ListTools(ctx context.Context, input ports.ListToolsInput) (*ports.ListToolsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.tools.List(ctx, ports.ListToolsFilter{
		CategoryID: input.CategoryID,
		Role:       input.Role,
		Tag:        normalizeTag(input.Tag),
		Search:     strings.TrimSpace(input.Search),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list tools")
		return nil, fmt.Errorf("list tools: %w", unavailable(err))
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &ports.ListToolsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// CreateCategory adds a category. Names that slugify to an existing slug are
// rejected with domain.ErrCategoryExists.
func (s *ToolService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	slug := slugify(name)
	if slug == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrInvalidInput)
	}

	created, err := s.categories.Create(ctx, &domain.Category{
		Name:      name,
		Slug:      slug,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrCategoryExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create category: %w", unavailable(err))
	}

	s.logger.Info().Str("category_id", created.ID).Str("slug", slug).Msg("category created")
	return created, nil
}

func (s *ToolService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", unavailable(err))
	}
	return cats, nil
}

// Dashboard builds the landing view for user. Per-category counts are only
// included for roles holding dashboard:stats.
func (s *ToolService) Dashboard(ctx context.Context, user *domain.User) (*ports.Dashboard, error) {
	_, total, err := s.tools.List(ctx, ports.ListToolsFilter{Page: 1, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", unavailable(err))
	}
	_, forRole, err := s.tools.List(ctx, ports.ListToolsFilter{Role: string(user.Role), Page: 1, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", unavailable(err))
	}

	d := &ports.Dashboard{
		User:         domain.NewUserView(user),
		Permissions:  user.Role.PermittedActions(),
		ToolsTotal:   total,
		ToolsForRole: forRole,
	}

	if user.Role.Can(domain.ActionDashboardStats) {
		counts, err := s.tools.CountByCategory(ctx)
		if err != nil {
			return nil, fmt.Errorf("dashboard: %w", unavailable(err))
		}
		d.ToolsByCategory = counts
	}

	return d, nil
}

func (s *ToolService) buildTool(ctx context.Context, in ports.ToolInput) (*domain.Tool, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.URL) == "" {
		return nil, fmt.Errorf("%w: name and url are required", domain.ErrInvalidInput)
	}

	for _, r := range in.Roles {
		if !r.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, r)
		}
	}

	if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("lookup category: %w", unavailable(err))
	}

	return &domain.Tool{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		URL:         strings.TrimSpace(in.URL),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		CategoryID:  in.CategoryID,
		Roles:       dedupRoles(in.Roles),
		Tags:        normalizeTags(in.Tags),
	}, nil
}

func dedupRoles(roles []domain.Role) []domain.Role {
	out := make([]domain.Role, 0, len(roles))
	seen := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// normalizeTags lower-cases, trims and de-duplicates tags, dropping empties.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = normalizeTag(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// slugify turns "Image Generation & Editing" into "image-generation-editing".
func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
