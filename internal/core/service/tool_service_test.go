package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/aitools/platform-api/internal/core/domain"
	"github.com/aitools/platform-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubToolRepo struct {
	byID    map[string]*domain.Tool
	nextID  int
	listErr error // if set, List and Create return this error
}

func newStubToolRepo() *stubToolRepo {
	return &stubToolRepo{byID: make(map[string]*domain.Tool)}
}

func (r *stubToolRepo) Create(_ context.Context, t *domain.Tool) (*domain.Tool, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.nextID++
	clone := *t
	clone.ID = fmt.Sprintf("tool_%03d", r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubToolRepo) FindByID(_ context.Context, id string) (*domain.Tool, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrToolNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubToolRepo) Update(_ context.Context, t *domain.Tool) error {
	if _, ok := r.byID[t.ID]; !ok {
		return domain.ErrToolNotFound
	}
	clone := *t
	r.byID[t.ID] = &clone
	return nil
}

func (r *stubToolRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrToolNotFound
	}
	delete(r.byID, id)
	return nil
}

// List applies the same filters the real Mongo repo would use.
func (r *stubToolRepo) List(_ context.Context, f ports.ListToolsFilter) ([]*domain.Tool, int64, error) {
	if r.listErr != nil {
		return nil, 0, r.listErr
	}

	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var matched []*domain.Tool
	for _, id := range ids {
		t := r.byID[id]
		if f.CategoryID != "" && t.CategoryID != f.CategoryID {
			continue
		}
		if f.Role != "" && !slices.Contains(t.Roles, domain.Role(f.Role)) {
			continue
		}
		if f.Tag != "" && !slices.Contains(t.Tags, f.Tag) {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(t.Name), q) && !strings.Contains(strings.ToLower(t.Description), q) {
				continue
			}
		}
		clone := *t
		matched = append(matched, &clone)
	}

	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return []*domain.Tool{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubToolRepo) CountByCategory(_ context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, t := range r.byID {
		out[t.CategoryID]++
	}
	return out, nil
}

type stubCategoryRepo struct {
	byID   map[string]*domain.Category
	nextID int
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{byID: make(map[string]*domain.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	for _, existing := range r.byID {
		if existing.Slug == c.Slug {
			return nil, domain.ErrCategoryExists
		}
	}
	r.nextID++
	clone := *c
	clone.ID = fmt.Sprintf("cat_%d", r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(r.byID))
	for _, c := range r.byID {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type toolFixture struct {
	tools      *stubToolRepo
	categories *stubCategoryRepo
	svc        *ToolService
	category   *domain.Category
}

func newToolFixture(t *testing.T) *toolFixture {
	t.Helper()
	f := &toolFixture{tools: newStubToolRepo(), categories: newStubCategoryRepo()}
	f.svc = NewToolService(f.tools, f.categories, discardLogger)

	cat, err := f.svc.CreateCategory(context.Background(), "Code Assistants")
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	f.category = cat
	return f
}

func (f *toolFixture) seed(t *testing.T, overrides func(*ports.ToolInput)) *domain.Tool {
	t.Helper()
	in := ports.ToolInput{
		Name:        "Copilot",
		Description: "Pair programmer",
		URL:         "https://example.com/copilot",
		CategoryID:  f.category.ID,
		Roles:       []domain.Role{domain.RoleFrontend, domain.RoleBackend},
		Tags:        []string{"code"},
	}
	if overrides != nil {
		overrides(&in)
	}
	tool, err := f.svc.CreateTool(context.Background(), "user_1", in)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return tool
}

// ---------------------------------------------------------------------------
// CreateTool / UpdateTool / DeleteTool
// ---------------------------------------------------------------------------

func TestToolService_Create_Success(t *testing.T) {
	f := newToolFixture(t)

	tool := f.seed(t, func(in *ports.ToolInput) {
		in.Tags = []string{" Code ", "code", "", "LLM"}
		in.Roles = []domain.Role{domain.RoleQA, domain.RoleQA}
	})

	if tool.ID == "" {
		t.Fatal("expected an id")
	}
	if tool.CreatedBy != "user_1" {
		t.Errorf("expected created_by %q, got %q", "user_1", tool.CreatedBy)
	}
	if tool.CreatedAt.IsZero() || !tool.CreatedAt.Equal(tool.UpdatedAt) {
		t.Errorf("timestamps not initialised: %v / %v", tool.CreatedAt, tool.UpdatedAt)
	}
	if !slices.Equal(tool.Tags, []string{"code", "llm"}) {
		t.Errorf("tags not normalised: %v", tool.Tags)
	}
	if !slices.Equal(tool.Roles, []domain.Role{domain.RoleQA}) {
		t.Errorf("roles not de-duplicated: %v", tool.Roles)
	}
}

func TestToolService_Create_Validation(t *testing.T) {
	f := newToolFixture(t)

	cases := []struct {
		name    string
		mutate  func(*ports.ToolInput)
		wantErr error
	}{
		{"missing name", func(in *ports.ToolInput) { in.Name = " " }, domain.ErrInvalidInput},
		{"missing url", func(in *ports.ToolInput) { in.URL = "" }, domain.ErrInvalidInput},
		{"unknown role", func(in *ports.ToolInput) { in.Roles = []domain.Role{"admin"} }, domain.ErrInvalidRole},
		{"unknown category", func(in *ports.ToolInput) { in.CategoryID = "nope" }, domain.ErrInvalidInput},
	}

	for _, tc := range cases {
		in := ports.ToolInput{Name: "X", URL: "https://x.dev", CategoryID: f.category.ID}
		tc.mutate(&in)
		_, err := f.svc.CreateTool(context.Background(), "user_1", in)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}
	if len(f.tools.byID) != 0 {
		t.Errorf("invalid input must not be stored, got %d tools", len(f.tools.byID))
	}
}

func TestToolService_Create_RepoError(t *testing.T) {
	f := newToolFixture(t)
	f.tools.listErr = errors.New("db unavailable")

	_, err := f.svc.CreateTool(context.Background(), "user_1", ports.ToolInput{
		Name: "X", URL: "https://x.dev", CategoryID: f.category.ID,
	})
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestToolService_Update_KeepsOwnership(t *testing.T) {
	f := newToolFixture(t)
	orig := f.seed(t, nil)
	time.Sleep(time.Millisecond)

	updated, err := f.svc.UpdateTool(context.Background(), orig.ID, ports.ToolInput{
		Name: "Copilot X", URL: "https://example.com/x", CategoryID: f.category.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Copilot X" {
		t.Errorf("name not updated: %q", updated.Name)
	}
	if updated.CreatedBy != orig.CreatedBy || !updated.CreatedAt.Equal(orig.CreatedAt) {
		t.Errorf("update must keep created_by/created_at")
	}
	if !updated.UpdatedAt.After(orig.UpdatedAt) {
		t.Errorf("updated_at must advance")
	}
}

func TestToolService_Update_NotFound(t *testing.T) {
	f := newToolFixture(t)

	_, err := f.svc.UpdateTool(context.Background(), "missing", ports.ToolInput{
		Name: "X", URL: "https://x.dev", CategoryID: f.category.ID,
	})
	if !errors.Is(err, domain.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
}

func TestToolService_Delete(t *testing.T) {
	f := newToolFixture(t)
	tool := f.seed(t, nil)

	if err := f.svc.DeleteTool(context.Background(), tool.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.GetTool(context.Background(), tool.ID); !errors.Is(err, domain.ErrToolNotFound) {
		t.Errorf("expected ErrToolNotFound after delete, got %v", err)
	}
	if err := f.svc.DeleteTool(context.Background(), tool.ID); !errors.Is(err, domain.ErrToolNotFound) {
		t.Errorf("expected ErrToolNotFound on second delete, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// ListTools
// ---------------------------------------------------------------------------

func TestListTools_LimitCappedAt100(t *testing.T) {
	f := newToolFixture(t)

	res, err := f.svc.ListTools(context.Background(), ports.ListToolsInput{Limit: 999, Page: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.Limit != 100 {
		t.Errorf("expected limit 100, got %d", res.Limit)
	}
}

func TestListTools_DefaultLimit(t *testing.T) {
	f := newToolFixture(t)

	res, err := f.svc.ListTools(context.Background(), ports.ListToolsInput{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Limit != 20 {
		t.Errorf("expected default limit 20, got %d", res.Limit)
	}
	if res.Page != 1 {
		t.Errorf("expected default page 1, got %d", res.Page)
	}
}

func TestListTools_PaginationMath(t *testing.T) {
	f := newToolFixture(t)
	for i := 0; i < 5; i++ {
		f.seed(t, nil)
	}

	res, err := f.svc.ListTools(context.Background(), ports.ListToolsInput{Limit: 2, Page: 3})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 5 {
		t.Errorf("total: expected 5, got %d", res.Total)
	}
	if res.TotalPages != 3 {
		t.Errorf("total_pages: expected 3, got %d", res.TotalPages)
	}
	if len(res.Items) != 1 {
		t.Errorf("items on last page: expected 1, got %d", len(res.Items))
	}
}

func TestListTools_Filters(t *testing.T) {
	f := newToolFixture(t)
	design, err := f.svc.CreateCategory(context.Background(), "Design")
	if err != nil {
		t.Fatal(err)
	}

	f.seed(t, nil)
	f.seed(t, func(in *ports.ToolInput) {
		in.Name = "Figma AI"
		in.Description = "Generates layouts"
		in.CategoryID = design.ID
		in.Roles = []domain.Role{domain.RoleDesigner}
		in.Tags = []string{"ui"}
	})

	cases := []struct {
		name string
		in   ports.ListToolsInput
		want int64
	}{
		{"category", ports.ListToolsInput{CategoryID: design.ID}, 1},
		{"role", ports.ListToolsInput{Role: "backend"}, 1},
		{"tag normalised", ports.ListToolsInput{Tag: " UI "}, 1},
		{"search description", ports.ListToolsInput{Search: "layouts"}, 1},
		{"search name case-insensitive", ports.ListToolsInput{Search: "copi"}, 1},
		{"no match", ports.ListToolsInput{Role: string(domain.RoleQA)}, 0},
		{"no filter", ports.ListToolsInput{}, 2},
	}

	for _, tc := range cases {
		res, err := f.svc.ListTools(context.Background(), tc.in)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if res.Total != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, res.Total)
		}
	}
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

func TestToolService_CreateCategory(t *testing.T) {
	f := newToolFixture(t)

	if f.category.Slug != "code-assistants" {
		t.Errorf("unexpected slug %q", f.category.Slug)
	}
	if _, err := f.svc.CreateCategory(context.Background(), "code  assistants!"); !errors.Is(err, domain.ErrCategoryExists) {
		t.Errorf("expected ErrCategoryExists, got %v", err)
	}
	if _, err := f.svc.CreateCategory(context.Background(), " -- "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	cats, err := f.svc.ListCategories(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 1 {
		t.Errorf("expected 1 category, got %d", len(cats))
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Image Generation & Editing": "image-generation-editing",
		"  Code  ":                   "code",
		"LLM/Chat":                   "llm-chat",
		"Año 2024":                   "año-2024",
		"!!!":                        "",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

func TestToolService_Dashboard(t *testing.T) {
	f := newToolFixture(t)
	f.seed(t, nil)
	f.seed(t, func(in *ports.ToolInput) { in.Roles = []domain.Role{domain.RoleDesigner} })

	backend := &domain.User{ID: "u1", Name: "Bea", Role: domain.RoleBackend}
	d, err := f.svc.Dashboard(context.Background(), backend)
	if err != nil {
		t.Fatal(err)
	}
	if d.ToolsTotal != 2 || d.ToolsForRole != 1 {
		t.Errorf("counts: total=%d for_role=%d", d.ToolsTotal, d.ToolsForRole)
	}
	if d.ToolsByCategory != nil {
		t.Error("backend role must not see per-category stats")
	}
	if d.User.RoleDisplay != "Backend Developer" {
		t.Errorf("unexpected role display %q", d.User.RoleDisplay)
	}
	if !slices.Equal(d.Permissions, []domain.Action{domain.ActionToolCreate, domain.ActionToolUpdate}) {
		t.Errorf("unexpected permissions %v", d.Permissions)
	}

	pm := &domain.User{ID: "u2", Name: "Pat", Role: domain.RolePM}
	d, err = f.svc.Dashboard(context.Background(), pm)
	if err != nil {
		t.Fatal(err)
	}
	if d.ToolsByCategory[f.category.ID] != 2 {
		t.Errorf("pm stats: expected 2 in category, got %v", d.ToolsByCategory)
	}
}

func TestToolService_Dashboard_UnknownRole(t *testing.T) {
	f := newToolFixture(t)

	d, err := f.svc.Dashboard(context.Background(), &domain.User{ID: "u3", Role: "legacy"})
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Permissions) != 0 {
		t.Errorf("unknown role must have no permissions, got %v", d.Permissions)
	}
	if d.User.RoleColor != "gray" {
		t.Errorf("unknown role color: %q", d.User.RoleColor)
	}
}
