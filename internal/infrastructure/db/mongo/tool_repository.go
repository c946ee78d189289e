package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aitools/platform-api/internal/core/domain"
	"github.com/aitools/platform-api/internal/core/ports"
)

const collectionTools = "tools"

type ToolRepository struct {
	col *mongo.Collection
}

func NewToolRepository(db *mongo.Database) *ToolRepository {
	return &ToolRepository{col: db.Collection(collectionTools)}
}

type toolDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	URL         string             `bson:"url"`
	ImageURL    string             `bson:"image_url,omitempty"`
	CategoryID  string             `bson:"category_id"`
	Roles       []string           `bson:"roles"`
	Tags        []string           `bson:"tags"`
	CreatedBy   string             `bson:"created_by"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func toToolDoc(t *domain.Tool) toolDoc {
	roles := make([]string, 0, len(t.Roles))
	for _, r := range t.Roles {
		roles = append(roles, string(r))
	}
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return toolDoc{
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
	}
}

func (d toolDoc) toDomain() *domain.Tool {
	roles := make([]domain.Role, 0, len(d.Roles))
	for _, r := range d.Roles {
		roles = append(roles, domain.Role(r))
	}
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.Tool{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		URL:         d.URL,
		ImageURL:    d.ImageURL,
		CategoryID:  d.CategoryID,
		Roles:       roles,
		Tags:        tags,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// toolFilter translates the list filter into a Mongo query.
func toolFilter(f ports.ListToolsFilter) bson.M {
	filter := bson.M{}
	if f.CategoryID != "" {
		filter["category_id"] = f.CategoryID
	}
	if f.Role != "" {
		filter["roles"] = f.Role
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}
	return filter
}

// Create inserts a new tool document.
func (r *ToolRepository) Create(ctx context.Context, t *domain.Tool) (*domain.Tool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toToolDoc(t)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert tool: %w", err)
	}
	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *ToolRepository) FindByID(ctx context.Context, id string) (*domain.Tool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrToolNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc toolDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrToolNotFound
		}
		return nil, fmt.Errorf("find tool: %w", err)
	}
	return doc.toDomain(), nil
}

// Update replaces the mutable fields of a tool. created_by and created_at are
// never rewritten.
func (r *ToolRepository) Update(ctx context.Context, t *domain.Tool) error {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return domain.ErrToolNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toToolDoc(t)
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":        doc.Name,
		"description": doc.Description,
		"url":         doc.URL,
		"image_url":   doc.ImageURL,
		"category_id": doc.CategoryID,
		"roles":       doc.Roles,
		"tags":        doc.Tags,
		"updated_at":  doc.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update tool: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrToolNotFound
	}
	return nil
}

func (r *ToolRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrToolNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete tool: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrToolNotFound
	}
	return nil
}

// List returns a page of tools, newest first, and the total number of matches.
func (r *ToolRepository) List(ctx context.Context, f ports.ListToolsFilter) ([]*domain.Tool, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := toolFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count tools: %w", err)
	}

	skip := int64((f.Page - 1) * f.Limit)
	if skip < 0 {
		skip = 0
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find tools: %w", err)
	}
	defer cur.Close(ctx)

	var docs []toolDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode tools: %w", err)
	}

	items := make([]*domain.Tool, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, total, nil
}

// CountByCategory groups the catalog by category_id.
func (r *ToolRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category_id"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate tools: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		CategoryID string `bson:"_id"`
		Count      int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode tool counts: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.CategoryID] = row.Count
	}
	return out, nil
}

// EnsureIndexes creates the indexes used by the list filters.
func (r *ToolRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category_id", Value: 1}}},
		{Keys: bson.D{{Key: "roles", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}
