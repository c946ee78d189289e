package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aitools/platform-api/internal/core/domain"
)

const collectionTokens = "personal_access_tokens"

// TokenRepository stores personal access tokens by their SHA-256 hash.
type TokenRepository struct {
	col *mongo.Collection
}

func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{col: db.Collection(collectionTokens)}
}

type tokenDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     primitive.ObjectID `bson:"user_id"`
	Name       string             `bson:"name"`
	Hash       string             `bson:"token_hash"`
	CreatedAt  time.Time          `bson:"created_at"`
	LastUsedAt *time.Time         `bson:"last_used_at"`
	RevokedAt  *time.Time         `bson:"revoked_at"`
}

func toTokenDoc(t *domain.Token) (tokenDoc, error) {
	uid, err := primitive.ObjectIDFromHex(t.UserID)
	if err != nil {
		return tokenDoc{}, fmt.Errorf("token owner id %q: %w", t.UserID, err)
	}
	return tokenDoc{
		UserID:     uid,
		Name:       t.Name,
		Hash:       t.Hash,
		CreatedAt:  t.CreatedAt.UTC(),
		LastUsedAt: t.LastUsedAt,
		RevokedAt:  t.RevokedAt,
	}, nil
}

func (d tokenDoc) toDomain() *domain.Token {
	return &domain.Token{
		ID:         d.ID.Hex(),
		UserID:     d.UserID.Hex(),
		Name:       d.Name,
		Hash:       d.Hash,
		CreatedAt:  d.CreatedAt,
		LastUsedAt: d.LastUsedAt,
		RevokedAt:  d.RevokedAt,
	}
}

// activeFilter matches the non-revoked token with the given hash.
func activeFilter(hash string) bson.M {
	return bson.M{"token_hash": hash, "revoked_at": nil}
}

func (r *TokenRepository) Create(ctx context.Context, t *domain.Token) (*domain.Token, error) {
	doc, err := toTokenDoc(t)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert token: %w", err)
	}
	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *TokenRepository) FindActiveByHash(ctx context.Context, hash string) (*domain.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc tokenDoc
	if err := r.col.FindOne(ctx, activeFilter(hash)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	return doc.toDomain(), nil
}

// Revoke sets revoked_at in a single conditional update, so concurrent
// revocations of the same token succeed exactly once.
func (r *TokenRepository) Revoke(ctx context.Context, hash string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, activeFilter(hash), bson.M{
		"$set": bson.M{"revoked_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvalidToken
	}
	return nil
}

func (r *TokenRepository) TouchLastUsed(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("token id %q: %w", id, err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"last_used_at": time.Now().UTC()},
	})
	return err
}

// EnsureIndexes creates the unique hash index and the owner index.
func (r *TokenRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "token_hash", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	})
	return err
}
