package repositories

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

	"blog-api/db"
	"blog-api/models"
)

// creation order; _id breaks ties between posts created in the same millisecond
var sortByCreation = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

type BlogRepository struct {
	col *mongo.Collection
}

func NewBlogRepository(d *mongo.Database) *BlogRepository {
	return &BlogRepository{col: d.Collection(db.BlogsCollection)}
}

// Insert stores a new post and fills in its ID, timestamps and revision.
func (r *BlogRepository) Insert(ctx context.Context, b *models.BlogPost) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	b.ID = primitive.NewObjectID()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.Revision = 0

	if _, err := r.col.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("insert blog: %w", err)
	}
	return nil
}

// FindAll returns every post in ascending creation order.
func (r *BlogRepository) FindAll(ctx context.Context) ([]models.BlogPost, error) {
	return r.find(ctx, bson.M{})
}

// FindByAuthor returns posts whose author contains pattern, case-insensitively.
func (r *BlogRepository) FindByAuthor(ctx context.Context, pattern string) ([]models.BlogPost, error) {
	filter := bson.M{"author": primitive.Regex{Pattern: regexp.QuoteMeta(pattern), Options: "i"}}
	return r.find(ctx, filter)
}

func (r *BlogRepository) find(ctx context.Context, filter bson.M) ([]models.BlogPost, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(sortByCreation))
	if err != nil {
		return nil, fmt.Errorf("find blogs: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]models.BlogPost, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode blogs: %w", err)
	}
	return items, nil
}

// FindByID returns the post with the given id. ok is false when no post matches.
func (r *BlogRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.BlogPost, bool, error) {
	var b models.BlogPost
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find blog %s: %w", id.Hex(), err)
	}
	return &b, true, nil
}

// UpdateByID merges the supplied patch fields and bumps the revision in a single
// atomic operation, returning the document after the update.
func (r *BlogRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, patch models.BlogPatch) (*models.BlogPost, bool, error) {
	set := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Author != nil {
		set["author"] = *patch.Author
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"revision": 1},
	}

	var b models.BlogPost
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("update blog %s: %w", id.Hex(), err)
	}
	return &b, true, nil
}

// DeleteByID removes the post. ok is false when nothing was deleted.
func (r *BlogRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete blog %s: %w", id.Hex(), err)
	}
	return res.DeletedCount > 0, nil
}
