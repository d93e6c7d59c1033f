package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/ports"
)

const collectionPosts = "posts"

// PostRepository implements ports.PostRepository.
type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts)}
}

type postDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Title          string             `bson:"title"`
	Content        string             `bson:"content"`
	AuthorID       string             `bson:"author_id"`
	AuthorUsername string             `bson:"author_username"`
	Published      bool               `bson:"published"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toPostDoc(post)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := objectID(id, domain.ErrPostNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc postDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns matching posts, newest first.
func (r *PostRepository) List(ctx context.Context, f ports.ListPostsFilter) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, postFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	out := make([]*domain.Post, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// UpdateContent sets only the non-empty fields, leaving published untouched.
func (r *PostRepository) UpdateContent(ctx context.Context, id, title, content string, updatedAt time.Time) (*domain.Post, error) {
	set := bson.M{"updated_at": updatedAt}
	if title != "" {
		set["title"] = title
	}
	if content != "" {
		set["content"] = content
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

// TogglePublished negates the stored flag server side in a single
// pipeline update.
func (r *PostRepository) TogglePublished(ctx context.Context, id string, updatedAt time.Time) (*domain.Post, error) {
	return r.findOneAndUpdate(ctx, id, togglePublishedPipeline(updatedAt))
}

func togglePublishedPipeline(updatedAt time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "published", Value: bson.D{{Key: "$not", Value: "$published"}}},
			{Key: "updated_at", Value: updatedAt},
		}}},
	}
}

func (r *PostRepository) findOneAndUpdate(ctx context.Context, id string, update any) (*domain.Post, error) {
	oid, err := objectID(id, domain.ErrPostNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc postDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrPostNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes used by the listings.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "published", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// postFilter translates a listing filter. The title search is a
// case-insensitive substring match with regex metacharacters escaped.
func postFilter(f ports.ListPostsFilter) bson.M {
	filter := bson.M{}
	if f.PublishedOnly {
		filter["published"] = true
	}
	if f.AuthorID != "" {
		filter["author_id"] = f.AuthorID
	}
	if f.Search != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	return filter
}

func toPostDoc(p *domain.Post) postDoc {
	return postDoc{
		Title:          p.Title,
		Content:        p.Content,
		AuthorID:       p.AuthorID,
		AuthorUsername: p.AuthorUsername,
		Published:      p.Published,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (d postDoc) toDomain() *domain.Post {
	return &domain.Post{
		ID:             d.ID.Hex(),
		Title:          d.Title,
		Content:        d.Content,
		AuthorID:       d.AuthorID,
		AuthorUsername: d.AuthorUsername,
		Published:      d.Published,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}
