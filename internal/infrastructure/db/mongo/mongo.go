// Package mongo implements the store ports on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Store bundles the repositories that share one database.
type Store struct {
	Users    *UserRepository
	Posts    *PostRepository
	Comments *CommentRepository
	Audit    *AuditRepository
	db       *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		Users:    NewUserRepository(db),
		Posts:    NewPostRepository(db),
		Comments: NewCommentRepository(db),
		Audit:    NewAuditRepository(db),
		db:       db,
	}
}

// EnsureIndexes creates the indexes of every collection. The unique
// indexes on users back the registration conflict check.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for name, ensure := range map[string]func(context.Context) error{
		collectionUsers:    s.Users.EnsureIndexes,
		collectionPosts:    s.Posts.EnsureIndexes,
		collectionComments: s.Comments.EnsureIndexes,
		collectionAudit:    s.Audit.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}
	return nil
}

// Ping reports whether the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

// objectID parses a hex id. Ids that are not valid ObjectIDs cannot match
// any document, so they are reported as notFound.
func objectID(id string, notFound error) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return oid, nil
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
