package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkpress/blog-api/internal/core/domain"
)

const (
	collectionAudit = "auth_events"
	auditRetention  = 90 * 24 * time.Hour
)

// AuditRepository implements ports.AuditRepository on the auth_events
// collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

// InsertEvent persists one authentication or authorization outcome.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuditEvent) error {
	doc := bson.M{
		"kind":        string(event.Kind),
		"occurred_at": event.OccurredAt.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.SubjectID != "" {
		doc["subject_id"] = event.SubjectID
	}
	if event.Username != "" {
		doc["username"] = event.Username
	}
	if event.Operation != "" {
		doc["operation"] = string(event.Operation)
	}
	if event.Reason != "" {
		doc["reason"] = string(event.Reason)
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// EnsureIndexes indexes events by subject and expires them after the
// retention period.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "subject_id", Value: 1}, {Key: "occurred_at", Value: 1}}},
		{
			Keys:    bson.D{{Key: "occurred_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(auditRetention.Seconds())),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
