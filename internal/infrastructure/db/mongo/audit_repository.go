package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/forgeline/qc-system/internal/core/domain"
)

const loginActivityCollection = "login_activity"

// AuditRepository persists login-activity records. The collection is
// append-only; nothing in the application updates or deletes from it.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(loginActivityCollection)}
}

func (r *AuditRepository) Insert(ctx context.Context, activity *domain.LoginActivity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, activity); err != nil {
		return fmt.Errorf("insert login activity: %w", err)
	}
	return nil
}

// EnsureIndexes indexes login_at for recent-activity views.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	model := mongo.IndexModel{Keys: bson.D{{Key: "login_at", Value: -1}}}
	_, err := r.coll.Indexes().CreateOne(ctx, model)
	return err
}
