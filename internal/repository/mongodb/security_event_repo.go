package mongodb

import (
	"context"
	"fmt"

	"job-marketplace-api/pkg/security"

	"go.mongodb.org/mongo-driver/mongo"
)

// SecurityEventRepository stores audit events; a TTL index on createdAt
// prunes them.
type SecurityEventRepository struct {
	coll *mongo.Collection
}

func NewSecurityEventRepository(db *mongo.Database) *SecurityEventRepository {
	return &SecurityEventRepository{coll: db.Collection(SecurityEventsCollection)}
}

func (r *SecurityEventRepository) Persist(ctx context.Context, event security.Event) error {
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to persist security event: %w", err)
	}
	return nil
}
