package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection          = "users"
	CompaniesCollection      = "companies"
	JobsCollection           = "jobs"
	ApplicationsCollection   = "applications"
	SecurityEventsCollection = "security_events"
)

// Security events expire after this long.
const securityEventTTL = 90 * 24 * time.Hour

// ErrUniqueIndex marks a failure to create an index that enforces
// uniqueness (users.email, companies.companyId). Registration relies on
// those indexes to settle concurrent inserts.
var ErrUniqueIndex = errors.New("unique index unavailable")

func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CompaniesCollection: {
			{Keys: bson.D{{Key: "companyId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		JobsCollection: {
			{Keys: bson.D{{Key: "companyId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "postedBy", Value: 1}}},
		},
		ApplicationsCollection: {
			{Keys: bson.D{{Key: "job", Value: 1}, {Key: "applicant", Value: 1}}},
			{Keys: bson.D{{Key: "applicant", Value: 1}, {Key: "appliedAt", Value: -1}}},
		},
		SecurityEventsCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(int32(securityEventTTL.Seconds()))},
			{Keys: bson.D{{Key: "event", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
}

func hasUniqueIndex(models []mongo.IndexModel) bool {
	for _, m := range models {
		if m.Options != nil && m.Options.Unique != nil && *m.Options.Unique {
			return true
		}
	}
	return false
}

// EnsureIndexes creates the indexes the repositories rely on. Existing
// indexes with the same keys are left alone. Every collection is attempted;
// the returned error wraps ErrUniqueIndex when a uniqueness index failed.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	var errs []error
	for coll, models := range indexModels() {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			if hasUniqueIndex(models) {
				err = fmt.Errorf("%w: %w", ErrUniqueIndex, err)
			}
			errs = append(errs, fmt.Errorf("create %s indexes: %w", coll, err))
		}
	}
	return errors.Join(errs...)
}

// NormalizeJobRefs rewrites application job and applicant references stored
// as hex strings into ObjectIDs. It returns the number of applications
// changed. Strings that are not valid ObjectIDs are left untouched.
func NormalizeJobRefs(ctx context.Context, db *mongo.Database) (int64, error) {
	coll := db.Collection(ApplicationsCollection)

	filter := bson.M{"$or": []bson.M{
		{"job": bson.M{"$type": "string"}},
		{"applicant": bson.M{"$type": "string"}},
	}}
	cur, err := coll.Find(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("find string refs: %w", err)
	}
	defer cur.Close(ctx)

	var changed int64
	for cur.Next(ctx) {
		var doc applicationDoc
		if err := cur.Decode(&doc); err != nil {
			return changed, fmt.Errorf("decode application: %w", err)
		}

		set := normalizedRefs(doc)
		if len(set) == 0 {
			continue
		}
		if _, err := coll.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": set}); err != nil {
			return changed, fmt.Errorf("update application %s: %w", doc.ID.Hex(), err)
		}
		changed++
	}
	if err := cur.Err(); err != nil {
		return changed, err
	}
	return changed, nil
}

func normalizedRefs(doc applicationDoc) bson.M {
	set := bson.M{}
	for field, v := range map[string]interface{}{"job": doc.Job, "applicant": doc.Applicant} {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if oid, err := primitive.ObjectIDFromHex(s); err == nil {
			set[field] = oid
		}
	}
	return set
}
