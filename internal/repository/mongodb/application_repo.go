package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"job-marketplace-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type applicationDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Job           interface{}        `bson:"job"`
	Applicant     interface{}        `bson:"applicant"`
	ApplicantName string             `bson:"applicantName,omitempty"`
	ResumeURL     string             `bson:"resumeUrl"`
	AppliedAt     time.Time          `bson:"appliedAt"`
	Status        string             `bson:"status"`
	ReviewStatus  string             `bson:"reviewStatus,omitempty"`
}

func (d *applicationDoc) toDomain() domain.Application {
	return domain.Application{
		ID:            d.ID.Hex(),
		JobID:         refString(d.Job),
		ApplicantID:   refString(d.Applicant),
		ApplicantName: d.ApplicantName,
		ResumeURL:     d.ResumeURL,
		AppliedAt:     d.AppliedAt,
		Status:        d.Status,
		ReviewStatus:  d.ReviewStatus,
	}
}

type applicationRepo struct {
	coll *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) domain.ApplicationRepository {
	return &applicationRepo{coll: db.Collection(ApplicationsCollection)}
}

func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	doc := applicationDoc{
		Job:          refValue(app.JobID),
		Applicant:    refValue(app.ApplicantID),
		ResumeURL:    app.ResumeURL,
		AppliedAt:    app.AppliedAt,
		Status:       app.Status,
		ReviewStatus: app.ReviewStatus,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		app.ID = oid.Hex()
	}
	return nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	var doc applicationDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	app := doc.toDomain()
	return &app, nil
}

func (r *applicationRepo) Exists(ctx context.Context, jobID, applicantID string) (bool, error) {
	filter := bson.M{"$and": []bson.M{jobRefFilter(jobID), anyRef("applicant", applicantID)}}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count applications: %w", err)
	}
	return n > 0, nil
}

func (r *applicationRepo) list(ctx context.Context, filter bson.M) ([]domain.Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "appliedAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find applications: %w", err)
	}
	defer cur.Close(ctx)

	apps := []domain.Application{}
	for cur.Next(ctx) {
		var doc applicationDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode application: %w", err)
		}
		apps = append(apps, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	return r.list(ctx, jobRefFilter(jobID))
}

func (r *applicationRepo) ListByJobs(ctx context.Context, jobIDs []string) ([]domain.Application, error) {
	if len(jobIDs) == 0 {
		return []domain.Application{}, nil
	}
	return r.list(ctx, jobRefFilter(jobIDs...))
}

func (r *applicationRepo) ListByApplicant(ctx context.Context, applicantID string) ([]domain.Application, error) {
	return r.list(ctx, anyRef("applicant", applicantID))
}

func (r *applicationRepo) CountByJob(ctx context.Context, jobID string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, jobRefFilter(jobID))
	if err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return n, nil
}

func zeroStatusCounts() map[string]int64 {
	return map[string]int64{
		domain.ApplicationStatusPending:  0,
		domain.ApplicationStatusAccepted: 0,
		domain.ApplicationStatusRejected: 0,
	}
}

func (r *applicationRepo) countByStatus(ctx context.Context, match bson.M) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate applications: %w", err)
	}
	defer cur.Close(ctx)

	counts := zeroStatusCounts()
	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode status count: %w", err)
		}
		counts[row.Status] += row.Count
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

func (r *applicationRepo) CountByStatusForJobs(ctx context.Context, jobIDs []string) (map[string]int64, error) {
	if len(jobIDs) == 0 {
		return zeroStatusCounts(), nil
	}
	return r.countByStatus(ctx, jobRefFilter(jobIDs...))
}

func (r *applicationRepo) CountByStatusForApplicant(ctx context.Context, applicantID string) (map[string]int64, error) {
	return r.countByStatus(ctx, anyRef("applicant", applicantID))
}

func (r *applicationRepo) setField(ctx context.Context, id, field, value string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return fmt.Errorf("update application %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.setField(ctx, id, "status", status)
}

func (r *applicationRepo) UpdateReviewStatus(ctx context.Context, id, reviewStatus string) error {
	return r.setField(ctx, id, "reviewStatus", reviewStatus)
}

// DeleteByJobID removes every application referencing the job, whichever
// representation the reference was stored in.
func (r *applicationRepo) DeleteByJobID(ctx context.Context, jobID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, jobRefFilter(jobID))
	if err != nil {
		return 0, fmt.Errorf("delete applications: %w", err)
	}
	return res.DeletedCount, nil
}
