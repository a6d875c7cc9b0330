package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"job-marketplace-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type jobCompanyDoc struct {
	Name string `bson:"name"`
	Logo string `bson:"logo"`
}

// _id and postedBy are decoded into interface{} because older rows hold
// them as strings. Older rows may also carry skills as one comma separated
// string and the company snapshot as top-level companyName/companyLogo.
type jobDoc struct {
	ID           interface{}   `bson:"_id,omitempty"`
	Title        string        `bson:"title"`
	Description  string        `bson:"description"`
	Requirements string        `bson:"requirements,omitempty"`
	Location     string        `bson:"location,omitempty"`
	Skills       interface{}   `bson:"skills"`
	Type         string        `bson:"type"`
	CompanyID    string        `bson:"companyId,omitempty"`
	Company      jobCompanyDoc `bson:"company"`
	CompanyName  string        `bson:"companyName,omitempty"`
	CompanyLogo  string        `bson:"companyLogo,omitempty"`
	PostedBy     interface{}   `bson:"postedBy,omitempty"`
	CreatedAt    time.Time     `bson:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt,omitempty"`
}

func (d *jobDoc) toDomain() domain.Job {
	company := domain.JobCompany{Name: d.Company.Name, Logo: d.Company.Logo}
	if company.Name == "" {
		company.Name = d.CompanyName
	}
	if company.Logo == "" {
		company.Logo = d.CompanyLogo
	}
	return domain.Job{
		ID:           refString(d.ID),
		Title:        d.Title,
		Description:  d.Description,
		Requirements: d.Requirements,
		Location:     d.Location,
		Skills:       decodeSkills(d.Skills),
		Type:         d.Type,
		CompanyID:    d.CompanyID,
		Company:      company,
		PostedBy:     refString(d.PostedBy),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func decodeSkills(v interface{}) []string {
	switch s := v.(type) {
	case string:
		if skills := domain.SplitSkills(s); skills != nil {
			return skills
		}
	case primitive.A:
		list := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				list = append(list, str)
			}
		}
		return domain.NormalizeSkills(list)
	case []string:
		return domain.NormalizeSkills(s)
	}
	return []string{}
}

type jobRepo struct {
	coll *mongo.Collection
}

func NewJobRepository(db *mongo.Database) domain.JobRepository {
	return &jobRepo{coll: db.Collection(JobsCollection)}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	oid := primitive.NewObjectID()
	doc := jobDoc{
		ID:           oid,
		Title:        job.Title,
		Description:  job.Description,
		Requirements: job.Requirements,
		Location:     job.Location,
		Skills:       job.Skills,
		Type:         job.Type,
		CompanyID:    job.CompanyID,
		Company:      jobCompanyDoc{Name: job.Company.Name, Logo: job.Company.Logo},
		PostedBy:     refValue(job.PostedBy),
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	job.ID = oid.Hex()
	return nil
}

// GetByID looks the job up by ObjectID first and, when that misses, by the
// raw string id used by legacy rows.
func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	for _, key := range idVariants(id) {
		var doc jobDoc
		err := r.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("find job: %w", err)
		}
		job := doc.toDomain()
		return &job, nil
	}
	return nil, domain.ErrNotFound
}

func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func exactRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

// buildJobFilter translates a JobFilter into a query document. Every
// condition is ANDed; an empty filter matches all jobs.
func buildJobFilter(f domain.JobFilter) bson.M {
	var and []bson.M

	if f.Scope != nil {
		if f.Scope.CompanyID != "" {
			and = append(and, bson.M{"companyId": f.Scope.CompanyID})
		} else {
			and = append(and, anyRef("postedBy", f.Scope.PostedBy))
		}
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		re := containsRegex(q)
		and = append(and, bson.M{"$or": []bson.M{
			{"title": re},
			{"description": re},
			{"location": re},
			{"company.name": re},
			{"companyName": re},
			{"skills": re},
		}})
	}
	if t := strings.TrimSpace(f.Title); t != "" {
		and = append(and, bson.M{"title": containsRegex(t)})
	}
	if l := strings.TrimSpace(f.Location); l != "" {
		and = append(and, bson.M{"location": containsRegex(l)})
	}
	if t := strings.TrimSpace(f.Type); t != "" {
		and = append(and, bson.M{"type": exactRegex(t)})
	}
	if s := strings.TrimSpace(f.Skill); s != "" {
		and = append(and, bson.M{"skills": containsRegex(s)})
	}
	if len(f.Skills) > 0 {
		in := make([]interface{}, 0, len(f.Skills))
		for _, s := range f.Skills {
			in = append(in, exactRegex(s))
		}
		and = append(and, bson.M{"skills": bson.M{"$in": in}})
	}

	switch len(and) {
	case 0:
		return bson.M{}
	case 1:
		return and[0]
	}
	return bson.M{"$and": and}
}

func jobSort(f domain.JobFilter) bson.D {
	field := f.SortBy
	if !domain.SortableJobFields[field] {
		field = "createdAt"
	}
	order := -1
	if f.SortAsc {
		order = 1
	}
	return bson.D{{Key: field, Value: order}, {Key: "_id", Value: order}}
}

// Find returns one page of matching jobs and the total match count. A
// Limit of zero returns every match.
func (r *jobRepo) Find(ctx context.Context, f domain.JobFilter) ([]domain.Job, int64, error) {
	filter := buildJobFilter(f)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	opts := options.Find().SetSort(jobSort(f))
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * f.Limit)).SetLimit(int64(f.Limit))
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find jobs: %w", err)
	}
	defer cur.Close(ctx)

	jobs := []domain.Job{}
	for cur.Next(ctx) {
		var doc jobDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode job: %w", err)
		}
		jobs = append(jobs, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, total, nil
}

func jobUpdateSet(u domain.JobUpdate) bson.M {
	set := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Requirements != nil {
		set["requirements"] = *u.Requirements
	}
	if u.Location != nil {
		set["location"] = *u.Location
	}
	if u.Skills != nil {
		set["skills"] = *u.Skills
	}
	if u.Type != nil {
		set["type"] = *u.Type
	}
	if u.Company != nil {
		set["company"] = jobCompanyDoc{Name: u.Company.Name, Logo: u.Company.Logo}
	}
	if u.CompanyID != nil {
		set["companyId"] = *u.CompanyID
	}
	return set
}

func (r *jobRepo) Update(ctx context.Context, id string, update domain.JobUpdate) (*domain.Job, error) {
	set := jobUpdateSet(update)
	set["updatedAt"] = time.Now().UTC()

	var doc jobDoc
	err := r.coll.FindOneAndUpdate(ctx,
		anyRef("_id", id),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	job := doc.toDomain()
	return &job, nil
}

func (r *jobRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, anyRef("_id", id))
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
