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

type companyDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	CompanyID   string             `bson:"companyId"`
	CompanyName string             `bson:"companyName"`
	Logo        string             `bson:"logo,omitempty"`
	Address     string             `bson:"address,omitempty"`
	Industry    string             `bson:"industry,omitempty"`
	Website     string             `bson:"website,omitempty"`
	Description string             `bson:"description,omitempty"`
	Size        string             `bson:"size,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty"`
}

func (d *companyDoc) toDomain() *domain.Company {
	return &domain.Company{
		ID:          d.ID.Hex(),
		CompanyID:   d.CompanyID,
		CompanyName: d.CompanyName,
		Logo:        d.Logo,
		Address:     d.Address,
		Industry:    d.Industry,
		Website:     d.Website,
		Description: d.Description,
		Size:        d.Size,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type companyRepo struct {
	coll *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) domain.CompanyRepository {
	return &companyRepo{coll: db.Collection(CompaniesCollection)}
}

func (r *companyRepo) Create(ctx context.Context, company *domain.Company) error {
	doc := companyDoc{
		CompanyID:   company.CompanyID,
		CompanyName: company.CompanyName,
		Logo:        company.Logo,
		Address:     company.Address,
		Industry:    company.Industry,
		Website:     company.Website,
		Description: company.Description,
		Size:        company.Size,
		CreatedAt:   company.CreatedAt,
		UpdatedAt:   company.UpdatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		company.ID = oid.Hex()
	}
	return nil
}

func (r *companyRepo) GetByCompanyID(ctx context.Context, companyID string) (*domain.Company, error) {
	var doc companyDoc
	err := r.coll.FindOne(ctx, bson.M{"companyId": companyID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find company: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *companyRepo) Delete(ctx context.Context, companyID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"companyId": companyID})
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func companyUpdateSet(update domain.CompanyUpdate) bson.M {
	set := bson.M{}
	fields := map[string]*string{
		"companyName": update.CompanyName,
		"address":     update.Address,
		"industry":    update.Industry,
		"website":     update.Website,
		"logo":        update.Logo,
		"description": update.Description,
		"size":        update.Size,
	}
	for name, v := range fields {
		if v != nil {
			set[name] = *v
		}
	}
	return set
}

func (r *companyRepo) Update(ctx context.Context, companyID string, update domain.CompanyUpdate) (*domain.Company, error) {
	set := companyUpdateSet(update)
	set["updatedAt"] = time.Now().UTC()

	var doc companyDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"companyId": companyID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	return doc.toDomain(), nil
}
