package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"job-marketplace-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type marksDoc struct {
	Tenth   *string `bson:"tenth,omitempty"`
	Twelfth *string `bson:"twelfth,omitempty"`
	Degree  *string `bson:"degree,omitempty"`
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	Password     string             `bson:"password"`
	Role         string             `bson:"role"`
	CompanyID    string             `bson:"companyId,omitempty"`
	CompanyName  string             `bson:"companyName,omitempty"`
	ProfileImage string             `bson:"profileImage,omitempty"`
	Bio          string             `bson:"bio,omitempty"`
	Marks        *marksDoc          `bson:"marks,omitempty"`
	Certificates map[string]string  `bson:"certificates,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt,omitempty"`
}

func (d *userDoc) toDomain() *domain.User {
	u := &domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         d.Role,
		CompanyID:    d.CompanyID,
		CompanyName:  d.CompanyName,
		ProfileImage: d.ProfileImage,
		Bio:          d.Bio,
		Certificates: d.Certificates,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.Marks != nil {
		u.Marks = domain.Marks{Tenth: d.Marks.Tenth, Twelfth: d.Marks.Twelfth, Degree: d.Marks.Degree}
	}
	if u.Certificates == nil {
		u.Certificates = map[string]string{}
	}
	return u
}

type userRepo struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) domain.UserRepository {
	return &userRepo{coll: db.Collection(UsersCollection)}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	doc := userDoc{
		Name:        user.Name,
		Email:       strings.ToLower(user.Email),
		Password:    user.PasswordHash,
		Role:        user.Role,
		CompanyID:   user.CompanyID,
		CompanyName: user.CompanyName,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}
	user.Email = doc.Email
	return nil
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *userRepo) updateOne(ctx context.Context, id string, set bson.M) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	set["updatedAt"] = time.Now().UTC()

	var doc userDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *userRepo) Update(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.ProfileImage != nil {
		set["profileImage"] = *update.ProfileImage
	}
	return r.updateOne(ctx, id, set)
}

func (r *userRepo) SetCompany(ctx context.Context, id, companyID, companyName string) error {
	_, err := r.updateOne(ctx, id, bson.M{"companyId": companyID, "companyName": companyName})
	return err
}

// SetMarks only overwrites the marks that are provided.
func (r *userRepo) SetMarks(ctx context.Context, id string, marks domain.Marks) (*domain.User, error) {
	set := bson.M{}
	if marks.Tenth != nil {
		set["marks.tenth"] = *marks.Tenth
	}
	if marks.Twelfth != nil {
		set["marks.twelfth"] = *marks.Twelfth
	}
	if marks.Degree != nil {
		set["marks.degree"] = *marks.Degree
	}
	return r.updateOne(ctx, id, set)
}

// SetCertificate expects certType to be validated by the caller; it becomes
// part of a field path.
func (r *userRepo) SetCertificate(ctx context.Context, id, certType, ref string) (*domain.User, error) {
	return r.updateOne(ctx, id, bson.M{"certificates." + certType: ref})
}
