// Package repositories contains the MongoDB data access layer. Each
// repository wraps one collection and maps driver errors into the
// application error taxonomy so services and controllers stay thin.
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/database"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	col *mongo.Collection
}

// NewUserRepository returns a repository bound to the users collection.
func NewUserRepository() *UserRepository {
	return &UserRepository{col: database.Collection("users")}
}

// NewUserRepositoryWith binds the repository to an explicit collection.
// Used by tests running against a scratch database.
func NewUserRepositoryWith(col *mongo.Collection) *UserRepository {
	return &UserRepository{col: col}
}

// Create persists a new user. A duplicate email surfaces as a conflict.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("Already registered, please login")
		}
		return apperr.Wrap(apperr.KindUnexpected, "create user", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "find user by email", err)
	}
	return &user, nil
}

// FindByID looks up a user by the hex form of their object id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid user id")
	}

	var user models.User
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnexpected, "find user by id", err)
	}
	return &user, nil
}

// RoleByID returns the role of the user with the given hex id.
// The (found=false) return distinguishes an absent user from a lookup error.
func (r *UserRepository) RoleByID(ctx context.Context, id string) (role int, found bool, err error) {
	oid, oidErr := primitive.ObjectIDFromHex(id)
	if oidErr != nil {
		return 0, false, nil
	}

	var doc struct {
		Role int `bson:"role"`
	}
	err = r.col.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{"role": 1}),
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return doc.Role, true, nil
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("email already in use")
		}
		return apperr.Wrap(apperr.KindUnexpected, "update user", err)
	}
	return nil
}
