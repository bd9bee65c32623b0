package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookhaven/library-api/internal/core/domain"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	TenantID     primitive.ObjectID `bson:"tenant_id"`
	IsActive     bool               `bson:"is_active"`
	CreatedAt    time.Time          `bson:"created_at"`
	LastLogin    *time.Time         `bson:"last_login,omitempty"`
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Role:         domain.Role(d.Role),
		TenantID:     d.TenantID.Hex(),
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt,
		LastLogin:    d.LastLogin,
	}
}

// FindByID looks a user up by (id, tenant id). Both must match: a valid user
// id queried under the wrong tenant yields not-found.
func (r *UserRepository) FindByID(ctx context.Context, id, tenantID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	tid, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var d userDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid, "tenant_id": tid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return d.toDomain(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username, tenantID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tid, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var d userDoc
	if err := r.col.FindOne(ctx, bson.M{"username": username, "tenant_id": tid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return d.toDomain(), nil
}

func (r *UserRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tid, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return nil, domain.ErrTenantNotFound
	}

	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"tenant_id": tid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var d userDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, d.toDomain())
	}
	return users, cur.Err()
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tid, err := primitive.ObjectIDFromHex(user.TenantID)
	if err != nil {
		return nil, domain.ErrTenantNotFound
	}

	d := userDoc{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		TenantID:     tid,
		IsActive:     user.IsActive,
		CreatedAt:    user.CreatedAt,
	}
	res, err := r.col.InsertOne(ctx, d)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	tid, err := primitive.ObjectIDFromHex(user.TenantID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	update := bson.M{"$set": bson.M{
		"role":      string(user.Role),
		"is_active": user.IsActive,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid, "tenant_id": tid}, update)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id, tenantID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	tid, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "tenant_id": tid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// TouchLastLogin records an authentication timestamp. Callers treat failures
// as non-fatal.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id, tenantID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	tid, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	_, err = r.col.UpdateOne(ctx, bson.M{"_id": oid, "tenant_id": tid}, bson.M{"$set": bson.M{"last_login": at}})
	return err
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, tenantID, hash string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	tid, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid, "tenant_id": tid}, bson.M{"$set": bson.M{"password_hash": hash}})
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the per-tenant unique username index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "username", Value: 1}},
		Options: optionsUnique(),
	})
	return err
}
