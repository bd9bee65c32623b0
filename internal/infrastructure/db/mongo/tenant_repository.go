package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookhaven/library-api/internal/core/domain"
)

const collectionTenants = "tenants"

type TenantRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewTenantRepository(db *mongo.Database) *TenantRepository {
	return &TenantRepository{db: db, col: db.Collection(collectionTenants)}
}

type tenantDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Subdomain string             `bson:"subdomain"`
	IsActive  bool               `bson:"is_active"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d tenantDoc) toDomain() *domain.Tenant {
	return &domain.Tenant{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Subdomain: d.Subdomain,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *TenantRepository) FindBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d tenantDoc
	if err := r.col.FindOne(ctx, bson.M{"subdomain": subdomain}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("find tenant by subdomain: %w", err)
	}
	return d.toDomain(), nil
}

func (r *TenantRepository) FindByID(ctx context.Context, id string) (*domain.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTenantNotFound
	}

	var d tenantDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("find tenant: %w", err)
	}
	return d.toDomain(), nil
}

// CreateWithAdmin inserts the tenant and its bootstrap admin in one
// multi-document transaction: either both documents are committed or neither
// is. Requires a replica set.
func (r *TenantRepository) CreateWithAdmin(ctx context.Context, tenant *domain.Tenant, admin *domain.User) (*domain.Tenant, *domain.User, error) {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return nil, nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	users := r.db.Collection(collectionUsers)

	var (
		tenantID primitive.ObjectID
		userID   primitive.ObjectID
	)
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		td := tenantDoc{
			Name:      tenant.Name,
			Subdomain: tenant.Subdomain,
			IsActive:  tenant.IsActive,
			CreatedAt: tenant.CreatedAt,
			UpdatedAt: tenant.UpdatedAt,
		}
		res, err := r.col.InsertOne(sc, td)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrSubdomainTaken
			}
			return nil, fmt.Errorf("insert tenant: %w", err)
		}
		tenantID = res.InsertedID.(primitive.ObjectID)

		ud := userDoc{
			Username:     admin.Username,
			PasswordHash: admin.PasswordHash,
			Role:         string(admin.Role),
			TenantID:     tenantID,
			IsActive:     admin.IsActive,
			CreatedAt:    admin.CreatedAt,
		}
		ures, err := users.InsertOne(sc, ud)
		if err != nil {
			return nil, fmt.Errorf("insert bootstrap admin: %w", err)
		}
		userID = ures.InsertedID.(primitive.ObjectID)
		return nil, nil
	})
	if err != nil {
		return nil, nil, err
	}

	createdTenant := *tenant
	createdTenant.ID = tenantID.Hex()
	createdAdmin := *admin
	createdAdmin.ID = userID.Hex()
	createdAdmin.TenantID = createdTenant.ID
	return &createdTenant, &createdAdmin, nil
}

func (r *TenantRepository) Update(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(tenant.ID)
	if err != nil {
		return nil, domain.ErrTenantNotFound
	}

	update := bson.M{"$set": bson.M{
		"name":       tenant.Name,
		"is_active":  tenant.IsActive,
		"updated_at": tenant.UpdatedAt,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, fmt.Errorf("update tenant: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrTenantNotFound
	}
	return tenant, nil
}

// EnsureIndexes creates the unique subdomain index.
func (r *TenantRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "subdomain", Value: 1}},
		Options: optionsUnique(),
	})
	return err
}
