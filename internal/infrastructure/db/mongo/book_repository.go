package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookhaven/library-api/internal/core/domain"
	"github.com/bookhaven/library-api/internal/core/ports"
)

const collectionBooks = "books"

type BookRepository struct {
	col *mongo.Collection
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{col: db.Collection(collectionBooks)}
}

type bookDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Author      string             `bson:"author"`
	ISBN        string             `bson:"isbn"`
	Description string             `bson:"description,omitempty"`
	Quantity    int                `bson:"quantity"`
	TenantID    primitive.ObjectID `bson:"tenant_id"`
	CreatedBy   string             `bson:"created_by,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d bookDoc) toDomain() *domain.Book {
	return &domain.Book{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Author:      d.Author,
		ISBN:        d.ISBN,
		Description: d.Description,
		Quantity:    d.Quantity,
		TenantID:    d.TenantID.Hex(),
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *BookRepository) List(ctx context.Context, q ports.BookQuery) ([]*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tid, err := primitive.ObjectIDFromHex(q.TenantID)
	if err != nil {
		return nil, domain.ErrTenantNotFound
	}

	filter := bson.M{"tenant_id": tid}
	if q.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"author": pattern},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "title", Value: 1}}).
		SetSkip(q.Skip).
		SetLimit(q.Limit)

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer cur.Close(ctx)

	books := make([]*domain.Book, 0)
	for cur.Next(ctx) {
		var d bookDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode book: %w", err)
		}
		books = append(books, d.toDomain())
	}
	return books, cur.Err()
}

func (r *BookRepository) FindByID(ctx context.Context, id, tenantID string) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}
	tid, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}

	var d bookDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid, "tenant_id": tid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return d.toDomain(), nil
}

func (r *BookRepository) FindByISBN(ctx context.Context, isbn, tenantID string) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tid, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}

	var d bookDoc
	if err := r.col.FindOne(ctx, bson.M{"isbn": isbn, "tenant_id": tid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book by isbn: %w", err)
	}
	return d.toDomain(), nil
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tid, err := primitive.ObjectIDFromHex(book.TenantID)
	if err != nil {
		return nil, domain.ErrTenantNotFound
	}

	d := bookDoc{
		Title:       book.Title,
		Author:      book.Author,
		ISBN:        book.ISBN,
		Description: book.Description,
		Quantity:    book.Quantity,
		TenantID:    tid,
		CreatedBy:   book.CreatedBy,
		CreatedAt:   book.CreatedAt,
		UpdatedAt:   book.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, d)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrBookExists
		}
		return nil, fmt.Errorf("insert book: %w", err)
	}

	created := *book
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *BookRepository) Update(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(book.ID)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}
	tid, err := primitive.ObjectIDFromHex(book.TenantID)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":       book.Title,
		"author":      book.Author,
		"isbn":        book.ISBN,
		"description": book.Description,
		"quantity":    book.Quantity,
		"updated_at":  book.UpdatedAt,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid, "tenant_id": tid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrBookExists
		}
		return nil, fmt.Errorf("update book: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrBookNotFound
	}
	return book, nil
}

func (r *BookRepository) Delete(ctx context.Context, id, tenantID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBookNotFound
	}
	tid, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return domain.ErrBookNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "tenant_id": tid})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// EnsureIndexes creates the per-tenant unique ISBN index.
func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "isbn", Value: 1}},
		Options: optionsUnique(),
	})
	return err
}
