package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopgrid/platform/internal/core/domain"
	"github.com/shopgrid/platform/internal/core/ports"
)

const collectionShops = "shops"

type ShopRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewShopRepository(db *mongo.Database) *ShopRepository {
	return &ShopRepository{col: db.Collection(collectionShops), now: time.Now}
}

type shopDocument struct {
	ID           string         `bson:"_id"`
	Name         string         `bson:"name"`
	Description  string         `bson:"description"`
	OwnerID      string         `bson:"ownerId"`
	OwnerEmail   string         `bson:"ownerEmail"`
	AllowedRoles []string       `bson:"allowedRoles"`
	IsActive     bool           `bson:"isActive"`
	Products     []string       `bson:"products"`
	Location     string         `bson:"location,omitempty"`
	ContactPhone string         `bson:"contactPhone,omitempty"`
	ContactEmail string         `bson:"contactEmail,omitempty"`
	Metadata     map[string]any `bson:"metadata,omitempty"`
	CreatedAt    time.Time      `bson:"createdAt"`
	UpdatedAt    time.Time      `bson:"updatedAt"`
}

func toShopDocument(s *domain.Shop) shopDocument {
	roles := make([]string, len(s.AllowedRoles))
	for i, r := range s.AllowedRoles {
		roles[i] = string(r)
	}
	return shopDocument{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		OwnerID:      s.OwnerID,
		OwnerEmail:   s.OwnerEmail,
		AllowedRoles: roles,
		IsActive:     s.IsActive,
		Products:     s.Products,
		Location:     s.Location,
		ContactPhone: s.ContactPhone,
		ContactEmail: s.ContactEmail,
		Metadata:     s.Metadata,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (d shopDocument) toDomain() *domain.Shop {
	roles := make([]domain.Role, len(d.AllowedRoles))
	for i, r := range d.AllowedRoles {
		roles[i] = domain.Role(r)
	}
	products := d.Products
	if products == nil {
		products = []string{}
	}
	return &domain.Shop{
		ID:           d.ID,
		Name:         d.Name,
		Description:  d.Description,
		OwnerID:      d.OwnerID,
		OwnerEmail:   d.OwnerEmail,
		AllowedRoles: roles,
		IsActive:     d.IsActive,
		Products:     products,
		Location:     d.Location,
		ContactPhone: d.ContactPhone,
		ContactEmail: d.ContactEmail,
		Metadata:     d.Metadata,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

// Create inserts a new shop document.
func (r *ShopRepository) Create(ctx context.Context, s *domain.Shop) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toShopDocument(s)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert shop: %w: duplicate id", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert shop: %w", err)
	}
	return nil
}

func (r *ShopRepository) FindByID(ctx context.Context, id string) (*domain.Shop, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc shopDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrShopNotFound
		}
		return nil, fmt.Errorf("find shop: %w", err)
	}
	return doc.toDomain(), nil
}

// Find returns one page of shops matching filter, newest first.
func (r *ShopRepository) Find(ctx context.Context, filter ports.ShopFilter, page domain.Page) ([]*domain.Shop, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))

	cur, err := r.col.Find(ctx, buildShopFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find shops: %w", err)
	}
	defer cur.Close(ctx)

	var docs []shopDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode shops: %w", err)
	}
	out := make([]*domain.Shop, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

func (r *ShopRepository) Count(ctx context.Context, filter ports.ShopFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, buildShopFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("count shops: %w", err)
	}
	return n, nil
}

// Update applies patch and returns the document as stored afterwards.
func (r *ShopRepository) Update(ctx context.Context, id string, patch ports.ShopPatch) (*domain.Shop, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc shopDocument
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, buildShopUpdate(patch, r.now().UTC()), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrShopNotFound
		}
		return nil, fmt.Errorf("update shop: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ShopRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrShopNotFound
	}
	return nil
}

// EnsureIndexes creates the owner, listing and text indexes on shops.
func (r *ShopRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}}},
		{
			Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("shops_text").SetWeights(bson.D{{Key: "name", Value: 10}, {Key: "description", Value: 2}}),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func buildShopFilter(f ports.ShopFilter) bson.M {
	filter := bson.M{}
	if f.OwnerID != "" {
		filter["ownerId"] = f.OwnerID
	}
	if f.ActiveOnly {
		filter["isActive"] = true
	}
	if f.Text != "" {
		filter["$text"] = bson.M{"$search": f.Text}
	}
	return filter
}

func buildShopUpdate(p ports.ShopPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.IsActive != nil {
		set["isActive"] = *p.IsActive
	}
	if p.Products != nil {
		set["products"] = p.Products
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.ContactPhone != nil {
		set["contactPhone"] = *p.ContactPhone
	}
	if p.ContactEmail != nil {
		set["contactEmail"] = *p.ContactEmail
	}
	if p.Metadata != nil {
		set["metadata"] = p.Metadata
	}
	return bson.M{"$set": set}
}
