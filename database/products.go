package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eshop-server/models"
)

type ProductStore struct {
	col *mongo.Collection
}

func NewProductStore() *ProductStore {
	return &ProductStore{col: DB.Collection(productsCollection)}
}

// List returns all products, or only those whose category is in categoryIDs
// when the filter is non-empty.
func (s *ProductStore) List(ctx context.Context, categoryIDs []primitive.ObjectID) ([]models.Product, error) {
	filter := bson.M{}
	if len(categoryIDs) > 0 {
		filter["category"] = bson.M{"$in": categoryIDs}
	}

	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Featured caps the result at limit; limit 0 means no cap.
func (s *ProductStore) Featured(ctx context.Context, limit int64) ([]models.Product, error) {
	opts := options.Find().SetLimit(limit)
	cursor, err := s.col.Find(ctx, bson.M{"isFeatured": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}

func (s *ProductStore) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	res, err := s.col.InsertOne(ctx, product)
	if err != nil {
		return nil, err
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return product, nil
}

// Replace overwrites every field of the stored document.
func (s *ProductStore) Replace(ctx context.Context, product *models.Product) (*models.Product, error) {
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return product, nil
}

func (s *ProductStore) UpdateGallery(ctx context.Context, id primitive.ObjectID, images []string) (*models.Product, error) {
	var product models.Product
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"images": images}},
		opts,
	).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
