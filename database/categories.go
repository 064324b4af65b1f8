package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"eshop-server/models"
)

type CategoryStore struct {
	col *mongo.Collection
}

func NewCategoryStore() *CategoryStore {
	return &CategoryStore{col: DB.Collection(categoriesCollection)}
}

func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryStore) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	res, err := s.col.InsertOne(ctx, category)
	if err != nil {
		return nil, err
	}
	category.ID = res.InsertedID.(primitive.ObjectID)
	return category, nil
}

func (s *CategoryStore) Update(ctx context.Context, category *models.Category) (*models.Category, error) {
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return category, nil
}

func (s *CategoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
