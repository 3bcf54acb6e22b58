package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/internal/repository"
)

type CategoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, name string, subcategories []string) (*models.Category, error) {
	c := &models.Category{Name: name, Subcategories: subcategories}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) Update(ctx context.Context, id primitive.ObjectID, name string, subcategories []string) (*models.Category, error) {
	fields := bson.M{}
	if name != "" {
		fields["name"] = name
	}
	if subcategories != nil {
		fields["subcategories"] = subcategories
	}
	if len(fields) > 0 {
		if err := s.categories.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.categories.FindByID(ctx, id)
}

func (s *CategoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.categories.Delete(ctx, id)
}
