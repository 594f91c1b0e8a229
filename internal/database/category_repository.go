package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/trainbot/pkg/models"
)

// CategoryRepository handles database operations for categories
type CategoryRepository struct{}

// NewCategoryRepository creates a new repository instance
func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

// GetAll returns all categories ordered by name
func (r *CategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := DB.SelectContext(ctx, &categories,
		"SELECT id, name, description, created_at, created_by FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %v", err)
	}
	return categories, nil
}

// GetByID returns a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	query := DB.Rebind("SELECT id, name, description, created_at, created_by FROM categories WHERE id = ?")
	if err := DB.GetContext(ctx, &category, query, id); err != nil {
		return nil, fmt.Errorf("failed to get category: %v", err)
	}
	return &category, nil
}

// ExistsByName reports whether a category with the given name already exists
func (r *CategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var id int64
	query := DB.Rebind("SELECT id FROM categories WHERE name = ?")
	err := DB.GetContext(ctx, &id, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check category name: %v", err)
	}
	return true, nil
}

// Create inserts a new category
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := DB.Rebind("INSERT INTO categories (name, description, created_by) VALUES (?, ?, ?)")
	if _, err := DB.ExecContext(ctx, query, category.Name, category.Description, category.CreatedBy); err != nil {
		return fmt.Errorf("failed to create category: %v", err)
	}
	return nil
}

// Delete removes a category
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	query := DB.Rebind("DELETE FROM categories WHERE id = ?")
	if _, err := DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete category: %v", err)
	}
	return nil
}

// Count returns the total number of categories
func (r *CategoryRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM categories"); err != nil {
		return 0, fmt.Errorf("failed to count categories: %v", err)
	}
	return count, nil
}
