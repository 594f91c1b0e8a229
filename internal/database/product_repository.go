package database

import (
	"context"
	"fmt"

	"github.com/example/trainbot/pkg/models"
)

// ProductRepository handles database operations for products
type ProductRepository struct{}

// NewProductRepository creates a new repository instance
func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

const productColumns = "id, name, description, category_id, image_file_id, document_file_id, created_at, created_by"

// GetByID returns a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	query := DB.Rebind("SELECT " + productColumns + " FROM products WHERE id = ?")
	if err := DB.GetContext(ctx, &product, query, id); err != nil {
		return nil, fmt.Errorf("failed to get product: %v", err)
	}
	return &product, nil
}

// GetByCategory returns all products in a category ordered by name
func (r *ProductRepository) GetByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	var products []models.Product
	query := DB.Rebind("SELECT " + productColumns + " FROM products WHERE category_id = ? ORDER BY name")
	if err := DB.SelectContext(ctx, &products, query, categoryID); err != nil {
		return nil, fmt.Errorf("failed to get products: %v", err)
	}
	return products, nil
}

// Search returns products whose name matches the query, case-insensitively
func (r *ProductRepository) Search(ctx context.Context, text string) ([]models.Product, error) {
	var products []models.Product
	match := "LIKE" // SQLite LIKE is case-insensitive for ASCII
	if DB.DriverName() == "postgres" {
		match = "ILIKE"
	}
	query := DB.Rebind("SELECT " + productColumns + " FROM products WHERE name " + match + " ? ORDER BY name")
	if err := DB.SelectContext(ctx, &products, query, "%"+text+"%"); err != nil {
		return nil, fmt.Errorf("failed to search products: %v", err)
	}
	return products, nil
}

// GetTestableByCategory returns products in a category that have at least one
// test question, together with their question counts.
func (r *ProductRepository) GetTestableByCategory(ctx context.Context, categoryID int64) ([]models.ProductListing, error) {
	var listings []models.ProductListing
	query := DB.Rebind(`
		SELECT p.id, p.name, '' AS category_name, COUNT(tq.id) AS question_count
		FROM products p
		INNER JOIN test_questions tq ON p.id = tq.product_id
		WHERE p.category_id = ?
		GROUP BY p.id, p.name
		HAVING COUNT(tq.id) > 0
		ORDER BY p.name
	`)
	if err := DB.SelectContext(ctx, &listings, query, categoryID); err != nil {
		return nil, fmt.Errorf("failed to get testable products: %v", err)
	}
	return listings, nil
}

// GetAllWithQuestionCounts returns every product with its category name and
// question count, for the admin question management screen.
func (r *ProductRepository) GetAllWithQuestionCounts(ctx context.Context) ([]models.ProductListing, error) {
	var listings []models.ProductListing
	err := DB.SelectContext(ctx, &listings, `
		SELECT p.id, p.name, COALESCE(c.name, '') AS category_name, COUNT(tq.id) AS question_count
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		LEFT JOIN test_questions tq ON p.id = tq.product_id
		GROUP BY p.id, p.name, c.name
		ORDER BY c.name, p.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get product listings: %v", err)
	}
	return listings, nil
}

// Create inserts a new product
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := DB.Rebind(`
		INSERT INTO products (name, description, category_id, image_file_id, document_file_id, created_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err := DB.ExecContext(ctx, query,
		product.Name,
		product.Description,
		product.CategoryID,
		product.ImageFileID,
		product.DocumentFileID,
		product.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %v", err)
	}
	return nil
}

// Delete removes a product
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	query := DB.Rebind("DELETE FROM products WHERE id = ?")
	if _, err := DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete product: %v", err)
	}
	return nil
}

// Count returns the total number of products
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM products"); err != nil {
		return 0, fmt.Errorf("failed to count products: %v", err)
	}
	return count, nil
}
