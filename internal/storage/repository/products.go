package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/online-shop/internal/models"
)

// CreateProduct вставляет новый товар и возвращает его ID.
func (s *Storage) CreateProduct(ctx context.Context, product models.Product) (int, error) {
	const op = "storage.CreateProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO products (name, description, price, stock, is_active)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Price, product.Stock,
		product.IsActive).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadProduct возвращает товар по его ID.
func (s *Storage) ReadProduct(ctx context.Context, id int) (*models.Product, error) {
	const op = "storage.ReadProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price, stock, is_active, created_at, updated_at
			  FROM products WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Product
	if err := row.Scan(&result.ID, &result.Name, &result.Description, &result.Price,
		&result.Stock, &result.IsActive, &result.CreatedAt, &result.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateProduct обновляет данные товара по его ID и возвращает количество изменённых строк.
func (s *Storage) UpdateProduct(ctx context.Context, product models.Product, id int) (int, error) {
	const op = "storage.UpdateProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE products
			  SET name = $1, description = $2, price = $3, stock = $4,
			      is_active = $5, updated_at = now()
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		product.Name, product.Description, product.Price, product.Stock,
		product.IsActive, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveProduct удаляет товар по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveProduct(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM products WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListProducts возвращает список активных товаров с пагинацией.
func (s *Storage) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price, stock, is_active, created_at, updated_at
			  FROM products
			  WHERE is_active = true
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		var item models.Product
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price,
			&item.Stock, &item.IsActive, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
