package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/online-shop/internal/models"
)

// Ошибки, различаемые бизнес-логикой при оформлении заказа.
var (
	// ErrProductUnavailable возвращается, если товар не существует или снят с продажи.
	ErrProductUnavailable = errors.New("product unavailable")
	// ErrInsufficientStock возвращается, если на складе недостаточно товара.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOrderNotPending возвращается при попытке сменить статус уже обработанного заказа.
	ErrOrderNotPending = errors.New("order is not pending")
)

// mergeOrderItems складывает количества повторяющихся товаров: в order_items
// товар встречается не больше одного раза на заказ.
func mergeOrderItems(items []models.OrderItem) []models.OrderItem {
	merged := make([]models.OrderItem, 0, len(items))
	index := make(map[int]int, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}

// CreateOrder оформляет заказ в одной транзакции: блокирует строки товаров,
// проверяет доступность и остатки, считает итоговую сумму по ценам из каталога,
// вставляет заказ с позициями и списывает остатки.
// При любой ошибке транзакция откатывается целиком.
func (s *Storage) CreateOrder(ctx context.Context, username string, items []models.OrderItem) (*models.Order, error) {
	const op = "storage.CreateOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	items = mergeOrderItems(items)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var totalPrice int
	for i := range items {
		var price, stock int
		var isActive bool
		row := tx.QueryRowContext(ctx,
			`SELECT price, stock, is_active FROM products WHERE id = $1 FOR UPDATE`,
			items[i].ProductID)
		if err := row.Scan(&price, &stock, &isActive); err != nil {
			return nil, fmt.Errorf("%s: product %d: %w", op, items[i].ProductID, ErrProductUnavailable)
		}
		if !isActive {
			return nil, fmt.Errorf("%s: product %d: %w", op, items[i].ProductID, ErrProductUnavailable)
		}
		if stock < items[i].Quantity {
			return nil, fmt.Errorf("%s: product %d: %w", op, items[i].ProductID, ErrInsufficientStock)
		}
		items[i].UnitPrice = price
		totalPrice += price * items[i].Quantity
	}

	order := models.Order{
		UID:        uuid.New().String(),
		Username:   username,
		Status:     models.OrderStatusPending,
		TotalPrice: totalPrice,
	}
	query := `INSERT INTO orders (uid, username, status, total_price)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at`
	if err := tx.QueryRowContext(ctx, query,
		order.UID, order.Username, order.Status, order.TotalPrice).Scan(&order.ID, &order.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range items {
		items[i].OrderID = order.ID
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			 VALUES ($1, $2, $3, $4)`,
			items[i].OrderID, items[i].ProductID, items[i].Quantity, items[i].UnitPrice); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $1, updated_at = now() WHERE id = $2`,
			items[i].Quantity, items[i].ProductID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	order.Items = items

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &order, nil
}

// ReadOrder возвращает заказ с позициями по его ID.
func (s *Storage) ReadOrder(ctx context.Context, id int) (*models.Order, error) {
	const op = "storage.ReadOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, uid, username, status, total_price, created_at
			  FROM orders WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Order
	if err := row.Scan(&result.ID, &result.UID, &result.Username, &result.Status,
		&result.TotalPrice, &result.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT order_id, product_id, quantity, unit_price
		 FROM order_items WHERE order_id = $1 ORDER BY product_id`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.Items = append(result.Items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateOrderStatus переводит заказ из pending в переданный статус и возвращает
// владельца заказа. При отмене заказа остатки товаров возвращаются на склад.
func (s *Storage) UpdateOrderStatus(ctx context.Context, id int, status string) (string, error) {
	const op = "storage.UpdateOrderStatus"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var username, current string
	row := tx.QueryRowContext(ctx,
		`SELECT username, status FROM orders WHERE id = $1 FOR UPDATE`, id)
	if err := row.Scan(&username, &current); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if current != models.OrderStatusPending {
		return "", fmt.Errorf("%s: order %d: %w", op, id, ErrOrderNotPending)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2`, status, id); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if status == models.OrderStatusCancelled {
		if _, err := tx.ExecContext(ctx,
			`UPDATE products p
			 SET stock = stock + oi.quantity, updated_at = now()
			 FROM order_items oi
			 WHERE oi.order_id = $1 AND p.id = oi.product_id`, id); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return username, nil
}

// ListOrders возвращает список заказов пользователя с пагинацией, без позиций.
func (s *Storage) ListOrders(ctx context.Context, username string, limit, offset int) ([]*models.Order, error) {
	const op = "storage.ListOrders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, uid, username, status, total_price, created_at
			  FROM orders
			  WHERE username = $1
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Order
	for rows.Next() {
		var item models.Order
		if err := rows.Scan(&item.ID, &item.UID, &item.Username, &item.Status,
			&item.TotalPrice, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
