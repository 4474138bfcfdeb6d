// Package services содержит бизнес-логику оформления и просмотра заказов.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/online-shop/internal/lib/sl"
	"github.com/magabrotheeeer/online-shop/internal/metrics"
	"github.com/magabrotheeeer/online-shop/internal/models"
)

// ErrForbidden возвращается при попытке прочитать чужой заказ.
var ErrForbidden = errors.New("order belongs to another user")

// OrderRepository определяет методы для работы с заказами в хранилище.
type OrderRepository interface {
	// CreateOrder оформляет заказ с позициями в одной транзакции.
	CreateOrder(ctx context.Context, username string, items []models.OrderItem) (*models.Order, error)
	// ReadOrder возвращает заказ с позициями по ID.
	ReadOrder(ctx context.Context, id int) (*models.Order, error)
	// ListOrders возвращает список заказов пользователя с пагинацией.
	ListOrders(ctx context.Context, username string, limit, offset int) ([]*models.Order, error)
	// UpdateOrderStatus переводит заказ из pending в новый статус, возвращает владельца.
	UpdateOrderStatus(ctx context.Context, id int, status string) (string, error)
	// GetUserByUsername возвращает пользователя (нужен email для уведомления).
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// EventPublisher публикует события заказов в брокер сообщений.
type EventPublisher interface {
	PublishOrderCreated(event models.OrderEvent) error
}

// OrderService реализует бизнес-логику заказов.
type OrderService struct {
	repo      OrderRepository
	cache     Cache
	publisher EventPublisher
	log       *slog.Logger
}

// NewOrderService создает новый экземпляр OrderService.
func NewOrderService(repo OrderRepository, cache Cache, publisher EventPublisher, log *slog.Logger) *OrderService {
	return &OrderService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

// Create оформляет заказ пользователя и публикует событие для воркера уведомлений.
// Сумма заказа считается хранилищем по ценам каталога, данные запроса не используются.
// Ошибка публикации события заказ не откатывает.
func (s *OrderService) Create(ctx context.Context, username string, req models.DummyOrder) (*models.Order, error) {
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := s.repo.CreateOrder(ctx, username, items)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new order", slog.Int("id", order.ID), slog.Int("total_price", order.TotalPrice))

	metrics.OrdersCreatedTotal.Inc()
	metrics.OrderTotalPrice.Observe(float64(order.TotalPrice))

	s.invalidateOrderLists(username)

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		s.log.Error("failed to load user for order event", sl.Err(err))
		return order, nil
	}
	event := models.OrderEvent{
		OrderID:    order.ID,
		OrderUID:   order.UID,
		Username:   username,
		Email:      user.Email,
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt,
	}
	if err := s.publisher.PublishOrderCreated(event); err != nil {
		s.log.Error("failed to publish order event", sl.Err(err))
	}

	return order, nil
}

// Read возвращает заказ по ID. Пользователь видит только свои заказы,
// администратор — любые.
func (s *OrderService) Read(ctx context.Context, id int, username, role string) (*models.Order, error) {
	order, err := s.repo.ReadOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Username != username && role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	return order, nil
}

// UpdateStatus переводит заказ в новый статус. При отмене остатки товаров
// возвращает хранилище, здесь дополнительно сбрасывается кеш списков владельца.
func (s *OrderService) UpdateStatus(ctx context.Context, id int, status string) error {
	username, err := s.repo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return err
	}
	s.log.Info("updated order status", slog.Int("id", id), slog.String("status", status))
	s.invalidateOrderLists(username)
	return nil
}

// listVersion возвращает версию списка заказов пользователя для ключей кеша.
// Ключи включают версию и limit, поэтому страницы с разным размером не пересекаются.
func (s *OrderService) listVersion(username string) (int64, bool) {
	var version int64
	versionKey := fmt.Sprintf("orders:%s:version", username)
	found, err := s.cache.Get(versionKey, &version)
	if err != nil {
		s.log.Warn("failed to read orders list version", slog.Any("err", err))
		return 0, false
	}
	if !found {
		version = time.Now().UnixNano()
		if err := s.cache.Set(versionKey, version, 0); err != nil {
			s.log.Warn("failed to store orders list version", slog.Any("err", err))
			return 0, false
		}
	}
	return version, true
}

// invalidateOrderLists сбрасывает закешированные страницы заказов пользователя.
func (s *OrderService) invalidateOrderLists(username string) {
	versionKey := fmt.Sprintf("orders:%s:version", username)
	if err := s.cache.Invalidate(versionKey); err != nil {
		s.log.Warn("failed to invalidate orders cache", slog.String("key", versionKey), slog.Any("err", err))
	}
}

// List возвращает заказы пользователя с пагинацией, используя кеш.
func (s *OrderService) List(ctx context.Context, username string, limit, offset int) ([]*models.Order, error) {
	var result []*models.Order
	// кешируется только первая страница, остальные ходят в базу
	useCache := offset == 0
	var cacheKey string
	if useCache {
		version, ok := s.listVersion(username)
		useCache = ok
		cacheKey = fmt.Sprintf("orders:%s:%d:%d", username, version, limit)
	}
	if useCache {
		found, err := s.cache.Get(cacheKey, &result)
		if err != nil {
			s.log.Warn("failed to read from cache", slog.String("key", cacheKey), slog.Any("err", err))
		}
		if found {
			return result, nil
		}
	}

	result, err := s.repo.ListOrders(ctx, username, limit, offset)
	if err != nil {
		return nil, err
	}

	if useCache {
		if err := s.cache.Set(cacheKey, result, 5*time.Minute); err != nil {
			s.log.Warn("failed to cache orders", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	return result, nil
}
