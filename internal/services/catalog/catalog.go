// Package services содержит бизнес-логику каталога товаров с кешированием.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/online-shop/internal/models"
)

// Ключи списков включают версию каталога. Мутации удаляют ключ версии,
// после чего все закешированные страницы списка становятся недостижимыми.
const productsVersionKey = "products:version"

// ProductRepository определяет методы для работы с товарами в хранилище.
type ProductRepository interface {
	// CreateProduct добавляет новый товар и возвращает его ID.
	CreateProduct(ctx context.Context, product models.Product) (int, error)
	// ReadProduct возвращает товар по ID.
	ReadProduct(ctx context.Context, id int) (*models.Product, error)
	// UpdateProduct обновляет данные товара по ID.
	UpdateProduct(ctx context.Context, product models.Product, id int) (int, error)
	// RemoveProduct удаляет товар по ID и возвращает количество удалённых записей.
	RemoveProduct(ctx context.Context, id int) (int, error)
	// ListProducts возвращает список активных товаров с пагинацией.
	ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// CatalogService реализует бизнес-логику каталога, включая кеширование.
type CatalogService struct {
	repo  ProductRepository
	cache Cache
	log   *slog.Logger
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo ProductRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает новый товар, кеширует его и возвращает ID.
func (s *CatalogService) Create(ctx context.Context, req models.DummyProduct) (int, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    isActive,
	}

	id, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new product", slog.Int("id", id))

	cacheKey := fmt.Sprintf("product:%d", id)
	if err := s.cache.Set(cacheKey, product, time.Hour); err != nil {
		s.log.Warn("failed to cache product", slog.String("key", cacheKey), slog.Any("err", err))
	}
	s.invalidateLists()

	return id, nil
}

// listVersion возвращает текущую версию каталога для ключей списков.
// При отсутствии версии заводит новую, при ошибке кеша кеширование пропускается.
func (s *CatalogService) listVersion() (int64, bool) {
	var version int64
	found, err := s.cache.Get(productsVersionKey, &version)
	if err != nil {
		s.log.Warn("failed to read list version", slog.Any("err", err))
		return 0, false
	}
	if !found {
		version = time.Now().UnixNano()
		if err := s.cache.Set(productsVersionKey, version, 0); err != nil {
			s.log.Warn("failed to store list version", slog.Any("err", err))
			return 0, false
		}
	}
	return version, true
}

// invalidateLists сбрасывает все закешированные страницы списка товаров.
func (s *CatalogService) invalidateLists() {
	if err := s.cache.Invalidate(productsVersionKey); err != nil {
		s.log.Warn("failed to invalidate product lists", slog.Any("err", err))
	}
}

// Read возвращает товар по ID, используя кеш или репозиторий.
func (s *CatalogService) Read(ctx context.Context, id int) (*models.Product, error) {
	var result *models.Product
	cacheKey := fmt.Sprintf("product:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey),
				slog.Any("err", err))
		}
	}
	return result, nil
}

// Update обновляет товар и его запись в кеше, возвращает количество изменённых строк.
func (s *CatalogService) Update(ctx context.Context, req models.DummyProduct, id int) (int, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    isActive,
	}
	res, err := s.repo.UpdateProduct(ctx, product, id)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated product in storage", slog.Int("id", id))

	cacheKey := fmt.Sprintf("product:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	s.invalidateLists()
	return res, nil
}

// Remove удаляет товар по ID и инвалидирует кеш.
func (s *CatalogService) Remove(ctx context.Context, id int) (int, error) {
	cacheKey := fmt.Sprintf("product:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemoveProduct(ctx, id)
	if err != nil {
		return 0, err
	}
	s.invalidateLists()

	return count, nil
}

// List возвращает список активных товаров с пагинацией, используя кеш.
func (s *CatalogService) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	var result []*models.Product
	version, useCache := s.listVersion()
	cacheKey := fmt.Sprintf("products:%d:%d:%d", version, limit, offset)
	if useCache {
		found, err := s.cache.Get(cacheKey, &result)
		if err != nil {
			s.log.Warn("failed to read from cache", slog.String("key", cacheKey), slog.Any("err", err))
		}
		if found {
			return result, nil
		}
	}

	result, err := s.repo.ListProducts(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	if useCache {
		if err := s.cache.Set(cacheKey, result, 5*time.Minute); err != nil {
			s.log.Warn("failed to cache product list", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	return result, nil
}
