package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"farm-market/internal/domain"
	"farm-market/internal/infra"

	"golang.org/x/sync/singleflight"
)

const productCacheTTL = time.Minute

// CatalogService is a read-through cache in front of the catalog service.
type CatalogService struct {
	prodClient  infra.CatalogClientInterface
	redisClient CacheClient
	cacheTTL    time.Duration
	group       singleflight.Group
}

func NewCatalogService(p infra.CatalogClientInterface) *CatalogService {
	return &CatalogService{prodClient: p, cacheTTL: defaultCacheTTL}
}

func (s *CatalogService) SetRedisClient(client CacheClient) {
	s.redisClient = client
}

func (s *CatalogService) SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	key := fmt.Sprintf(productKeyFormat, id)

	var cached domain.Product
	if cacheGet(ctx, s.redisClient, key, &cached) {
		return &cached, nil
	}

	prod, err := s.prodClient.GetProductById(ctx, id)
	if err != nil {
		return nil, err
	}
	if prod == nil {
		return nil, domain.ErrProductNotFound
	}
	cacheSet(ctx, s.redisClient, key, prod, productCacheTTL)
	return prod, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var cached []domain.Product
	if cacheGet(ctx, s.redisClient, productsKey, &cached) {
		return cached, nil
	}
	v, err, _ := s.group.Do(productsKey, func() (any, error) {
		products, err := s.prodClient.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		if products == nil {
			products = []domain.Product{}
		}
		cacheSet(ctx, s.redisClient, productsKey, products, s.cacheTTL)
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// WarmupProductCache preloads the given products. Failures are logged and
// skipped.
func (s *CatalogService) WarmupProductCache(ctx context.Context, productIds []uint64) error {
	if s.redisClient == nil {
		return nil
	}

	for _, id := range productIds {
		prod, err := s.prodClient.GetProductById(ctx, id)
		if err != nil {
			log.Printf("Failed to warm up cache for product %d: %v", id, err)
			continue
		}
		if prod != nil {
			cacheSet(ctx, s.redisClient, fmt.Sprintf(productKeyFormat, id), prod, 5*time.Minute)
		}
	}
	return nil
}
