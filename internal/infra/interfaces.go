package infra

import (
	"context"

	"farm-market/internal/domain"
)

type CatalogClientInterface interface {
	GetProductById(ctx context.Context, id uint64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

var _ CatalogClientInterface = (*CatalogClient)(nil)
