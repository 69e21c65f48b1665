package mysql

import (
	"context"
	"errors"
	"log"
	"time"

	"farm-market/internal/domain"
	"farm-market/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Order{}).Where("order_id = ?", order.OrderID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrDuplicateOrderID
		}
		return tx.Create(order).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = domain.ErrDuplicateOrderID
	}
	if err != nil {
		log.Printf("orders: save %s: %v", order.OrderID, err)
		return err
	}
	if order.ID == 0 {
		return errors.New("failed to assign order ID")
	}
	log.Printf("orders: saved %s for %s with %d line(s)", order.OrderID, order.BuyerEmail, len(order.Items))
	return nil
}

func (r *orderRepo) FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("order_id = ?", orderID).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("orders: find %s: %v", orderID, err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByBuyer(ctx context.Context, buyerEmail string) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("buyer_email = ?", domain.NormalizeEmail(buyerEmail)).
		Order("order_date DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		log.Printf("orders: find by buyer: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) FindByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ?", status).
		Order("order_date ASC").Order("id ASC").
		Find(&out).Error
	if err != nil {
		log.Printf("orders: find by status %s: %v", status, err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("order_id = ? AND status = ?", orderID, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		log.Printf("orders: update %s %s->%s: %v", orderID, from, to, res.Error)
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("order_id = ?", orderID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrOrderNotFound
	}
	return domain.ErrAlreadyResolved
}
