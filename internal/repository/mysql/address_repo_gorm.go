package mysql

import (
	"context"
	"errors"
	"log"

	"farm-market/internal/domain"
	"farm-market/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type addressRepo struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) repository.AddressRepository {
	return &addressRepo{db: db}
}

func (r *addressRepo) FindByBuyer(ctx context.Context, buyerEmail string) (*domain.Address, error) {
	var a domain.Address
	err := r.db.WithContext(ctx).Where("buyer_email = ?", domain.NormalizeEmail(buyerEmail)).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("address: find: %v", err)
		return nil, err
	}
	return &a, nil
}

func (r *addressRepo) Upsert(ctx context.Context, address *domain.Address) error {
	address.BuyerEmail = domain.NormalizeEmail(address.BuyerEmail)
	address.ID = 0
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "buyer_email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"first_name", "last_name", "phone", "province", "district", "city_address", "updated_at",
		}),
	}).Create(address).Error
	if err != nil {
		log.Printf("address: upsert %s: %v", address.BuyerEmail, err)
	}
	return err
}

func (r *addressRepo) DeleteByBuyer(ctx context.Context, buyerEmail string) (bool, error) {
	res := r.db.WithContext(ctx).Where("buyer_email = ?", domain.NormalizeEmail(buyerEmail)).Delete(&domain.Address{})
	if res.Error != nil {
		log.Printf("address: delete: %v", res.Error)
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
