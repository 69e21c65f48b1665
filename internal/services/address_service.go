package services

import (
	"context"

	"farm-market/internal/domain"
	"farm-market/internal/repository"
)

// AddressService lets a buyer manage their single saved address.
type AddressService struct {
	repo repository.AddressRepository
}

func NewAddressService(r repository.AddressRepository) *AddressService {
	return &AddressService{repo: r}
}

func (s *AddressService) GetAddress(ctx context.Context, actor domain.Actor, buyerEmail string) (*domain.Address, error) {
	if !actor.Owns(buyerEmail) {
		return nil, domain.ErrNotOwner
	}
	a, err := s.repo.FindByBuyer(ctx, domain.NormalizeEmail(buyerEmail))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrAddressNotFound
	}
	return a, nil
}

// SaveAddress replaces the buyer's whole record. An address without an email
// is saved for the caller.
func (s *AddressService) SaveAddress(ctx context.Context, actor domain.Actor, a *domain.Address) (*domain.Address, error) {
	if a == nil {
		return nil, domain.ValidateAddress(nil)
	}
	if a.BuyerEmail == "" {
		a.BuyerEmail = actor.Email
	}
	if !actor.Owns(a.BuyerEmail) {
		return nil, domain.ErrNotOwner
	}
	a.BuyerEmail = domain.NormalizeEmail(a.BuyerEmail)
	if err := domain.ValidateAddress(a); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, a); err != nil {
		return nil, err
	}
	saved, err := s.repo.FindByBuyer(ctx, a.BuyerEmail)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return a, nil
	}
	return saved, nil
}

func (s *AddressService) DeleteAddress(ctx context.Context, actor domain.Actor, buyerEmail string) error {
	if !actor.Owns(buyerEmail) {
		return domain.ErrNotOwner
	}
	deleted, err := s.repo.DeleteByBuyer(ctx, domain.NormalizeEmail(buyerEmail))
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrAddressNotFound
	}
	return nil
}
