// Package addressbook drives the saved-address panel shown on the cart and
// checkout views.
package addressbook

import (
	"context"
	"errors"
	"fmt"

	"farm-market/internal/confirm"
	"farm-market/internal/domain"
)

// Store is the remote address store, usually *infra.MarketClient.
type Store interface {
	// GetAddress returns nil, nil when nothing is saved.
	GetAddress(ctx context.Context, buyerEmail string) (*domain.Address, error)
	SaveAddress(ctx context.Context, address *domain.Address) error
	DeleteAddress(ctx context.Context, buyerEmail string) error
}

type Mode int

const (
	ModeEdit Mode = iota
	ModeView
)

func (m Mode) String() string {
	if m == ModeView {
		return "view"
	}
	return "edit"
}

type Field string

const (
	FieldFirstName   Field = "firstName"
	FieldLastName    Field = "lastName"
	FieldPhone       Field = "phone"
	FieldProvince    Field = "province"
	FieldDistrict    Field = "district"
	FieldCityAddress Field = "cityAddress"
)

var (
	ErrReadOnly     = errors.New("address is read-only until edit is chosen")
	ErrUnknownField = errors.New("unknown address field")
)

// Panel holds the address being shown or edited for one buyer.
type Panel struct {
	store    Store
	email    string
	address  domain.Address
	mode     Mode
	hasSaved bool
	// Message is the last user-visible failure, cleared on success.
	Message string
}

func NewPanel(store Store, buyerEmail string) *Panel {
	email := domain.NormalizeEmail(buyerEmail)
	return &Panel{store: store, email: email, address: domain.BlankAddress(email)}
}

// Mount loads the saved address. A failed lookup is treated like an absent
// address so the buyer can still enter one.
func (p *Panel) Mount(ctx context.Context) {
	p.Message = ""
	a, err := p.store.GetAddress(ctx, p.email)
	if err != nil || a == nil {
		p.reset()
		return
	}
	p.address = *a
	p.address.BuyerEmail = p.email
	p.mode = ModeView
	p.hasSaved = true
}

func (p *Panel) Edit() {
	p.mode = ModeEdit
}

func (p *Panel) Set(field Field, value string) error {
	if p.mode != ModeEdit {
		return ErrReadOnly
	}
	switch field {
	case FieldFirstName:
		p.address.FirstName = value
	case FieldLastName:
		p.address.LastName = value
	case FieldPhone:
		p.address.Phone = value
	case FieldProvince:
		p.address.Province = value
	case FieldDistrict:
		p.address.District = value
	case FieldCityAddress:
		p.address.CityAddress = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Save replaces the whole stored record. Entered values survive a failure.
func (p *Panel) Save(ctx context.Context) error {
	a := p.address
	a.BuyerEmail = p.email
	if err := domain.ValidateAddress(&a); err != nil {
		p.Message = domain.UserMessage(err, "Please fill all required fields")
		return err
	}
	if err := p.store.SaveAddress(ctx, &a); err != nil {
		p.Message = domain.UserMessage(err, "Failed to save address")
		return err
	}
	p.address = a
	p.mode = ModeView
	p.hasSaved = true
	p.Message = ""
	return nil
}

// Delete removes the saved record after c agrees and resets the panel to a
// blank form.
func (p *Panel) Delete(ctx context.Context, c confirm.Confirmer) error {
	if err := confirm.Ask(ctx, c, "Delete your saved address?"); err != nil {
		return err
	}
	if err := p.store.DeleteAddress(ctx, p.email); err != nil {
		p.Message = domain.UserMessage(err, "Failed to delete address")
		return err
	}
	p.reset()
	p.Message = ""
	return nil
}

func (p *Panel) reset() {
	p.address = domain.BlankAddress(p.email)
	p.mode = ModeEdit
	p.hasSaved = false
}

func (p *Panel) Address() domain.Address { return p.address }

func (p *Panel) Mode() Mode { return p.mode }

// HasSaved reports whether the shown address is the stored one.
func (p *Panel) HasSaved() bool { return p.hasSaved }
