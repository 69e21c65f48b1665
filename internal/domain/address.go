package domain

import "time"

// Address is the saved delivery address of one buyer. BuyerEmail is unique.
type Address struct {
	ID          uint64    `json:"id,omitempty" gorm:"primaryKey;autoIncrement"`
	BuyerEmail  string    `json:"buyerEmail" gorm:"size:255;not null;uniqueIndex" validate:"required,email"`
	FirstName   string    `json:"firstName" gorm:"size:100;not null" validate:"required,max=100"`
	LastName    string    `json:"lastName" gorm:"size:100;not null" validate:"required,max=100"`
	Phone       string    `json:"phone" gorm:"size:32;not null" validate:"required,max=32"`
	Province    string    `json:"province" gorm:"size:64;not null" validate:"required,province"`
	District    string    `json:"district" gorm:"size:64;not null" validate:"required,district"`
	CityAddress string    `json:"cityAddress" gorm:"size:255;not null" validate:"required,max=255"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// BlankAddress is the empty editing state for a buyer.
func BlankAddress(buyerEmail string) Address {
	return Address{BuyerEmail: NormalizeEmail(buyerEmail)}
}

var Provinces = []string{
	"Western Province", "Central Province", "Southern Province", "Northern Province",
	"Eastern Province", "North Western Province", "North Central Province", "Uva Province",
	"Sabaragamuwa Province",
}

var Districts = []string{
	"Colombo", "Gampaha", "Kalutara", "Kandy", "Matale", "Nuwara Eliya", "Galle", "Matara",
	"Hambantota", "Jaffna", "Kilinochchi", "Mannar", "Vavuniya", "Mullaitivu", "Batticaloa",
	"Ampara", "Trincomalee", "Kurunegala", "Puttalam", "Anuradhapura", "Polonnaruwa",
	"Badulla", "Monaragala", "Ratnapura", "Kegalle",
}

func IsProvince(s string) bool { return contains(Provinces, s) }

func IsDistrict(s string) bool { return contains(Districts, s) }

func IsPaymentMethod(s string) bool { return contains(PaymentMethods, s) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
