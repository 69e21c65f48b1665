package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const missingFieldsReason = "please fill all required fields"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("province", func(fl validator.FieldLevel) bool {
		return IsProvince(fl.Field().String())
	})
	_ = v.RegisterValidation("district", func(fl validator.FieldLevel) bool {
		return IsDistrict(fl.Field().String())
	})
	_ = v.RegisterValidation("payment", func(fl validator.FieldLevel) bool {
		return IsPaymentMethod(fl.Field().String())
	})
	_ = v.RegisterValidation("orderid", func(fl validator.FieldLevel) bool {
		return ValidOrderID(fl.Field().String())
	})
	return v
}

func ValidateAddress(a *Address) error {
	if a == nil {
		return &ValidationError{Reason: missingFieldsReason}
	}
	return structError(validate.Struct(a))
}

func ValidateShipping(s ShippingDetails) error {
	return structError(validate.Struct(s))
}

// ValidateOrder checks an order before it is written. An empty line list is
// reported as ErrEmptyCart.
func ValidateOrder(o *Order) error {
	if o == nil {
		return &ValidationError{Reason: missingFieldsReason}
	}
	if len(o.Items) == 0 {
		return ErrEmptyCart
	}
	if err := structError(validate.Struct(o)); err != nil {
		return err
	}
	if o.DeliveryFee.IsNegative() {
		return &ValidationError{Fields: []string{"deliveryFee"}, Reason: "amounts must not be negative"}
	}
	for _, l := range o.Items {
		if l.Price.IsNegative() {
			return &ValidationError{Fields: []string{"price"}, Reason: "amounts must not be negative"}
		}
	}
	return nil
}

func structError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Reason: err.Error()}
	}
	seen := map[string]bool{}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if !seen[fe.Field()] {
			seen[fe.Field()] = true
			fields = append(fields, fe.Field())
		}
	}
	return &ValidationError{Fields: fields, Reason: missingFieldsReason}
}
