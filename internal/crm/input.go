package crm

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/crmdesk/crmdesk/internal/domain"
)

var validate = validator.New()

// CustomerInput is the editable part of a customer, bound from forms and JSON.
type CustomerInput struct {
	Name    string `form:"name" json:"name" validate:"required,max=200"`
	Email   string `form:"email" json:"email" validate:"required,email,max=255"`
	Phone   string `form:"phone" json:"phone" validate:"omitempty,max=64"`
	Company string `form:"company" json:"company" validate:"omitempty,max=200"`
}

func (in *CustomerInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Company = strings.TrimSpace(in.Company)
}

// OrderInput carries a raw amount string so malformed numbers surface as ErrInvalidAmount.
type OrderInput struct {
	CustomerID int64  `form:"customer_id" json:"customer_id,string"`
	Product    string `form:"product" json:"product" validate:"max=200"`
	Amount     string `form:"amount" json:"amount"`
	Status     string `form:"status" json:"status" validate:"max=32"`
}

func (in *OrderInput) normalize() {
	in.Product = strings.TrimSpace(in.Product)
	in.Amount = strings.TrimSpace(in.Amount)
	in.Status = strings.TrimSpace(in.Status)
	if in.Status == "" {
		in.Status = domain.DefaultOrderStatus
	}
}

// ParseAmount accepts a non-negative decimal number.
func ParseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || amount.IsNegative() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	return amount.Round(2), nil
}

func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return errors.Wrapf(domain.ErrValidation, "%s failed on %s", strings.ToLower(fe.Field()), fe.Tag())
	}
	return errors.Wrap(domain.ErrValidation, err.Error())
}
