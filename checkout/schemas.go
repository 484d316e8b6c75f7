package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	ShippingStandard  = "standard"
	ShippingExpress   = "express"
	ShippingOvernight = "overnight"

	PaymentCashOnDelivery = "cash_on_delivery"

	DefaultCountry = "US"
)

// ShippingMethods lists the accepted shipping methods.
var ShippingMethods = []string{ShippingStandard, ShippingExpress, ShippingOvernight}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// FieldError is one failed rule on one form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// ByField groups messages per field for form rendering.
func (fe FieldErrors) ByField() map[string][]string {
	out := make(map[string][]string, len(fe))
	for _, e := range fe {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

// ValidateForm runs struct validation on form and maps failures to messages
// keyed by json field name.
func ValidateForm(form interface{}, messages map[string]string) FieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{{Field: "", Message: err.Error()}}
	}
	out := make(FieldErrors, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

// StepData is the form payload of one checkout step.
type StepData interface {
	Step() Step
	Validate() FieldErrors
}

type CustomerForm struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
}

var customerMessages = map[string]string{
	"firstName": "First name is required",
	"lastName":  "Last name is required",
	"email":     "Please enter a valid email address",
	"phone":     "Phone number is required",
}

func (f *CustomerForm) Step() Step { return StepCustomer }

func (f *CustomerForm) Validate() FieldErrors { return ValidateForm(f, customerMessages) }

type ShippingForm struct {
	Address        string `json:"address" validate:"required"`
	City           string `json:"city" validate:"required"`
	State          string `json:"state" validate:"required"`
	ZipCode        string `json:"zipCode" validate:"required"`
	Country        string `json:"country"`
	ShippingMethod string `json:"shippingMethod" validate:"oneof=standard express overnight"`
}

var shippingMessages = map[string]string{
	"address":        "Address is required",
	"city":           "City is required",
	"state":          "State is required",
	"zipCode":        "ZIP code is required",
	"shippingMethod": "Invalid shipping method",
}

// DefaultShippingForm is the blank form shown on the shipping step.
func DefaultShippingForm() ShippingForm {
	return ShippingForm{Country: DefaultCountry, ShippingMethod: ShippingStandard}
}

// UnmarshalJSON fills country and shippingMethod defaults for absent fields.
func (f *ShippingForm) UnmarshalJSON(b []byte) error {
	type plain ShippingForm
	p := plain(DefaultShippingForm())
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*f = ShippingForm(p)
	return nil
}

func (f *ShippingForm) Step() Step { return StepShipping }

func (f *ShippingForm) Validate() FieldErrors { return ValidateForm(f, shippingMessages) }

type PaymentForm struct {
	PaymentMethod string `json:"paymentMethod" validate:"eq=cash_on_delivery"`
}

var paymentMessages = map[string]string{
	"paymentMethod": "Cash on delivery is the only supported payment method",
}

func DefaultPaymentForm() PaymentForm {
	return PaymentForm{PaymentMethod: PaymentCashOnDelivery}
}

func (f *PaymentForm) UnmarshalJSON(b []byte) error {
	type plain PaymentForm
	p := plain(DefaultPaymentForm())
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*f = PaymentForm(p)
	return nil
}

func (f *PaymentForm) Step() Step { return StepPayment }

func (f *PaymentForm) Validate() FieldErrors { return ValidateForm(f, paymentMessages) }

type ReviewForm struct {
	OrderNotes    *string `json:"orderNotes,omitempty"`
	TermsAccepted bool    `json:"termsAccepted" validate:"required"`
}

var reviewMessages = map[string]string{
	"termsAccepted": "You must accept the terms and conditions",
}

func (f *ReviewForm) Step() Step { return StepReview }

func (f *ReviewForm) Validate() FieldErrors { return ValidateForm(f, reviewMessages) }

// NewStepData returns an empty form for step, ready to be decoded into.
func NewStepData(step Step) StepData {
	switch step {
	case StepCustomer:
		return &CustomerForm{}
	case StepShipping:
		f := DefaultShippingForm()
		return &f
	case StepPayment:
		f := DefaultPaymentForm()
		return &f
	case StepReview:
		return &ReviewForm{}
	}
	return nil
}
