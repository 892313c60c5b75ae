// Package validate turns raw invoice JSON into a normalized
// invoice2pdf.InvoiceRecord, or a list of human-readable field errors.
// Defaults for absent company fields are applied here, so downstream
// code never sees a partial record.
package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	invoice2pdf "github.com/alnah/go-invoice2pdf"
)

// rawInvoice mirrors the request body. Pointers tell "absent" from
// "zero"; unknown keys such as caller-computed totals are ignored.
type rawInvoice struct {
	InvoiceNo  *text        `json:"invoiceNo" validate:"required,jsonstr,min=1"`
	Date       *text        `json:"date" validate:"required,jsonstr,min=1"`
	Customer   *rawCustomer `json:"customer" validate:"required"`
	Items      []rawItem    `json:"items" validate:"required,min=1,dive"`
	TaxPercent *number      `json:"taxPercent" validate:"omitnil,jsonnum,gte=0,lte=100"`
	Company    *rawCompany  `json:"company"`
}

type rawCustomer struct {
	Name    *text `json:"name" validate:"required,jsonstr,min=1"`
	Email   *text `json:"email" validate:"required,jsonstr,email"`
	Address *text `json:"address" validate:"required,jsonstr,min=1"`
}

type rawItem struct {
	Name  *text   `json:"name" validate:"required,jsonstr,min=1"`
	Qty   *number `json:"qty" validate:"required,jsonnum,gte=1"`
	Price *number `json:"price" validate:"required,jsonnum,gte=0"`
}

type rawCompany struct {
	Name    *text `json:"name" validate:"omitnil,jsonstr,min=1"`
	Address *text `json:"address" validate:"omitnil,jsonstr,min=1"`
	Phone   *text `json:"phone" validate:"omitnil,jsonstr"`
	Email   *text `json:"email" validate:"omitnil,jsonstr,email"`
}

// lenient accepts any JSON value. A value of the wrong type is kept
// raw so the validator reports it next to every other failing field,
// with its full indexed path.
type lenient[T any] struct {
	value T
	raw   []byte
	ok    bool
}

type (
	text   = lenient[string]
	number = lenient[float64]
)

func (l *lenient[T]) UnmarshalJSON(data []byte) error {
	l.raw = append([]byte(nil), data...)
	l.ok = json.Unmarshal(data, &l.value) == nil
	return nil
}

// lenientValue hands the validator the decoded value, or the raw bytes
// when the type was wrong. Raw bytes fail the jsonstr and jsonnum tags.
func lenientValue[T any](field reflect.Value) any {
	l, _ := field.Interface().(lenient[T])
	if !l.ok {
		return l.raw
	}
	return l.value
}

func hasKind(kind reflect.Kind) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == kind
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(lenientValue[string], text{})
	v.RegisterCustomTypeFunc(lenientValue[float64], number{})
	// Only fails on an empty tag name or a reserved one.
	_ = v.RegisterValidation("jsonstr", hasKind(reflect.String))
	_ = v.RegisterValidation("jsonnum", hasKind(reflect.Float64))
	return v
}

// Invoice validates data and returns the normalized record. Company
// fields the body leaves out take their value from defaults. Failures
// are *Errors (matches ErrValidation) or wrap ErrMalformed.
func Invoice(data []byte, defaults invoice2pdf.Company) (invoice2pdf.InvoiceRecord, error) {
	var raw rawInvoice
	if err := decode(data, &raw); err != nil {
		return invoice2pdf.InvoiceRecord{}, err
	}
	if err := validate.Struct(&raw); err != nil {
		return invoice2pdf.InvoiceRecord{}, translate(err)
	}
	return raw.record(defaults), nil
}

// decode reports structural type mismatches (an object where an array
// belongs) on their own. Scalar mismatches are left to the validator.
func decode(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return &Errors{Details: []string{`"value" is required`}}
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &Errors{Details: []string{typeMessage(typeErr)}}
		}
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func (r *rawInvoice) record(defaults invoice2pdf.Company) invoice2pdf.InvoiceRecord {
	rec := invoice2pdf.InvoiceRecord{
		InvoiceNo: r.InvoiceNo.value,
		Date:      r.Date.value,
		Customer: invoice2pdf.Customer{
			Name:    r.Customer.Name.value,
			Email:   r.Customer.Email.value,
			Address: r.Customer.Address.value,
		},
		Items:      make([]invoice2pdf.LineItem, len(r.Items)),
		TaxPercent: decimal.Zero,
		Company:    defaults,
	}
	for i, item := range r.Items {
		rec.Items[i] = invoice2pdf.LineItem{
			Name:  item.Name.value,
			Qty:   decimal.NewFromFloat(item.Qty.value),
			Price: decimal.NewFromFloat(item.Price.value),
		}
	}
	if r.TaxPercent != nil {
		rec.TaxPercent = decimal.NewFromFloat(r.TaxPercent.value)
	}
	if c := r.Company; c != nil {
		overlay(&rec.Company.Name, c.Name)
		overlay(&rec.Company.Address, c.Address)
		overlay(&rec.Company.Phone, c.Phone)
		overlay(&rec.Company.Email, c.Email)
	}
	return rec
}

func overlay(dst *string, src *text) {
	if src != nil {
		*dst = src.value
	}
}
