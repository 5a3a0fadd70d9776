// Package validation holds the field rules of the product form.
package validation

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

const (
	CodeRequired  = "required"
	CodeMinLength = "minlength"
	CodeMaxLength = "maxlength"
	CodeMinDate   = "minDate"
	CodeDate      = "date"
	CodeIDExists  = "idExists"
)

// Failure is a single rule violation on a field.
type Failure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (f Failure) Error() string { return f.Message }

// Rule checks one value. A nil result means the value passes.
type Rule func(value string) *Failure

// Apply runs every rule and collects the failures in rule order.
func Apply(value string, rules ...Rule) []Failure {
	var out []Failure
	for _, r := range rules {
		if f := r(value); f != nil {
			out = append(out, *f)
		}
	}
	return out
}

func Required() Rule {
	return func(value string) *Failure {
		if value == "" {
			return &Failure{Code: CodeRequired, Message: "Este campo es requerido"}
		}
		return nil
	}
}

// MinLength ignores empty values; Required covers them.
func MinLength(n int) Rule {
	return func(value string) *Failure {
		if value != "" && utf8.RuneCountInString(value) < n {
			return &Failure{Code: CodeMinLength, Message: fmt.Sprintf("Debe tener al menos %d caracteres", n)}
		}
		return nil
	}
}

func MaxLength(n int) Rule {
	return func(value string) *Failure {
		if utf8.RuneCountInString(value) > n {
			return &Failure{Code: CodeMaxLength, Message: fmt.Sprintf("Debe tener como máximo %d caracteres", n)}
		}
		return nil
	}
}

// DateNotPast accepts an empty value or a YYYY-MM-DD date on or after
// today's local midnight, as reported by now.
func DateNotPast(now func() time.Time) Rule {
	return func(value string) *Failure {
		if value == "" {
			return nil
		}
		d, err := models.ParseDate(value)
		if err != nil {
			return &Failure{Code: CodeDate, Message: "Fecha inválida"}
		}
		current := now()
		today := time.Date(current.Year(), current.Month(), current.Day(), 0, 0, 0, 0, current.Location())
		if d.Time(current.Location()).Before(today) {
			return &Failure{Code: CodeMinDate, Message: "La fecha debe ser igual o mayor a la fecha actual"}
		}
		return nil
	}
}

// Product field limits shared by the form and the API.
const (
	IDMinLength          = 3
	IDMaxLength          = 10
	NameMinLength        = 5
	NameMaxLength        = 100
	DescriptionMinLength = 10
	DescriptionMaxLength = 200
)

func IDRules() []Rule {
	return []Rule{Required(), MinLength(IDMinLength), MaxLength(IDMaxLength)}
}

func NameRules() []Rule {
	return []Rule{Required(), MinLength(NameMinLength), MaxLength(NameMaxLength)}
}

func DescriptionRules() []Rule {
	return []Rule{Required(), MinLength(DescriptionMinLength), MaxLength(DescriptionMaxLength)}
}

func LogoRules() []Rule {
	return []Rule{Required()}
}

func ReleaseRules(now func() time.Time) []Rule {
	return []Rule{Required(), DateNotPast(now)}
}
