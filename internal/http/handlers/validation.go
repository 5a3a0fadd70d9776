package handlers

import (
	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/validation"
)

type ProductValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// validateProduct checks the request against the form rules. The id is only
// checked when checkID is set; updates take it from the path.
func validateProduct(p ProductRequest, checkID bool) []ProductValidationError {
	errs := []ProductValidationError{}
	add := func(field, value string, rules []validation.Rule) {
		for _, f := range validation.Apply(value, rules...) {
			errs = append(errs, ProductValidationError{Field: field, Description: f.Message})
		}
	}

	if checkID {
		add("id", p.ID, validation.IDRules())
	}
	add("name", p.Name, validation.NameRules())
	add("description", p.Description, validation.DescriptionRules())
	add("logo", p.Logo, validation.LogoRules())
	add("date_release", p.DateRelease, validation.ReleaseRules(now))
	return errs
}

// toModel builds the stored product. The revision date is always derived
// from the release date; a client-supplied value is ignored.
func toModel(id string, p ProductRequest) (models.Product, error) {
	release, err := models.ParseDate(p.DateRelease)
	if err != nil {
		return models.Product{}, err
	}
	return models.Product{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		Logo:        p.Logo,
		DateRelease: release,
	}.WithRevision(), nil
}
