package product

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

type fieldErrors map[string][]string

func (f fieldErrors) add(field, format string, args ...any) {
	f[field] = append(f[field], fmt.Sprintf(format, args...))
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// ValidateCreate checks a full product payload (POST and PUT).
func ValidateCreate(in CreateProductInput) error {
	errs := fieldErrors{}
	validateName(errs, in.Name)
	validateDescription(errs, in.Description)
	validatePrice(errs, in.Price)
	validateCategory(errs, in.Category)
	validateStock(errs, in.Stock)
	validateEmail(errs, in.ContactEmail)
	return errs.err()
}

// ValidateUpdate checks only the fields present in a PATCH payload.
func ValidateUpdate(in UpdateProductInput) error {
	errs := fieldErrors{}
	if in.Name != nil {
		validateName(errs, *in.Name)
	}
	if in.Description != nil {
		validateDescription(errs, *in.Description)
	}
	if in.Price != nil {
		validatePrice(errs, *in.Price)
	}
	if in.Category != nil {
		validateCategory(errs, *in.Category)
	}
	if in.Stock != nil {
		validateStock(errs, *in.Stock)
	}
	if in.ContactEmail != nil {
		validateEmail(errs, *in.ContactEmail)
	}
	return errs.err()
}

func validateName(errs fieldErrors, name string) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		errs.add("name", "name is required")
	case len(name) < MinNameLength || len(name) > MaxNameLength:
		errs.add("name", "name must be between %d and %d characters", MinNameLength, MaxNameLength)
	}
}

func validateDescription(errs fieldErrors, desc string) {
	desc = strings.TrimSpace(desc)
	switch {
	case desc == "":
		errs.add("description", "description is required")
	case len(desc) > MaxDescLength:
		errs.add("description", "description cannot exceed %d characters", MaxDescLength)
	}
}

func validatePrice(errs fieldErrors, price decimal.Decimal) {
	if price.LessThan(MinPrice) {
		errs.add("price", "price must be at least %s", MinPrice.StringFixed(2))
	}
	if !price.LessThan(MaxPrice) {
		errs.add("price", "price must be less than %s", MaxPrice.StringFixed(2))
	}
}

func validateCategory(errs fieldErrors, category string) {
	if category == "" {
		errs.add("category", "category is required")
		return
	}
	if !slices.Contains(Categories, category) {
		errs.add("category", "category must be one of: %s", strings.Join(Categories, ", "))
	}
}

func validateStock(errs fieldErrors, stock int) {
	if stock < 0 || stock > MaxStock {
		errs.add("stock", "stock must be between 0 and %d", MaxStock)
	}
}

func validateEmail(errs fieldErrors, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.add("contact_email", "contact email is required")
		return
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		errs.add("contact_email", "contact email is invalid")
	}
}
