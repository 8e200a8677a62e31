package utils

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// violationMessages maps "<Struct>.<Field>.<tag>" to the message shown to users.
var violationMessages = map[string]string{
	"SignUpRequest.Name.required":     "Name is required",
	"SignUpRequest.Name.max":          "Name must be at most 100 characters",
	"SignUpRequest.Email.required":    "Invalid email address",
	"SignUpRequest.Email.email":       "Invalid email address",
	"SignUpRequest.Password.required": "Password must be at least 8 characters",
	"SignUpRequest.Password.min":      "Password must be at least 8 characters",
	"SignUpRequest.Password.max":      "Password must be at most 100 characters",
	"SignUpRequest.OrgName.required":  "Organization name is required",
	"SignUpRequest.OrgName.max":       "Organization name must be at most 200 characters",

	"SignInRequest.Email.required":    "Invalid email address",
	"SignInRequest.Email.email":       "Invalid email address",
	"SignInRequest.Password.required": "Password is required",

	"CreateVendorRequest.Name.required": "Vendor name is required",
	"CreateVendorRequest.Name.max":      "Vendor name must be at most 200 characters",
	"CreateVendorRequest.Email.email":   "Invalid email",
	"CreateVendorRequest.Phone.max":     "Phone must be at most 50 characters",
	"CreateVendorRequest.Company.max":   "Company must be at most 200 characters",
	"CreateVendorRequest.Notes.max":     "Notes must be at most 1000 characters",

	"CreateDocumentRequest.Title.required":      "Title is required",
	"CreateDocumentRequest.Title.max":           "Title must be at most 200 characters",
	"CreateDocumentRequest.Type.required":       "Document type must be one of COI, WSIB, OTHER",
	"CreateDocumentRequest.Type.oneof":          "Document type must be one of COI, WSIB, OTHER",
	"CreateDocumentRequest.URL.required":        "Must be a valid URL",
	"CreateDocumentRequest.URL.url":             "Must be a valid URL",
	"CreateDocumentRequest.ExpiryDate.required": "Invalid date",
	"CreateDocumentRequest.ExpiryDate.datestr":  "Invalid date",
	"CreateDocumentRequest.VendorID.required":   "Vendor ID is required",
	"CreateDocumentRequest.VendorID.uuid":       "Vendor not found",

	"UpdateOrganizationRequest.Name.required": "Organization name is required",
	"UpdateOrganizationRequest.Name.max":      "Organization name must be at most 200 characters",

	"CheckoutRequest.Plan.required": "Invalid plan",
	"CheckoutRequest.Plan.oneof":    "Invalid plan",
}

var customRules = map[string]validator.Func{
	"datestr": func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	},
}

func registerRules(v *validator.Validate, rules map[string]validator.Func) error {
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %q validation: %w", tag, err)
		}
	}
	return nil
}

// validatorInstance panics if a custom rule cannot be registered; every
// request using that tag would otherwise fail with a generic message.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		if err := registerRules(v, customRules); err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

// ValidateStruct runs the struct's validate tags and returns a
// *ValidationError holding the first violation, or nil.
func ValidateStruct(s interface{}) error {
	err := validatorInstance().Struct(s)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) || len(violations) == 0 {
		return NewValidationError("Invalid request")
	}

	first := violations[0]
	key := first.StructNamespace() + "." + first.Tag()
	if message, ok := violationMessages[key]; ok {
		return NewValidationError(message)
	}
	return NewValidationError(fmt.Sprintf("%s is invalid", first.Field()))
}
