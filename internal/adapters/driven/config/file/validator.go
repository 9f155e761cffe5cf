package file

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
)

// Ensure Validator implements the interface.
var _ driven.SettingsValidator = (*Validator)(nil)

// Validator checks settings with go-playground/validator struct tags plus
// cross-field rules for email delivery.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a settings validator.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateDelivery, domain.DeliverySettings{})
	return &Validator{validate: v}
}

// Validate returns a domain.ErrInvalidInput wrapping every failed rule.
func (v *Validator) Validate(settings *domain.Settings) error {
	err := v.validate.Struct(settings)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate settings: %w", err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
}

// validateDelivery requires a recipient and a transport when an email
// method is selected.
func validateDelivery(sl validator.StructLevel) {
	d, ok := sl.Current().Interface().(domain.DeliverySettings)
	if !ok || !d.WantsEmail() {
		return
	}
	if d.EmailTo == "" {
		sl.ReportError(d.EmailTo, "EmailTo", "EmailTo", "email_recipient", "")
	}
	if d.SMTPHost == "" && d.ResendAPIKey == "" {
		sl.ReportError(d.SMTPHost, "SMTPHost", "SMTPHost", "email_transport", "")
	}
}

// describe renders a field error in config-key terms.
func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Settings.")
	switch fe.Tag() {
	case "required", "required_if", "required_unless":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fmt.Sprint(fe.Value()))
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "timezone":
		return fmt.Sprintf("%s is not a known timezone: %q", field, fmt.Sprint(fe.Value()))
	case "email_recipient":
		return "Delivery.EmailTo is required for email delivery"
	case "email_transport":
		return "Delivery.SMTPHost or Delivery.ResendAPIKey is required for email delivery"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
