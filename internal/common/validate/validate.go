package validate

import (
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const minPhoneDigits = 10

var (
	postalPattern = regexp.MustCompile(`^[A-Za-z]\d[A-Za-z][ -]?\d[A-Za-z]\d$`)
	phonePattern  = regexp.MustCompile(`^[0-9+().\- ]+$`)

	once     sync.Once
	validate *validator.Validate
)

// New returns the shared validator with the storefront tags registered:
// phone, postal and money.
func New() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterCustomTypeFunc(DecimalValue, decimal.Decimal{})
		_ = validate.RegisterValidation("phone", ValidatePhone)
		_ = validate.RegisterValidation("postal", ValidatePostal)
		_ = validate.RegisterValidation("money", ValidateMoney)
	})
	return validate
}

func ValidatePhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if !phonePattern.MatchString(value) {
		return false
	}
	digits := 0
	for _, r := range value {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= minPhoneDigits
}

func ValidatePostal(fl validator.FieldLevel) bool {
	return postalPattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func ValidateMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.IsPositive()
}

func DecimalValue(v reflect.Value) interface{} {
	n, ok := v.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	return n.String()
}

// Message flattens validation errors into one line naming each failed field.
func Message(err error) string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		parts = append(parts, fe.Namespace()+" is invalid ("+fe.Tag()+")")
	}
	return strings.Join(parts, "; ")
}
