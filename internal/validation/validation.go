package validation

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/mr-tron/base58"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

var (
	v    *validator.Validate
	once sync.Once
)

// V returns the process-wide validator with the custom marketplace
// validations registered.
func V() *validator.Validate {
	once.Do(func() {
		v = validator.New()
		_ = v.RegisterValidation("networkValidator", networkValidator)
		_ = v.RegisterValidation("operationValidator", operationValidator)
		_ = v.RegisterValidation("assetNameValidator", assetNameValidator)
		_ = v.RegisterValidation("priceValidator", priceValidator)
		_ = v.RegisterValidation("base58Validator", base58Validator)
	})
	return v
}

// networkValidator checks the value against the ledger allow-list.
func networkValidator(fl validator.FieldLevel) bool {
	return types.Network(fl.Field().String()).IsValid()
}

// operationValidator checks the value is a known marketplace operation.
func operationValidator(fl validator.FieldLevel) bool {
	return types.ParseOperationKind(fl.Field().String()) != types.OperationInvalid
}

const assetNameRegex = `^[A-Za-z0-9_-]+$`

// assetNameValidator checks if the given name is alphanumeric with underscores and hyphens.
func assetNameValidator(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(assetNameRegex)
	return re.MatchString(fl.Field().String())
}

const priceRegex = `^[0-9]+$`

// priceValidator checks the value is a non-negative integer carried as a
// string. Prices stay in string form end to end to avoid precision loss.
func priceValidator(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(priceRegex)
	return re.MatchString(fl.Field().String())
}

// base58Validator checks the value decodes as a base58 ledger address.
func base58Validator(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	_, err := base58.Decode(s)
	return err == nil
}
