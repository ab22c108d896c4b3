package customerror

import (
	"errors"
	"fmt"
	"strings"
)

var ErrValidation = errors.New("ValidationFailure")

var ErrQuery = errors.New("QueryFailure")

var ErrNotFound = errors.New("NotFound")

var ErrStorage = errors.New("StorageFailure")

var ErrSerialization = errors.New("SerializationFailure")

type CustomError struct {
	Kind     error
	Module   string
	Endpoint string
	Message  string
}

func (customError CustomError) Error() string {
	return fmt.Sprintf("ERROR|%s|%s:%s", customError.Endpoint, customError.Module, customError.Message)
}

func (customError CustomError) Unwrap() error {
	return customError.Kind
}

func (customError *CustomError) AppendModule(module string) {
	customError.Module = module + "." + customError.Module
}

func NewError(kind error, module, endpoint, message string) error {
	return CustomError{
		Kind:     kind,
		Module:   module,
		Endpoint: endpoint,
		Message:  message,
	}
}

// ValidationError carries the full list of rejected fields so handlers can
// report every problem at once instead of the first one found.
type ValidationError struct {
	Fields []string
}

func (validationError ValidationError) Error() string {
	return "invalid fields: " + strings.Join(validationError.Fields, ", ")
}

func (validationError ValidationError) Unwrap() error {
	return ErrValidation
}
