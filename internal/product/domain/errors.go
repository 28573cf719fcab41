package domain

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrValidation           = errors.New("validation_error")
	ErrNotFound             = errors.New("not_found")
	ErrReferentialIntegrity = errors.New("referential_integrity")
	ErrAssetIO              = errors.New("asset_io")
	ErrPersistence          = errors.New("persistence")
)

// FieldError is a single violated rule. Codes are machine readable; the
// presentation layer owns the wording.
type FieldError struct {
	Field string `json:"field"`
	Code  string `json:"code"`
}

const (
	FieldName     = "name"
	FieldPrice    = "price"
	FieldDiscount = "discount"
	FieldQuantity = "quantity"
	FieldPhoto    = "photo_path"

	CodeRequired     = "required"
	CodeNotANumber   = "not_a_number"
	CodeNotAnInteger = "not_an_integer"
	CodeNegative     = "negative"
	CodeOutOfRange   = "out_of_range"
	CodeUnavailable  = "unavailable"
)

type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field error(s)", len(e.Errors))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return "product " + strconv.FormatInt(e.ID, 10) + " not found"
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ReferentialIntegrityError means a delete was blocked by order references.
type ReferentialIntegrityError struct {
	ID int64
}

func (e *ReferentialIntegrityError) Error() string {
	return "product " + strconv.FormatInt(e.ID, 10) + " is referenced by orders"
}

func (e *ReferentialIntegrityError) Is(target error) bool { return target == ErrReferentialIntegrity }

type AssetIOError struct {
	Path string
	Op   string
	Err  error
}

func (e *AssetIOError) Error() string {
	return "asset " + e.Op + " " + e.Path + ": " + fmt.Sprint(e.Err)
}

func (e *AssetIOError) Unwrap() error { return e.Err }

func (e *AssetIOError) Is(target error) bool { return target == ErrAssetIO }

type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "persistence: " + fmt.Sprint(e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// Reason is the machine-distinguishable failure class handed to callers.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonValidation           Reason = "validation_error"
	ReasonNotFound             Reason = "not_found"
	ReasonReferentialIntegrity Reason = "referential_integrity"
	ReasonAssetIO              Reason = "asset_io"
	ReasonPersistence          Reason = "persistence"
)

// ReasonOf classifies err. Unknown errors are reported as persistence
// failures since every other class is produced explicitly.
func ReasonOf(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrValidation):
		return ReasonValidation
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrReferentialIntegrity):
		return ReasonReferentialIntegrity
	case errors.Is(err, ErrAssetIO):
		return ReasonAssetIO
	default:
		return ReasonPersistence
	}
}

// FieldErrorsOf returns the field errors carried by err, if any.
func FieldErrorsOf(err error) []FieldError {
	var vErr *ValidationError
	if errors.As(err, &vErr) && vErr != nil {
		return vErr.Errors
	}
	return nil
}
