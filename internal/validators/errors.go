package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidRecord = errors.New("invalid quote record")
	ErrEmptyBatch    = errors.New("records list cannot be empty")
)
