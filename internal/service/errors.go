package service

import "errors"

var (
	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrNoQuotes        = errors.New("no quotes in category")
	ErrInvalidImport   = errors.New("import file is not a JSON array of quotes")
	ErrInvalidRecords  = errors.New("invalid records")
	ErrNilDependency   = errors.New("required dependency is nil")
)
