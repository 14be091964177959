package store

import "errors"

// Sentinel errors returned by storages and repositories. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrUnknownDriver is returned when the configured client storage driver
	// is neither "file" nor "sqlite".
	ErrUnknownDriver = errors.New("unknown storage driver")

	// ErrCorruptedState is returned when a saved state exists but cannot be
	// decoded.
	ErrCorruptedState = errors.New("saved state is corrupted")

	// ErrQuoteAlreadyExists is returned when a created quote reuses an
	// identifier already present in the repository.
	ErrQuoteAlreadyExists = errors.New("quote already exists")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a result set fails
	// mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
