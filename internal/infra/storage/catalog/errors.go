package catalog

import "errors"

var (
	// ErrOfferingNotFound is returned when the service offering does not exist.
	ErrOfferingNotFound = errors.New("catalog.repository: service offering not found")

	// ErrResourceNotFound is returned when the resource does not exist.
	ErrResourceNotFound = errors.New("catalog.repository: resource not found")

	// ErrSettingsNotFound is returned when the merchant has no settings row.
	ErrSettingsNotFound = errors.New("catalog.repository: merchant settings not found")

	// ErrBuildQuery is returned when building a SQL statement fails.
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery is returned when executing a SQL statement fails.
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
