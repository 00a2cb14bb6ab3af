package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"bookshelf-api/internal/exposure"
)

// SQLSTATE classes the repositories care about.
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeNotNullViolation    = "23502"

	// Class 22 codes raised when a filter value cannot be coerced into
	// the column's type, e.g. filter[id]=not-a-uuid.
	codeInvalidTextRepresentation = "22P02"
	codeInvalidDatetimeFormat     = "22007"
	codeDatetimeFieldOverflow     = "22008"
)

// MapError translates a driver error into the typed error the exposure
// layer renders: foreign keys pointing nowhere become referential
// client errors, duplicate keys become conflicts, values the column
// type cannot hold become validation errors, anything else stays a
// generic server error with the cause preserved for the log.
func MapError(err error, resource string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation:
			return exposure.NewReferential(resource + " references a row that does not exist")
		case codeUniqueViolation:
			return exposure.NewConflict(resource + " already exists")
		case codeNotNullViolation:
			return exposure.NewValidation(resource + " is missing a required column")
		case codeInvalidTextRepresentation, codeInvalidDatetimeFormat, codeDatetimeFieldOverflow:
			return exposure.NewValidation(resource + " received a value of the wrong type: " + pgErr.Message)
		}
	}
	return exposure.NewInternal(err)
}
