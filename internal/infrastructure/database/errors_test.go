package database

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"bookshelf-api/internal/exposure"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"foreign key violation", &pgconn.PgError{Code: "23503"},
			http.StatusBadRequest, "REFERENTIAL_ERROR"},
		{"unique violation", &pgconn.PgError{Code: "23505"},
			http.StatusConflict, "CONFLICT"},
		{"not null violation", &pgconn.PgError{Code: "23502"},
			http.StatusBadRequest, "VALIDATION_ERROR"},
		{"uncoercible filter value", &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "not-a-uuid"`},
			http.StatusBadRequest, "VALIDATION_ERROR"},
		{"malformed date value", &pgconn.PgError{Code: "22007"},
			http.StatusBadRequest, "VALIDATION_ERROR"},
		{"date overflow", &pgconn.PgError{Code: "22008"},
			http.StatusBadRequest, "VALIDATION_ERROR"},
		{"other sqlstate", &pgconn.PgError{Code: "42601"},
			http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"wrapped driver error", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}),
			http.StatusConflict, "CONFLICT"},
		{"plain error", errors.New("boom"),
			http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := exposure.MapErrorToHTTP(MapError(tt.err, "Book"))
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestMapErrorKeepsDriverDetailForBadValues(t *testing.T) {
	err := MapError(&pgconn.PgError{
		Code:    "22P02",
		Message: `invalid input syntax for type uuid: "not-a-uuid"`,
	}, "Person")

	_, _, message := exposure.MapErrorToHTTP(err)
	assert.Contains(t, message, "Person")
	assert.Contains(t, message, "invalid input syntax")
}
