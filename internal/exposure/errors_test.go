package exposure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"bookshelf-api/internal/exposure"
)

func TestMapErrorToHTTP(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"validation", exposure.NewValidation("bad input"),
			http.StatusBadRequest, "VALIDATION_ERROR", "bad input"},
		{"not found", exposure.NewNotFound("Author"),
			http.StatusNotFound, "NOT_FOUND", "Author not found"},
		{"referential", exposure.NewReferential("no such author"),
			http.StatusBadRequest, "REFERENTIAL_ERROR", "no such author"},
		{"conflict", exposure.NewConflict("Author already exists"),
			http.StatusConflict, "CONFLICT", "Author already exists"},
		{"internal hides the cause", exposure.NewInternal(cause),
			http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"},
		{"untyped error", cause,
			http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"},
		{"wrapped typed error", fmt.Errorf("listing: %w", exposure.NewNotFound("Author")),
			http.StatusNotFound, "NOT_FOUND", "Author not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, message := exposure.MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

func TestInternalErrorKeepsCauseForLogs(t *testing.T) {
	cause := errors.New("connection reset")
	err := exposure.NewInternal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}
