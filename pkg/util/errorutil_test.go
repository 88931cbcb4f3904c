package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainErrorMapsNoRows(t *testing.T) {
	wrapped := fmt.Errorf("load ticket: %w", pgx.ErrNoRows)
	de := ToDomainError(wrapped)
	if de.Code != "NOT_FOUND" || de.HTTPStatus != http.StatusNotFound {
		t.Errorf("got %q/%d, want NOT_FOUND/404", de.Code, de.HTTPStatus)
	}
}

func TestToDomainErrorPassesThrough(t *testing.T) {
	err := NewForbidden("nope")
	de := ToDomainError(err)
	if de.Code != "FORBIDDEN" || de.HTTPStatus != http.StatusForbidden {
		t.Errorf("got %q/%d", de.Code, de.HTTPStatus)
	}
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	de := ToDomainError(errors.New("boom"))
	if de.Code != "INTERNAL_ERROR" || de.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("got %q/%d", de.Code, de.HTTPStatus)
	}
	if !errors.Is(de, de.Err) {
		t.Error("cause not wrapped")
	}
}

func TestErrorStatusCodes(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewDuplicateEmail("a@b.c"), "DUPLICATE_EMAIL", http.StatusBadRequest},
		{NewConfigurationError("seed missing"), "CONFIGURATION_ERROR", http.StatusBadRequest},
		{NewInvalidCredentials(), "INVALID_CREDENTIALS", http.StatusUnauthorized},
		{NewNotFound("ticket", nil), "NOT_FOUND", http.StatusNotFound},
		{NewForbidden("no"), "FORBIDDEN", http.StatusForbidden},
	}
	for _, tc := range cases {
		if !IsCode(tc.err, tc.code) {
			t.Errorf("IsCode(%v, %s) = false", tc.err, tc.code)
		}
		if de := ToDomainError(tc.err); de.HTTPStatus != tc.status {
			t.Errorf("%s status = %d, want %d", tc.code, de.HTTPStatus, tc.status)
		}
	}
}
