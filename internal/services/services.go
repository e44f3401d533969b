// Package services holds the registries, the transaction ledger, the access
// log recorder and the login flow. Errors leave this package as apperr types
// or as the sentinels declared next to the service that raises them.
package services

import (
	"database/sql"
	"errors"
	"strings"

	"bankoffice/internal/apperr"
	"bankoffice/internal/db"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// unique constraints from migrations/0001_init.sql and the field each guards
var uniqueFields = map[string]string{
	"accounts_account_number_key": "account_number",
	"customers_cpf_key":           "cpf",
	"customers_email_key":         "email",
}

// duplicateFromConstraint turns a duplicate-key failure into the same
// DuplicateError the pre-check would have returned. values maps field name to
// the value that was being written.
func duplicateFromConstraint(err error, values map[string]string) error {
	constraint, ok := db.UniqueConstraint(err)
	if !ok {
		return err
	}
	field, known := uniqueFields[constraint]
	if !known {
		return err
	}
	return apperr.Duplicate(field, values[field])
}

func notFoundOr(err error, entity, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(entity, id)
	}
	return err
}

func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
