// Package apperr holds the error taxonomy shared by the registries, the ledger
// and the HTTP layer. Each type matches its package sentinel through errors.Is,
// so callers can test for "any duplicate email" without caring about the value.
package apperr

import (
	"fmt"
	"sort"
	"strings"
)

var (
	ErrCustomerNotFound    = &NotFoundError{Entity: "customer"}
	ErrAccountNotFound     = &NotFoundError{Entity: "account"}
	ErrTransactionNotFound = &NotFoundError{Entity: "transaction"}
	ErrAccessLogNotFound   = &NotFoundError{Entity: "access log"}

	ErrDuplicateAccountNumber = &DuplicateError{Field: "account_number"}
	ErrDuplicateCpf           = &DuplicateError{Field: "cpf"}
	ErrDuplicateEmail         = &DuplicateError{Field: "email"}
)

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return t.Entity == e.Entity && (t.ID == "" || t.ID == e.ID)
}

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	if e.Value == "" {
		return e.Field + " already exists"
	}
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

func (e *DuplicateError) Is(target error) bool {
	t, ok := target.(*DuplicateError)
	if !ok {
		return false
	}
	return t.Field == e.Field && (t.Value == "" || t.Value == e.Value)
}

func Duplicate(field, value string) error {
	return &DuplicateError{Field: field, Value: value}
}

// RuleViolationError rejects a transaction whose type does not fit its
// source/destination shape.
type RuleViolationError struct {
	Reason string
}

func (e *RuleViolationError) Error() string {
	return e.Reason
}

type MalformedReferenceError struct {
	Field string
	Value string
}

func (e *MalformedReferenceError) Error() string {
	return fmt.Sprintf("%s %q is not a valid identifier", e.Field, e.Value)
}

type InvalidReferenceError struct {
	Field string
}

func (e *InvalidReferenceError) Error() string {
	return e.Field + " is required"
}

// InvalidInputError carries per-field messages for a rejected payload.
type InvalidInputError struct {
	Fields map[string]string
}

func (e *InvalidInputError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, ", ")
}

func InvalidInput(field, msg string) error {
	return &InvalidInputError{Fields: map[string]string{field: msg}}
}
