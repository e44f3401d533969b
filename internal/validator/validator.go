package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidCPF      = errors.New("invalid cpf")
	ErrInvalidPassword = errors.New("invalid password")
)

var (
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	cpfRegex   = regexp.MustCompile(`^\d{3}\.?\d{3}\.?\d{3}-?\d{2}$`)
)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateCPF accepts either the bare 11 digits or the dotted 000.000.000-00 form.
func ValidateCPF(cpf string) error {
	if !cpfRegex.MatchString(cpf) {
		return ErrInvalidCPF
	}
	return nil
}

// NormalizeCPF strips the punctuation so both spellings hit the same unique key.
func NormalizeCPF(cpf string) string {
	return strings.NewReplacer(".", "", "-", "").Replace(strings.TrimSpace(cpf))
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}
