package common

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-z0-9_]+$`)
)

// Field is a named request value checked by RequireFields.
type Field struct {
	Name  string
	Value string
}

// RequireFields fails with ValidationFailed listing every field that is empty
// after trimming.
func RequireFields(message string, fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, fmt.Sprintf("%s is required", f.Name))
		}
	}
	if len(missing) > 0 {
		return ErrValidation(message, missing...)
	}
	return nil
}

func ValidateUsername(username string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if len(username) < 3 || len(username) > 50 {
		return ErrValidation("username must be between 3 and 50 characters")
	}
	if !usernameRegex.MatchString(username) {
		return ErrValidation("username can only contain letters, numbers, and underscores")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrValidation("password must be at least 6 characters long")
	}
	if len(password) > 72 {
		return ErrValidation("password must be at most 72 characters long")
	}
	return nil
}

func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return ErrValidation("invalid email format")
	}
	return nil
}

// SortKeys returns the keys of a whitelist map in stable order, used in error details.
func SortKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
