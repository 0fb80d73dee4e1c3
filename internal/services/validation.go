package services

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Column limits of the users table.
const (
	maxNameLength         = 150 // username, first_name, last_name
	maxEmailLength        = 254
	maxLocationLength     = 255
	maxProfilePhotoLength = 255
	maxAvailabilityLength = 100
	maxPasswordBytes      = 72 // bcrypt input limit
)

// checkText records a message for field when value holds a NUL byte or is
// longer than max characters. max 0 means unbounded. An existing message
// for field is kept.
func checkText(fields map[string]string, field, value string, max int) {
	if _, ok := fields[field]; ok {
		return
	}
	switch {
	case strings.ContainsRune(value, 0):
		fields[field] = "null characters are not allowed"
	case max > 0 && utf8.RuneCountInString(value) > max:
		fields[field] = fmt.Sprintf("ensure this field has no more than %d characters", max)
	}
}

// checkOptionalText is checkText for nullable fields.
func checkOptionalText(fields map[string]string, field string, value *string, max int) {
	if value != nil {
		checkText(fields, field, *value, max)
	}
}
