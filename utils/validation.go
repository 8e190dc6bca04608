// utils/validation.go
package utils

import (
	"errors"
	"regexp"
	"strings"
)

const MinPasswordLength = 6

var ErrWeakPassword = errors.New("A senha deve ter pelo menos 6 caracteres.")

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	cleaned := NormalizePhone(phone)
	match, _ := regexp.MatchString(`^\+?[1-9]\d{1,14}$`, cleaned)
	return match
}

func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
}

func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
