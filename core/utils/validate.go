package utils

import (
	"errors"
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	otpRe   = regexp.MustCompile(`^[0-9]{4,8}$`)
)

func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || len(email) > 254 || !emailRe.MatchString(email) {
		return errors.New("invalid email")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 || len(password) > 128 {
		return errors.New("password must be between 8 and 128 characters")
	}
	return nil
}

func ValidateOTP(otp string) error {
	if !otpRe.MatchString(strings.TrimSpace(otp)) {
		return errors.New("invalid otp")
	}
	return nil
}
