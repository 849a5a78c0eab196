package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{"ops@npf.example", "a.b+c@bank.ng", " padded@host.tld "}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("ValidateEmail(%q) = %v", email, err)
		}
	}
	invalid := []string{"", "no-at.example", "two@@host.tld", "spaces in@host.tld"}
	for _, email := range invalid {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("ValidateEmail(%q) should fail", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); err == nil {
		t.Errorf("short password should fail")
	}
	if err := ValidatePassword("long-enough-pw"); err != nil {
		t.Errorf("valid password rejected: %v", err)
	}
}

func TestValidateOTP(t *testing.T) {
	valid := []string{"1234", "123456", "12345678", " 123456 "}
	for _, otp := range valid {
		if err := ValidateOTP(otp); err != nil {
			t.Errorf("ValidateOTP(%q) = %v", otp, err)
		}
	}
	invalid := []string{"", "123", "123456789", "12a456"}
	for _, otp := range invalid {
		if err := ValidateOTP(otp); err == nil {
			t.Errorf("ValidateOTP(%q) should fail", otp)
		}
	}
}
