package gateway

import (
	"errors"
	"fmt"
)

// ErrSessionExpired marks a 401 on any authenticated call. The local session
// is torn down and the operator has to log in again.
var ErrSessionExpired = errors.New("platform session expired")

// AuthError covers rejected credentials and rejected OTP codes during login.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return e.Message
}

// NetworkError wraps transport failures and upstream 5xx responses. These are
// always safe to retry.
type NetworkError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// BusinessRuleViolation is a 4xx with an upstream business message, for
// example responding to an assignment somebody else already took.
type BusinessRuleViolation struct {
	Status  int
	Message string
}

func (e *BusinessRuleViolation) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("business rule violation (status %d)", e.Status)
	}
	return e.Message
}

// ConfigurationError means the platform's reference data does not line up
// with what the console expects, such as a missing assignment entity.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

func IsRetryable(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne) && ne.Retryable
}
