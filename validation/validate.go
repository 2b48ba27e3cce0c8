package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// maxEmailLength follows RFC 5321's limit on address length.
const maxEmailLength = 254

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	csrfPattern  = regexp.MustCompile(`^[a-zA-Z0-9]{16,64}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9\s().-]+$`)
)

// ValidEmail reports whether s is an acceptable email address: local@domain.tld
// shape, at most 254 characters, and free of injection patterns.
func ValidEmail(s string) bool {
	if len(s) > maxEmailLength {
		return false
	}
	if !emailPattern.MatchString(s) {
		return false
	}
	return !ContainsDangerous(s)
}

// ValidCSRFToken reports whether s has the shape of a token this service
// issues: 16 to 64 alphanumeric characters.
func ValidCSRFToken(s string) bool {
	return csrfPattern.MatchString(s)
}

// ValidPhone accepts phone numbers with common formatting (digits, spaces,
// parentheses, dots, dashes, optional leading +) carrying 7 to 15 digits.
func ValidPhone(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || !phonePattern.MatchString(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7 && digits <= 15
}

// Validator is a function that validates a string and returns an error if invalid
type Validator func(value string) error

// WithMessage replaces a failing validator's error with a fixed
// client-facing message. Forms use it to keep the generic checks below
// while surfacing their own wording.
func WithMessage(v Validator, message string) Validator {
	return func(value string) error {
		if err := v(value); err != nil {
			return fmt.Errorf("%s", message)
		}
		return nil
	}
}

// Compose chains multiple validators, first error wins
func Compose(validators ...Validator) Validator {
	return func(value string) error {
		for _, v := range validators {
			if err := v(value); err != nil {
				return err
			}
		}
		return nil
	}
}

// Required ensures the field is not empty
func Required() Validator {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("this field is required")
		}
		return nil
	}
}

// MaxLength checks maximum length
func MaxLength(max int) Validator {
	return func(v string) error {
		if len(v) > max {
			return fmt.Errorf("must be no more than %d characters", max)
		}
		return nil
	}
}

// Email rejects values ValidEmail does not accept
func Email() Validator {
	return func(v string) error {
		if !ValidEmail(v) {
			return fmt.Errorf("must be a valid email address")
		}
		return nil
	}
}

// NotDangerous rejects values containing injection patterns
func NotDangerous() Validator {
	return func(v string) error {
		if ContainsDangerous(v) {
			return fmt.Errorf("contains disallowed content")
		}
		return nil
	}
}
