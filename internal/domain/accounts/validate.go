package accounts

import (
	"regexp"
	"strings"
	"unicode"

	"dog-breed-social/internal/platform/validate"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func invalid(msg string) error { return validate.New(msg) }

func ValidateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return invalid("please provide a valid email address")
	}
	return nil
}

// CharClass es una clase de caracteres exigible por la política.
type CharClass string

const (
	ClassLower   CharClass = "lowercase letter"
	ClassUpper   CharClass = "uppercase letter"
	ClassDigit   CharClass = "digit"
	ClassSpecial CharClass = "special character"
)

var allClasses = []CharClass{ClassLower, ClassUpper, ClassDigit, ClassSpecial}

// PasswordPolicy: largo mínimo y, opcionalmente, una de cada clase.
type PasswordPolicy struct {
	MinLength      int
	RequireClasses bool
}

const DefaultMinPasswordLength = 6

func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: DefaultMinPasswordLength}
}

func (p PasswordPolicy) Validate(password string) error {
	min := p.MinLength
	if min <= 0 {
		min = DefaultMinPasswordLength
	}
	if len([]rune(password)) < min {
		return validate.Field("password", "password must be at least %d characters", min)
	}
	if !p.RequireClasses {
		return nil
	}

	missing := MissingClasses(password)
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, 0, len(missing))
	for _, c := range missing {
		names = append(names, string(c))
	}
	return invalid("password must contain at least one " + strings.Join(names, ", "))
}

// MissingClasses devuelve las clases ausentes, en orden fijo.
func MissingClasses(password string) []CharClass {
	has := map[CharClass]bool{}
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			has[ClassLower] = true
		case unicode.IsUpper(r):
			has[ClassUpper] = true
		case unicode.IsDigit(r):
			has[ClassDigit] = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r):
			has[ClassSpecial] = true
		}
	}
	out := make([]CharClass, 0)
	for _, c := range allClasses {
		if !has[c] {
			out = append(out, c)
		}
	}
	return out
}

// ValidateCredentials: presencia + formato de email. Lo comparten login y register.
func ValidateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return invalid("email and password are required")
	}
	return ValidateEmail(email)
}
