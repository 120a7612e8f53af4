// Package validators implements the reusable column-attached validators
// named in the integrity pipeline's original_source supplement: email,
// phone, naming-convention case, string length, locale, and web URL
// checks, each rejecting a non-Text value outright.
package validators

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/icdbms/icdbms/value"
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._%+-]*@[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*\.[A-Za-z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9\s().-]{7,20}$`)
)

func asText(v value.Value) (string, error) {
	t, ok := v.(value.Text)
	if !ok {
		return "", fmt.Errorf("validators: requires a Text value, got %s", v.Kind())
	}
	return string(t), nil
}

// EmailValidator rejects Text values that do not look like an email
// address. Grounded on the reference validate/email.rs regular
// expression.
type EmailValidator struct{}

func (EmailValidator) Validate(v value.Value) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	if !emailPattern.MatchString(s) {
		return fmt.Errorf("validators: %q is not a valid email address", s)
	}
	return nil
}

// PhoneValidator rejects Text values that do not look like a phone
// number in any of the common international punctuation forms.
// Grounded on the reference validate/phone.rs regular expression.
type PhoneValidator struct{}

func (PhoneValidator) Validate(v value.Value) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	if !phonePattern.MatchString(s) {
		return fmt.Errorf("validators: %q is not a valid phone number", s)
	}
	return nil
}

// CaseConvention names one of the naming conventions CaseValidator can
// enforce. Grounded on the reference validate/case.rs's three
// validators (snake_case, kebab-case, CamelCase).
type CaseConvention int

const (
	SnakeCase CaseConvention = iota
	KebabCase
	CamelCase
)

// CaseValidator rejects Text values that do not conform to Convention.
type CaseValidator struct {
	Convention CaseConvention
}

func (c CaseValidator) Validate(v value.Value) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	if s == "" {
		return fmt.Errorf("validators: empty string is not valid %s", c.Convention)
	}
	first := rune(s[0])
	switch c.Convention {
	case SnakeCase:
		if !isLowerOrUnderscore(first) {
			return fmt.Errorf("validators: %q is not in snake_case", s)
		}
		for _, r := range s {
			if !isLowerOrUnderscore(r) && !isDigit(r) {
				return fmt.Errorf("validators: %q is not in snake_case", s)
			}
		}
	case KebabCase:
		if !isLowerLetter(first) {
			return fmt.Errorf("validators: %q is not in kebab-case", s)
		}
		for _, r := range s {
			if !isLowerLetter(r) && !isDigit(r) && r != '-' {
				return fmt.Errorf("validators: %q is not in kebab-case", s)
			}
		}
	case CamelCase:
		if !isUpperLetter(first) {
			return fmt.Errorf("validators: %q is not in CamelCase", s)
		}
		for _, r := range s {
			if !isAlphanumeric(r) {
				return fmt.Errorf("validators: %q is not in CamelCase", s)
			}
		}
	default:
		return fmt.Errorf("validators: unknown case convention %d", c.Convention)
	}
	return nil
}

func (c CaseConvention) String() string {
	switch c {
	case SnakeCase:
		return "snake_case"
	case KebabCase:
		return "kebab-case"
	case CamelCase:
		return "CamelCase"
	default:
		return "unknown"
	}
}

func isLowerLetter(r rune) bool { return r >= 'a' && r <= 'z' }
func isUpperLetter(r rune) bool { return r >= 'A' && r <= 'Z' }
func isDigit(r rune) bool       { return r >= '0' && r <= '9' }
func isLowerOrUnderscore(r rune) bool {
	return isLowerLetter(r) || r == '_'
}
func isAlphanumeric(r rune) bool {
	return isLowerLetter(r) || isUpperLetter(r) || isDigit(r)
}

// StrLenValidator rejects Text or Blob values whose byte length falls
// outside [Min, Max].
type StrLenValidator struct {
	Min, Max int
}

func (v StrLenValidator) Validate(val value.Value) error {
	var n int
	switch x := val.(type) {
	case value.Text:
		n = len(x)
	case value.Blob:
		n = len(x)
	default:
		return fmt.Errorf("validators: requires a Text or Blob value, got %s", val.Kind())
	}
	if n < v.Min || n > v.Max {
		return fmt.Errorf("validators: length %d outside [%d, %d]", n, v.Min, v.Max)
	}
	return nil
}

// LocaleValidator rejects Text values that are not a known BCP-47-style
// locale tag: an ISO 639-1 language code, optionally followed by a
// hyphen and an ISO 3166-1 alpha-2 country code. Grounded on the
// reference validation/locale.rs table-driven country/language checks.
type LocaleValidator struct{}

func (LocaleValidator) Validate(v value.Value) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	lang, country, hasCountry := strings.Cut(s, "-")
	if !iso639.has(lang) {
		return fmt.Errorf("validators: %q is not a known ISO 639-1 language code", lang)
	}
	if hasCountry && !iso3166.has(country) {
		return fmt.Errorf("validators: %q is not a known ISO 3166-1 country code", country)
	}
	return nil
}

// WebURLValidator rejects Text values that are not a well-formed
// http(s) URL with a non-empty host.
type WebURLValidator struct{}

func (WebURLValidator) Validate(v value.Value) error {
	s, err := asText(v)
	if err != nil {
		return err
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("validators: %q is not a valid URL: %w", s, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("validators: %q must use http or https", s)
	}
	if u.Host == "" {
		return fmt.Errorf("validators: %q has no host", s)
	}
	return nil
}
