// Package validation holds the field rules shared by every write path.
// Rules record the first failure per field; Err turns the collected failures
// into a domain.ValidationError.
package validation

import (
	"encoding/base64"
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
)

const (
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04"
	MaxImageBytes   = 2 << 20
	MinPasswordLen  = 6
	MinNameLen      = 3
	MinBioLen       = 20
	MaxExperience   = 60
	MaxGuests       = 50
	MaxGalleryItems = 12
)

var (
	phoneSeparators  = strings.NewReplacer(" ", "", "-", "")
	phonePattern     = regexp.MustCompile(`^(\+91)?[0-9]{10}$`)
	dataImagePattern = regexp.MustCompile(`^data:image/(jpeg|png|webp);base64,(.+)$`)
)

// Validator collects field failures.
type Validator struct {
	fields map[string]string
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{fields: map[string]string{}}
}

// Fail records reason for field unless the field already failed.
func (v *Validator) Fail(field, reason string) {
	if _, exists := v.fields[field]; !exists {
		v.fields[field] = reason
	}
}

// Check records reason for field when ok is false.
func (v *Validator) Check(ok bool, field, reason string) {
	if !ok {
		v.Fail(field, reason)
	}
}

// Valid reports whether no rule failed.
func (v *Validator) Valid() bool { return len(v.fields) == 0 }

// Fields returns the recorded failures.
func (v *Validator) Fields() map[string]string { return v.fields }

// Err returns nil or a ValidationError carrying every failed field.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	return domain.NewFieldValidationError(v.fields)
}

// Required rejects blank strings.
func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "is required")
}

// MinLength rejects values shorter than n characters after trimming.
func (v *Validator) MinLength(field, value string, n int) {
	v.Check(utf8.RuneCountInString(strings.TrimSpace(value)) >= n, field,
		fmt.Sprintf("must be at least %d characters", n))
}

// Email rejects malformed addresses.
func (v *Validator) Email(field, value string) {
	v.Check(IsEmail(value), field, "must be a valid email address")
}

// Phone requires ten digits, optionally prefixed with +91.
func (v *Validator) Phone(field, value string) {
	v.Check(IsPhone(value), field, "must be a 10 digit phone number")
}

// Date requires a YYYY-MM-DD calendar date.
func (v *Validator) Date(field, value string) {
	v.Check(IsDate(value), field, "must be a date in YYYY-MM-DD format")
}

// ClockTime requires a 24h HH:MM time.
func (v *Validator) ClockTime(field, value string) {
	v.Check(IsClockTime(value), field, "must be a time in HH:MM format")
}

// Between requires min <= n <= max.
func (v *Validator) Between(field string, n, min, max int) {
	v.Check(n >= min && n <= max, field, fmt.Sprintf("must be between %d and %d", min, max))
}

// Image requires an http(s) URL or an inline jpeg/png/webp data URL within
// MaxImageBytes. Empty values pass; pair with Required when mandatory.
func (v *Validator) Image(field, value string) {
	if value == "" {
		return
	}
	if err := CheckImage(value); err != nil {
		v.Fail(field, err.Error())
	}
}

// OneOf requires value to be one of allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.Fail(field, "must be one of: "+strings.Join(allowed, ", "))
}

// IsEmail reports whether s is a bare email address.
func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
}

// IsPhone reports whether s is a ten digit number with optional +91 prefix.
// Spaces and dashes are ignored.
func IsPhone(s string) bool {
	return phonePattern.MatchString(phoneSeparators.Replace(strings.TrimSpace(s)))
}

// NormalizePhone returns the stored form of a phone number: the ten digits
// without separators or the +91 prefix. Invalid input is only trimmed.
func NormalizePhone(s string) string {
	compact := phoneSeparators.Replace(strings.TrimSpace(s))
	if !phonePattern.MatchString(compact) {
		return strings.TrimSpace(s)
	}
	return strings.TrimPrefix(compact, "+91")
}

// IsDate reports whether s is a valid YYYY-MM-DD date.
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsClockTime reports whether s is a valid HH:MM time.
func IsClockTime(s string) bool {
	_, err := time.Parse(ClockLayout, s)
	return err == nil && len(s) == len(ClockLayout)
}

// CheckImage validates an image reference.
func CheckImage(s string) error {
	if strings.HasPrefix(s, "data:") {
		m := dataImagePattern.FindStringSubmatch(s)
		if m == nil {
			return fmt.Errorf("must be a jpeg, png or webp data URL")
		}
		if base64.StdEncoding.DecodedLen(len(m[2])) > MaxImageBytes+2 {
			return fmt.Errorf("must be at most %d bytes", MaxImageBytes)
		}
		decoded, err := base64.StdEncoding.DecodeString(m[2])
		if err != nil {
			return fmt.Errorf("has invalid base64 data")
		}
		if len(decoded) > MaxImageBytes {
			return fmt.Errorf("must be at most %d bytes", MaxImageBytes)
		}
		return nil
	}

	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an http(s) URL or an image data URL")
	}
	return nil
}
