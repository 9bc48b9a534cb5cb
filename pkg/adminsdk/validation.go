package adminsdk

import (
	"net/mail"
	"strings"
)

const (
	requiredReason = "required"

	minPasswordLen    = 12
	maxPasswordLen    = 128
	maxDisplayNameLen = 64
)

// Validate checks the bootstrap request fields. Returns a map of field names
// to problems, or nil if the request is valid.
func (b BootstrapRequest) Validate() map[string]string {
	errs := make(map[string]string)
	validateEmail(errs, "email", b.Email)
	validateDisplayName(errs, "display_name", b.DisplayName)
	validatePassword(errs, "password", b.Password)
	return nilIfEmpty(errs)
}

// Validate checks the create admin request fields.
func (c CreateAdminRequest) Validate() map[string]string {
	errs := make(map[string]string)
	validateEmail(errs, "email", c.Email)
	validateDisplayName(errs, "display_name", c.DisplayName)
	validatePassword(errs, "password", c.Password)
	return nilIfEmpty(errs)
}

// Validate checks the change password request fields.
func (c ChangePasswordRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if c.CurrentPassword == "" {
		errs["current_password"] = requiredReason
	}
	validatePassword(errs, "new_password", c.NewPassword)
	return nilIfEmpty(errs)
}

func validateEmail(errs map[string]string, field, v string) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		errs[field] = requiredReason
	case len(v) > 254:
		errs[field] = "too long (max 254)"
	default:
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v {
			errs[field] = "must be a plain email address"
		}
	}
}

func validateDisplayName(errs map[string]string, field, v string) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		errs[field] = requiredReason
	case len(v) > maxDisplayNameLen:
		errs[field] = "too long (max 64)"
	}
}

func validatePassword(errs map[string]string, field, v string) {
	switch {
	case v == "":
		errs[field] = requiredReason
	case len(v) < minPasswordLen:
		errs[field] = "too short (min 12)"
	case len(v) > maxPasswordLen:
		errs[field] = "too long (max 128)"
	}
}

func nilIfEmpty(errs map[string]string) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
