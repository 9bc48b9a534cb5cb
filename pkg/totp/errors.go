package totp

import "errors"

var (
	// ErrInvalidSecret is returned when a secret contains characters outside the
	// Base32 alphabet or decodes to zero bytes.
	ErrInvalidSecret = errors.New("totp: invalid secret")

	// ErrRandomSource is returned when the secure random source fails.
	ErrRandomSource = errors.New("totp: random source failure")

	ErrMissingIssuer  = errors.New("totp: issuer is required")
	ErrMissingAccount = errors.New("totp: account is required")
)
