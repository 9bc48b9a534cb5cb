package slogx

import (
	"log/slog"
	"strings"
)

const redacted = "[REDACTED]"

// sensitiveKeys never reach a log sink in clear text.
var sensitiveKeys = map[string]struct{}{
	"secret":          {},
	"totp_secret":     {},
	"totp_code":       {},
	"candidate_code":  {},
	"otp":             {},
	"password":        {},
	"recovery_code":   {},
	"token":           {},
	"access_token":    {},
	"bootstrap_token": {},
	"challenge":       {},
	"challenge_token": {},
	"authorization":   {},
}

// Redact is a slog ReplaceAttr func that masks credential-bearing attributes.
func Redact(_ []string, a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redacted)
	}
	return a
}
