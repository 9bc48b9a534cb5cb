package totp

import (
	"net/url"
	"strconv"
	"strings"
)

// BuildProvisioningURI returns the otpauth:// key URI for an authenticator app:
//
//	otpauth://totp/<issuer>:<account>?secret=..&issuer=..&algorithm=SHA1&digits=6&period=30
//
// Issuer and account are percent-encoded, spaces as %20.
func BuildProvisioningURI(secret, issuer, account string) (string, error) {
	if issuer == "" {
		return "", ErrMissingIssuer
	}
	if account == "" {
		return "", ErrMissingAccount
	}

	var b strings.Builder
	b.WriteString("otpauth://totp/")
	b.WriteString(escape(issuer))
	b.WriteByte(':')
	b.WriteString(escape(account))
	b.WriteString("?secret=")
	b.WriteString(escape(secret))
	b.WriteString("&issuer=")
	b.WriteString(escape(issuer))
	b.WriteString("&algorithm=")
	b.WriteString(Algorithm)
	b.WriteString("&digits=")
	b.WriteString(strconv.Itoa(Digits))
	b.WriteString("&period=")
	b.WriteString(strconv.Itoa(Period))
	return b.String(), nil
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
