// Package totp implements RFC 6238 time-based one-time passwords with the
// profile understood by every mainstream authenticator app: HMAC-SHA1,
// six digits and a 30 second period.
//
// The Engine is stateless and safe for concurrent use. Time is read from an
// injected Clock so callers and tests control "now" explicitly:
//
//	eng := totp.New(totp.WithClock(clock))
//	secret, err := eng.GenerateSecret()
//	uri, err := totp.BuildProvisioningURI(secret, "Acme", "admin@acme.test")
//	ok := eng.VerifyCode(secret, "123456")
//
// Replay prevention is the caller's job: Match reports the time step a code was
// accepted for so it can be recorded and refused the next time.
package totp
