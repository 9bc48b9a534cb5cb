/*
Package adminsdk is the client SDK for the admin authentication service of the
asset-protection console.

It carries the request and response types shared by server and client, the
error types the server writes (APIError, MFARequiredError) and a small HTTP
client.

# Logging in

	client := adminsdk.NewClient("https://auth.example.com")

	session, err := client.Login(ctx, "ops@example.com", password)
	var mfa *adminsdk.MFARequiredError
	if errors.As(err, &mfa) {
		session, err = client.CompleteLogin(ctx, mfa.ChallengeToken, adminsdk.MethodTOTP, code)
	}

# Enrolling an authenticator

	enrollment, err := session.EnrollTOTP(ctx)
	// show enrollment.QRCode or enrollment.Secret to the admin
	codes, err := session.ConfirmTOTP(ctx, codeFromApp)
	// codes.RecoveryCodes are shown exactly once

Errors returned by the server can be matched with errors.Is against the
predefined values, e.g. errors.Is(err, adminsdk.ErrInvalidCode).
*/
package adminsdk
