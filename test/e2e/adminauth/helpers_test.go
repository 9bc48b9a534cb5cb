package adminauth_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/assetshield/adminauth/pkg/adminsdk"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for the admin auth end-to-end tests.
 * This includes container setup, login flows and TOTP helpers.
 */

const (
	testImageName = "assetshield-adminauth-test:latest"

	bootstrapToken   = "test-bootstrap-token-12345"
	adminEmail       = "ops@assetshield.test"
	adminDisplayName = "Site Ops"
	adminPassword    = "correct-horse-battery"
)

// TestMain builds the Docker image once before all tests and removes it
// afterwards.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Admin Auth Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Admin Auth Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/adminauth/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	cmd := exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// relaxedRateLimits keeps the suite from tripping production limits.
var relaxedRateLimits = map[string]string{
	"RATELIMIT_STRICT_REQUESTS":   "1000",
	"RATELIMIT_STRICT_WINDOW_SEC": "60",
	"RATELIMIT_STRICT_BURST":      "1000",
	"RATELIMIT_MODERATE_REQUESTS": "1000",
	"RATELIMIT_MODERATE_BURST":    "1000",
}

// setupAdminAuthContainer starts the service and returns its base URL.
// Extra env entries override the defaults.
func setupAdminAuthContainer(t *testing.T, extraEnv map[string]string) string {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"BOOTSTRAP_TOKEN":      bootstrapToken,
		"ADMINAUTH_ISSUER":     "assetshield-adminauth",
		"ADMINAUTH_MASTER_KEY": "e2e-master-key",
		"ADMINAUTH_NUM_KEYS":   "1",
		"ENV":                  "test",
		"LOG_LEVEL":            "info",
		"LOG_FORMAT":           "json",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// bootstrapAdmin creates the first administrator and logs in with password.
func bootstrapAdmin(t *testing.T, client *adminsdk.Client) *adminsdk.Session {
	t.Helper()

	created, err := client.Bootstrap(t.Context(), bootstrapToken, adminsdk.BootstrapRequest{
		Email:       adminEmail,
		DisplayName: adminDisplayName,
		Password:    adminPassword,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.AdminID)

	session, err := client.Login(t.Context(), adminEmail, adminPassword)
	require.NoError(t, err)
	require.Equal(t, []string{"pwd"}, session.AMR())
	return session
}

// enrollTOTP enrolls and confirms an authenticator for the session's admin.
func enrollTOTP(t *testing.T, session *adminsdk.Session) (string, []string) {
	t.Helper()

	enrollment, err := session.EnrollTOTP(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)

	codes, err := session.ConfirmTOTP(t.Context(), currentCode(t, enrollment.Secret))
	require.NoError(t, err)
	require.Len(t, codes.RecoveryCodes, 10)

	return enrollment.Secret, codes.RecoveryCodes
}

// loginWithTOTP runs both login steps. It waits for a fresh time step so a
// code used earlier in the test is never replayed.
func loginWithTOTP(t *testing.T, client *adminsdk.Client, email, password, secret string) *adminsdk.Session {
	t.Helper()

	challenge := requireChallenge(t, client, email, password)
	waitForNextStep()

	session, err := client.CompleteLogin(t.Context(), challenge.ChallengeToken, adminsdk.MethodTOTP, currentCode(t, secret))
	require.NoError(t, err)
	return session
}

// requireChallenge logs in with password and expects a second factor challenge.
func requireChallenge(t *testing.T, client *adminsdk.Client, email, password string) *adminsdk.MFARequiredError {
	t.Helper()

	_, err := client.Login(t.Context(), email, password)
	var challenge *adminsdk.MFARequiredError
	require.ErrorAs(t, err, &challenge)
	require.NotEmpty(t, challenge.ChallengeToken)
	return challenge
}

func currentCode(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	return code
}

// waitForNextStep sleeps until just after the next 30 second boundary.
func waitForNextStep() {
	now := time.Now()
	next := now.Truncate(30 * time.Second).Add(30*time.Second + 500*time.Millisecond)
	time.Sleep(next.Sub(now))
}
