package ui

import (
	"testing"
)

// TestLogin verifies the credentials flow against the live application
func TestLogin(t *testing.T) {
	env := SetupTestEnvironment(t, "TestLogin")

	if err := env.Session.Login(); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if !env.Session.VerifyDashboard() {
		t.Error("Dashboard landmarks not found after login")
	}

	t.Logf("✓ Logged in as %s", env.Config.Credentials.Email)
}
