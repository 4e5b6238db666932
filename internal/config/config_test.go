package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/avandorp/ticktick-mcp/internal/apierr"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TICKTICK_CLIENT_ID", "TICKTICK_CLIENT_SECRET", "TICKTICK_REDIRECT_URI",
		"TICKTICK_ACCESS_TOKEN", "TICKTICK_USERNAME", "TICKTICK_PASSWORD",
		"TICKTICK_DEVICE_ID", "TICKTICK_REQUEST_TIMEOUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TICKTICK_ACCESS_TOKEN", "tok")
	t.Setenv("TICKTICK_USERNAME", "user@example.com")
	t.Setenv("TICKTICK_PASSWORD", "hunter2")
	t.Setenv("TICKTICK_REQUEST_TIMEOUT", "5s")

	s, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.AccessToken != "tok" {
		t.Errorf("expected access token 'tok', got %q", s.AccessToken)
	}
	if s.RequestTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", s.RequestTimeout)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("expected valid settings, got %v", err)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	clearEnv(t)

	s, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("expected default timeout, got %s", s.RequestTimeout)
	}
	if s.DeviceID == "" {
		t.Error("expected a generated device id")
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "ticktick.yaml")
	content := "access_token: filetok\nusername: u@example.com\npassword: pw\nrequest_timeout: 10s\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.AccessToken != "filetok" {
		t.Errorf("expected access token from file, got %q", s.AccessToken)
	}
	if s.RequestTimeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %s", s.RequestTimeout)
	}
}

func TestLoadMissingFileFallsBackToEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TICKTICK_ACCESS_TOKEN", "envtok")

	s, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.AccessToken != "envtok" {
		t.Errorf("expected env fallback, got %q", s.AccessToken)
	}
}

func TestValidateReportsAllMissingFields(t *testing.T) {
	s := &Settings{RequestTimeout: time.Second}
	err := s.Validate()
	if err == nil {
		t.Fatal("expected error for empty settings")
	}
	if !errors.Is(err, apierr.ErrConfig) {
		t.Errorf("expected configuration kind, got %v", err)
	}
	for _, field := range []string{"access_token", "username", "password"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("expected %q in error, got %q", field, err.Error())
		}
	}
}

func TestValidateAuthFlow(t *testing.T) {
	s := &Settings{ClientID: "id", ClientSecret: "secret", RedirectURI: "http://127.0.0.1/cb"}
	if err := s.ValidateAuthFlow(); err != nil {
		t.Errorf("expected valid auth flow settings, got %v", err)
	}

	s.ClientSecret = ""
	err := s.ValidateAuthFlow()
	if err == nil {
		t.Fatal("expected error for missing client secret")
	}
	if !strings.Contains(err.Error(), "client_secret") {
		t.Errorf("expected client_secret in error, got %q", err.Error())
	}
}
