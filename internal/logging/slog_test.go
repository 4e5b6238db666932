package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestWithOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	WithOperation(logger, "createTask").Info("test message")

	out := buf.String()
	if !strings.Contains(out, "operation=createTask") {
		t.Errorf("expected operation attribute, got %q", out)
	}
}

func TestWithBackend(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	WithBackend(logger, "session").Info("test message")

	if !strings.Contains(buf.String(), "backend=session") {
		t.Errorf("expected backend attribute, got %q", buf.String())
	}
}

func TestErrNil(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("no failure", Err(nil))

	if strings.Contains(buf.String(), "error=") {
		t.Errorf("expected no error attribute for nil error, got %q", buf.String())
	}
}

func TestErrNonNil(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("failure", Err(errors.New("boom")))

	if !strings.Contains(buf.String(), "error=boom") {
		t.Errorf("expected error attribute, got %q", buf.String())
	}
}

func TestAnonymizeUser(t *testing.T) {
	hash1 := AnonymizeUser("user@example.com")
	hash2 := AnonymizeUser("user@example.com")
	hash3 := AnonymizeUser("other@example.com")

	if hash1 == "" || !strings.HasPrefix(hash1, "user:") {
		t.Errorf("unexpected hash format: %q", hash1)
	}
	if hash1 != hash2 {
		t.Error("expected stable hash for same input")
	}
	if hash1 == hash3 {
		t.Error("expected different hashes for different inputs")
	}
	if strings.Contains(hash1, "example.com") {
		t.Error("hash must not contain the raw username")
	}
	if AnonymizeUser("") != "" {
		t.Error("expected empty result for empty username")
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken(""); got != "<empty>" {
		t.Errorf("expected <empty>, got %q", got)
	}
	got := SanitizeToken("super-secret-token")
	if strings.Contains(got, "secret") {
		t.Errorf("sanitized token leaks content: %q", got)
	}
	if !strings.Contains(got, "18") {
		t.Errorf("expected length indicator, got %q", got)
	}
}
