package copilot

import (
	"os"
	"testing"
)

func TestServiceName(t *testing.T) {
	t.Setenv("COPILOT_APPLICATION_NAME", "movies")
	t.Setenv("COPILOT_ENVIRONMENT_NAME", "test")
	t.Setenv("COPILOT_SERVICE_NAME", "processor")

	if got := ServiceName("fallback"); got != "movies-test-processor" {
		t.Errorf("got %q, want movies-test-processor", got)
	}
}

func TestServiceNameFallback(t *testing.T) {
	t.Setenv("COPILOT_APPLICATION_NAME", "movies")
	t.Setenv("COPILOT_ENVIRONMENT_NAME", "test")
	t.Setenv("COPILOT_SERVICE_NAME", "")
	os.Unsetenv("COPILOT_SERVICE_NAME")

	if got := ServiceName("fallback"); got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}
}
