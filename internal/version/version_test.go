package version

import (
	"strings"
	"testing"
)

func TestString_ContainsVersionAndBuildTime(t *testing.T) {
	t.Parallel()

	s := String()
	if !strings.Contains(s, "kagimcp version") {
		t.Errorf("expected binary name in version string, got %q", s)
	}
	if !strings.Contains(s, Version) {
		t.Errorf("expected %q in version string, got %q", Version, s)
	}
	if !strings.Contains(s, BuildTime) {
		t.Errorf("expected %q in version string, got %q", BuildTime, s)
	}
}
